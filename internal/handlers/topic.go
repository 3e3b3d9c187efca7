package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type TopicHandler struct {
	topicService services.TopicService
}

func NewTopicHandler(topicService services.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

func (th *TopicHandler) ListByChapter(c *gin.Context) {
	chapterID, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}
	topics, err := th.topicService.ListByChapter(c.Request.Context(), chapterID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, topics)
}

func (th *TopicHandler) Update(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	topic, err := th.topicService.Update(c.Request.Context(), rd.UserID, rd.IsAdmin, id, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, topic)
}

func (th *TopicHandler) Delete(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	if err := th.topicService.Delete(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "topic deleted"})
}

func (th *TopicHandler) GenerateContent(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	content, err := th.topicService.GenerateContent(c.Request.Context(), rd.UserID, rd.IsAdmin, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, content)
}

func (th *TopicHandler) GetContent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	content, err := th.topicService.GetContent(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, content)
}

func (th *TopicHandler) DeleteContent(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	if err := th.topicService.DeleteContent(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "content deleted"})
}
