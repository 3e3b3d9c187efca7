package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type ChapterHandler struct {
	chapterService services.ChapterService
}

func NewChapterHandler(chapterService services.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService}
}

func (ch *ChapterHandler) ListBySubject(c *gin.Context) {
	subjectID, ok := parseUUIDParam(c, "subject_id")
	if !ok {
		return
	}
	chapters, err := ch.chapterService.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, chapters)
}

func (ch *ChapterHandler) Update(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "chapter_id")
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
	chapter, err := ch.chapterService.Update(c.Request.Context(), rd.UserID, rd.IsAdmin, id, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, chapter)
}

func (ch *ChapterHandler) Delete(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}
	if err := ch.chapterService.Delete(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "chapter deleted"})
}

func (ch *ChapterHandler) GenerateTopics(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}
	topics, err := ch.chapterService.GenerateTopics(c.Request.Context(), rd.UserID, rd.IsAdmin, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, topics)
}
