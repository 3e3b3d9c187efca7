package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (ch *CourseHandler) Create(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	course, err := ch.courseService.Create(c.Request.Context(), rd.UserID, req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, course)
}

func (ch *CourseHandler) CreateFromPrompt(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	course, err := ch.courseService.CreateFromPrompt(c.Request.Context(), rd.UserID, req.Prompt)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, course)
}

func (ch *CourseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	course, err := ch.courseService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, course)
}

func (ch *CourseHandler) ListMine(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courses, err := ch.courseService.ListMine(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, courses)
}

func (ch *CourseHandler) ListPublished(c *gin.Context) {
	courses, err := ch.courseService.ListPublished(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, courses)
}

func (ch *CourseHandler) Update(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Published   *bool  `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	course, err := ch.courseService.Update(c.Request.Context(), rd.UserID, rd.IsAdmin, id, req.Name, req.Description, req.Published)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, course)
}

func (ch *CourseHandler) Delete(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	if err := ch.courseService.Delete(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "course deleted"})
}

func (ch *CourseHandler) GenerateSubjects(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	subjects, err := ch.courseService.GenerateSubjects(c.Request.Context(), rd.UserID, rd.IsAdmin, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, subjects)
}
