package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type SubjectHandler struct {
	subjectService services.SubjectService
}

func NewSubjectHandler(subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

func (sh *SubjectHandler) ListByCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	subjects, err := sh.subjectService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subjects)
}

func (sh *SubjectHandler) Update(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "subject_id")
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
	subject, err := sh.subjectService.Update(c.Request.Context(), rd.UserID, rd.IsAdmin, id, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subject)
}

func (sh *SubjectHandler) Delete(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "subject_id")
	if !ok {
		return
	}
	if err := sh.subjectService.Delete(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "subject deleted"})
}

func (sh *SubjectHandler) GenerateChapters(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "subject_id")
	if !ok {
		return
	}
	chapters, err := sh.subjectService.GenerateChapters(c.Request.Context(), rd.UserID, rd.IsAdmin, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, chapters)
}
