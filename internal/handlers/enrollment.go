package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

func (eh *EnrollmentHandler) Enroll(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	enrollment, err := eh.enrollmentService.Enroll(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, enrollment)
}

func (eh *EnrollmentHandler) Drop(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	if err := eh.enrollmentService.Drop(c.Request.Context(), rd.UserID, courseID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "enrollment dropped"})
}

func (eh *EnrollmentHandler) ListMine(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	enrollments, err := eh.enrollmentService.ListMine(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, enrollments)
}

func (eh *EnrollmentHandler) Progress(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	enrollment, err := eh.enrollmentService.Get(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, enrollment)
}

func (eh *EnrollmentHandler) CompleteTopic(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	topicID, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	enrollment, err := eh.enrollmentService.CompleteTopic(c.Request.Context(), rd.UserID, courseID, topicID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, enrollment)
}

func (eh *EnrollmentHandler) LogTime(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	topicID, ok := parseUUIDParam(c, "topic_id")
	if !ok {
		return
	}
	var req struct {
		Minutes int `json:"minutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := eh.enrollmentService.LogTime(c.Request.Context(), rd.UserID, courseID, topicID, req.Minutes); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "time recorded"})
}
