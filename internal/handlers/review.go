package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (rh *ReviewHandler) Create(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	var req struct {
		Rating     int    `json:"rating" binding:"required"`
		ReviewText string `json:"review_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	review, err := rh.reviewService.Create(c.Request.Context(), rd.UserID, courseID, req.Rating, req.ReviewText)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, review)
}

func (rh *ReviewHandler) ListByCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}
	reviews, err := rh.reviewService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, reviews)
}

func (rh *ReviewHandler) Update(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "review_id")
	if !ok {
		return
	}
	var req struct {
		Rating     int    `json:"rating" binding:"required"`
		ReviewText string `json:"review_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	review, err := rh.reviewService.Update(c.Request.Context(), rd.UserID, rd.IsAdmin, id, req.Rating, req.ReviewText)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, review)
}

func (rh *ReviewHandler) Delete(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "review_id")
	if !ok {
		return
	}
	if err := rh.reviewService.Delete(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "review deleted"})
}
