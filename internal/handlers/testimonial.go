package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type TestimonialHandler struct {
	testimonialService services.TestimonialService
}

func NewTestimonialHandler(testimonialService services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: testimonialService}
}

func (th *TestimonialHandler) Create(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Quote  string `json:"quote" binding:"required"`
		Rating int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	testimonial, err := th.testimonialService.Create(c.Request.Context(), rd.UserID, req.Quote, req.Rating)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, testimonial)
}

func (th *TestimonialHandler) GetMine(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	testimonial, err := th.testimonialService.GetMine(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, testimonial)
}

func (th *TestimonialHandler) List(c *gin.Context) {
	testimonials, err := th.testimonialService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, testimonials)
}

func (th *TestimonialHandler) Update(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "testimonial_id")
	if !ok {
		return
	}
	var req struct {
		Quote  string `json:"quote" binding:"required"`
		Rating int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	testimonial, err := th.testimonialService.Update(c.Request.Context(), rd.UserID, rd.IsAdmin, id, req.Quote, req.Rating)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, testimonial)
}

func (th *TestimonialHandler) Delete(c *gin.Context) {
	rd, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "testimonial_id")
	if !ok {
		return
	}
	if err := th.testimonialService.Delete(c.Request.Context(), rd.UserID, rd.IsAdmin, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "testimonial deleted"})
}
