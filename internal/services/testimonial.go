package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type TestimonialService interface {
	Create(ctx context.Context, userID uuid.UUID, quote string, rating int) (*types.Testimonial, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*types.Testimonial, error)
	List(ctx context.Context) ([]*types.Testimonial, error)
	Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, quote string, rating int) (*types.Testimonial, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type testimonialService struct {
	db              *gorm.DB
	log             *logger.Logger
	testimonialRepo repos.TestimonialRepo
	courseRepo      repos.CourseRepo
}

func NewTestimonialService(db *gorm.DB, log *logger.Logger, testimonialRepo repos.TestimonialRepo, courseRepo repos.CourseRepo) TestimonialService {
	return &testimonialService{
		db:              db,
		log:             log.With("service", "TestimonialService"),
		testimonialRepo: testimonialRepo,
		courseRepo:      courseRepo,
	}
}

func validateTestimonial(quote string, rating int) error {
	if strings.TrimSpace(quote) == "" {
		return apierr.Validation("missing_quote", "testimonial text is required")
	}
	if rating < 1 || rating > 5 {
		return apierr.Validation("bad_rating", "rating must be between 1 and 5")
	}
	return nil
}

// Create requires the author to have created at least one course; a
// testimonial from someone who never used the generator carries no weight.
func (s *testimonialService) Create(ctx context.Context, userID uuid.UUID, quote string, rating int) (*types.Testimonial, error) {
	if err := validateTestimonial(quote, rating); err != nil {
		return nil, err
	}
	count, err := s.courseRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	if count == 0 {
		return nil, apierr.Validation("no_courses", "create a course before leaving a testimonial")
	}
	if _, err := s.testimonialRepo.GetByUser(ctx, nil, userID); err == nil {
		return nil, apierr.Conflict("testimonial_exists", "you already have a testimonial")
	}

	testimonial := &types.Testimonial{
		ID:     uuid.New(),
		UserID: userID,
		Quote:  strings.TrimSpace(quote),
		Rating: rating,
	}
	if err := s.testimonialRepo.Create(ctx, nil, testimonial); err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return testimonial, nil
}

func (s *testimonialService) GetMine(ctx context.Context, userID uuid.UUID) (*types.Testimonial, error) {
	testimonial, err := s.testimonialRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, notFoundOr(err, "testimonial_not_found", "no testimonial for user")
	}
	return testimonial, nil
}

func (s *testimonialService) List(ctx context.Context) ([]*types.Testimonial, error) {
	return s.testimonialRepo.List(ctx, nil)
}

func (s *testimonialService) Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, quote string, rating int) (*types.Testimonial, error) {
	testimonial, err := s.testimonialRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "testimonial_not_found", "testimonial not found")
	}
	if testimonial.UserID != userID && !isAdmin {
		return nil, apierr.Forbidden("not_testimonial_owner", "testimonial belongs to another user")
	}
	if err := validateTestimonial(quote, rating); err != nil {
		return nil, err
	}
	testimonial.Quote = strings.TrimSpace(quote)
	testimonial.Rating = rating
	if err := s.testimonialRepo.Update(ctx, nil, testimonial); err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return testimonial, nil
}

func (s *testimonialService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	testimonial, err := s.testimonialRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "testimonial_not_found", "testimonial not found")
	}
	if testimonial.UserID != userID && !isAdmin {
		return apierr.Forbidden("not_testimonial_owner", "testimonial belongs to another user")
	}
	return s.testimonialRepo.Delete(ctx, nil, id)
}
