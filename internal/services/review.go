package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type ReviewService interface {
	Create(ctx context.Context, userID, courseID uuid.UUID, rating int, reviewText string) (*types.CourseReview, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.CourseReview, error)
	Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, rating int, reviewText string) (*types.CourseReview, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type reviewService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ReviewRepo
	courseRepo repos.CourseRepo
}

func NewReviewService(db *gorm.DB, log *logger.Logger, reviewRepo repos.ReviewRepo, courseRepo repos.CourseRepo) ReviewService {
	return &reviewService{
		db:         db,
		log:        log.With("service", "ReviewService"),
		reviewRepo: reviewRepo,
		courseRepo: courseRepo,
	}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apierr.Validation("bad_rating", "rating must be between 1 and 5")
	}
	return nil
}

// Create inserts the review and folds its rating into the course aggregates
// in the same transaction so AverageRating never drifts from the rows.
func (s *reviewService) Create(ctx context.Context, userID, courseID uuid.UUID, rating int, reviewText string) (*types.CourseReview, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, notFoundOr(err, "course_not_found", "course not found")
	}
	if _, err := s.reviewRepo.GetByUserAndCourse(ctx, nil, userID, courseID); err == nil {
		return nil, apierr.Conflict("review_exists", "you already reviewed this course")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check review: %w", err)
	}

	review := &types.CourseReview{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		Rating:     rating,
		ReviewText: strings.TrimSpace(reviewText),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		return s.courseRepo.ApplyRatingDelta(ctx, tx, courseID, rating, 1)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.CourseReview, error) {
	return s.reviewRepo.ListByCourse(ctx, nil, courseID)
}

func (s *reviewService) Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, rating int, reviewText string) (*types.CourseReview, error) {
	review, err := s.reviewRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "review_not_found", "review not found")
	}
	if review.UserID != userID && !isAdmin {
		return nil, apierr.Forbidden("not_review_owner", "review belongs to another user")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	delta := rating - review.Rating
	review.Rating = rating
	review.ReviewText = strings.TrimSpace(reviewText)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.Update(ctx, tx, review); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		if delta == 0 {
			return nil
		}
		return s.courseRepo.ApplyRatingDelta(ctx, tx, review.CourseID, delta, 0)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "review_not_found", "review not found")
	}
	if review.UserID != userID && !isAdmin {
		return apierr.Forbidden("not_review_owner", "review belongs to another user")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return s.courseRepo.ApplyRatingDelta(ctx, tx, review.CourseID, -review.Rating, -1)
	})
}
