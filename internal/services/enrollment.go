package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
	Drop(ctx context.Context, userID, courseID uuid.UUID) error
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Enrollment, error)
	Get(ctx context.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
	CompleteTopic(ctx context.Context, userID, courseID, topicID uuid.UUID) (*types.Enrollment, error)
	LogTime(ctx context.Context, userID, courseID, topicID uuid.UUID, minutes int) error
	RecomputeProgress(ctx context.Context, enrollmentID uuid.UUID) (*types.Enrollment, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	topicRepo      repos.TopicRepo
	enrollmentRepo repos.EnrollmentRepo
	progressRepo   repos.LearningProgressRepo
}

func NewEnrollmentService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	topicRepo repos.TopicRepo,
	enrollmentRepo repos.EnrollmentRepo,
	progressRepo repos.LearningProgressRepo,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		log:            log.With("service", "EnrollmentService"),
		courseRepo:     courseRepo,
		topicRepo:      topicRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	if _, err := s.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, notFoundOr(err, "course_not_found", "course not found")
	}

	existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err == nil {
		// Re-enrolling a dropped enrollment reactivates it; progress rows
		// survive the drop so the percentage picks up where it left off.
		if existing.Status == types.EnrollmentDropped {
			existing.Status = types.EnrollmentActive
			if uErr := s.enrollmentRepo.Update(ctx, nil, existing); uErr != nil {
				return nil, fmt.Errorf("reactivate enrollment: %w", uErr)
			}
			return existing, nil
		}
		return nil, apierr.Conflict("already_enrolled", "already enrolled in this course")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	enrollment := &types.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		Status:     types.EnrollmentActive,
		EnrolledAt: time.Now(),
	}
	if err := s.enrollmentRepo.Create(ctx, nil, enrollment); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) Drop(ctx context.Context, userID, courseID uuid.UUID) error {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return notFoundOr(err, "enrollment_not_found", "not enrolled in this course")
	}
	if enrollment.Status == types.EnrollmentDropped {
		return nil
	}
	enrollment.Status = types.EnrollmentDropped
	if err := s.enrollmentRepo.Update(ctx, nil, enrollment); err != nil {
		return fmt.Errorf("drop enrollment: %w", err)
	}
	return nil
}

func (s *enrollmentService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, nil, userID)
}

func (s *enrollmentService) Get(ctx context.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, notFoundOr(err, "enrollment_not_found", "not enrolled in this course")
	}
	return enrollment, nil
}

// CompleteTopic marks one topic done for the enrollment and recomputes the
// percentage. Completing an already-complete topic is a no-op for the
// progress row but still recomputes, keeping the call idempotent.
func (s *enrollmentService) CompleteTopic(ctx context.Context, userID, courseID, topicID uuid.UUID) (*types.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, notFoundOr(err, "enrollment_not_found", "not enrolled in this course")
	}
	if _, err := s.topicRepo.GetByID(ctx, nil, topicID); err != nil {
		return nil, notFoundOr(err, "topic_not_found", "topic not found")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.progressRepo.GetByEnrollmentAndTopic(ctx, tx, enrollment.ID, topicID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			return s.progressRepo.Create(ctx, tx, &types.LearningProgress{
				ID:           uuid.New(),
				EnrollmentID: enrollment.ID,
				TopicID:      topicID,
				Completed:    true,
				CompletedAt:  &now,
			})
		}
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if row.Completed {
			return nil
		}
		now := time.Now()
		row.Completed = true
		row.CompletedAt = &now
		return s.progressRepo.Update(ctx, tx, row)
	})
	if err != nil {
		return nil, err
	}

	return s.RecomputeProgress(ctx, enrollment.ID)
}

func (s *enrollmentService) LogTime(ctx context.Context, userID, courseID, topicID uuid.UUID, minutes int) error {
	if minutes <= 0 {
		return apierr.Validation("bad_minutes", "minutes must be positive")
	}
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return notFoundOr(err, "enrollment_not_found", "not enrolled in this course")
	}
	if _, err := s.topicRepo.GetByID(ctx, nil, topicID); err != nil {
		return notFoundOr(err, "topic_not_found", "topic not found")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.progressRepo.GetByEnrollmentAndTopic(ctx, tx, enrollment.ID, topicID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.progressRepo.Create(ctx, tx, &types.LearningProgress{
				ID:               uuid.New(),
				EnrollmentID:     enrollment.ID,
				TopicID:          topicID,
				TimeSpentMinutes: minutes,
			})
		}
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		row.TimeSpentMinutes += minutes
		return s.progressRepo.Update(ctx, tx, row)
	})
	if err != nil {
		return err
	}

	now := time.Now()
	enrollment.LastAccessedAt = &now
	if err := s.enrollmentRepo.Update(ctx, nil, enrollment); err != nil {
		s.log.Warn("Failed to stamp last access", "enrollment_id", enrollment.ID, "error", err)
	}
	return nil
}

// RecomputeProgress derives the percentage from completed/total topics. The
// computation reads current state only, so repeated calls settle on the same
// value. Hitting 100 flips the status to completed and stamps completed_at
// once; the stamp is kept on later recomputes.
func (s *enrollmentService) RecomputeProgress(ctx context.Context, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	var enrollment *types.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.enrollmentRepo.GetByID(ctx, tx, enrollmentID)
		if err != nil {
			return notFoundOr(err, "enrollment_not_found", "enrollment not found")
		}
		total, err := s.topicRepo.CountByCourse(ctx, tx, row.CourseID)
		if err != nil {
			return fmt.Errorf("count topics: %w", err)
		}
		completed, err := s.progressRepo.CountCompleted(ctx, tx, row.ID)
		if err != nil {
			return fmt.Errorf("count completed: %w", err)
		}

		pct := 0.0
		if total > 0 {
			pct = float64(completed) / float64(total) * 100
		}
		row.ProgressPercentage = pct
		if pct >= 100 && row.Status == types.EnrollmentActive {
			row.Status = types.EnrollmentCompleted
			now := time.Now()
			row.CompletedAt = &now
		}
		if err := s.enrollmentRepo.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("update enrollment: %w", err)
		}
		enrollment = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}
