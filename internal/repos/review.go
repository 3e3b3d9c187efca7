package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, review *types.CourseReview) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CourseReview, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CourseReview, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseReview, error)
	Update(ctx context.Context, tx *gorm.DB, review *types.CourseReview) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reviewRepo) Create(ctx context.Context, tx *gorm.DB, review *types.CourseReview) error {
	return r.conn(tx).WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CourseReview, error) {
	var review types.CourseReview
	if err := r.conn(tx).WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.CourseReview, error) {
	var review types.CourseReview
	if err := r.conn(tx).WithContext(ctx).
		First(&review, "user_id = ? AND course_id = ?", userID, courseID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseReview, error) {
	var rows []*types.CourseReview
	if err := r.conn(tx).WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewRepo) Update(ctx context.Context, tx *gorm.DB, review *types.CourseReview) error {
	return r.conn(tx).WithContext(ctx).Save(review).Error
}

func (r *reviewRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.CourseReview{}, "id = ?", id).Error
}
