package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type LearningProgressRepo interface {
	GetByEnrollmentAndTopic(ctx context.Context, tx *gorm.DB, enrollmentID, topicID uuid.UUID) (*types.LearningProgress, error)
	ListByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LearningProgress, error)
	Create(ctx context.Context, tx *gorm.DB, progress *types.LearningProgress) error
	Update(ctx context.Context, tx *gorm.DB, progress *types.LearningProgress) error
	CountCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error)
}

type learningProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningProgressRepo(db *gorm.DB, baseLog *logger.Logger) LearningProgressRepo {
	return &learningProgressRepo{db: db, log: baseLog.With("repo", "LearningProgressRepo")}
}

func (r *learningProgressRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *learningProgressRepo) GetByEnrollmentAndTopic(ctx context.Context, tx *gorm.DB, enrollmentID, topicID uuid.UUID) (*types.LearningProgress, error) {
	var progress types.LearningProgress
	if err := r.conn(tx).WithContext(ctx).
		First(&progress, "enrollment_id = ? AND topic_id = ?", enrollmentID, topicID).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *learningProgressRepo) ListByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LearningProgress, error) {
	var rows []*types.LearningProgress
	if err := r.conn(tx).WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *learningProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.LearningProgress) error {
	return r.conn(tx).WithContext(ctx).Create(progress).Error
}

func (r *learningProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.LearningProgress) error {
	return r.conn(tx).WithContext(ctx).Save(progress).Error
}

func (r *learningProgressRepo) CountCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.LearningProgress{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
