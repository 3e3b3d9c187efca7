package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type SubjectRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, subjects []*types.Subject) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subject, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Subject, error)
	Update(ctx context.Context, tx *gorm.DB, subject *types.Subject) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
	SetHasChapters(ctx context.Context, tx *gorm.DB, id uuid.UUID, has bool) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *subjectRepo) CreateBatch(ctx context.Context, tx *gorm.DB, subjects []*types.Subject) error {
	if len(subjects) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&subjects).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subject, error) {
	var subject types.Subject
	if err := r.conn(tx).WithContext(ctx).First(&subject, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Subject, error) {
	var subjects []*types.Subject
	if err := r.conn(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) Update(ctx context.Context, tx *gorm.DB, subject *types.Subject) error {
	return r.conn(tx).WithContext(ctx).Save(subject).Error
}

func (r *subjectRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Subject{}, "id = ?", id).Error
}

func (r *subjectRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Subject{}, "course_id = ?", courseID).Error
}

func (r *subjectRepo) SetHasChapters(ctx context.Context, tx *gorm.DB, id uuid.UUID, has bool) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Subject{}).
		Where("id = ?", id).
		Update("has_chapters", has).Error
}
