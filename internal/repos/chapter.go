package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type ChapterRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, chapters []*types.Chapter) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error)
	ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Chapter, error)
	Update(ctx context.Context, tx *gorm.DB, chapter *types.Chapter) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) error
	SetHasTopics(ctx context.Context, tx *gorm.DB, id uuid.UUID, has bool) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *chapterRepo) CreateBatch(ctx context.Context, tx *gorm.DB, chapters []*types.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&chapters).Error
}

func (r *chapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
	var chapter types.Chapter
	if err := r.conn(tx).WithContext(ctx).First(&chapter, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepo) ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Chapter, error) {
	var chapters []*types.Chapter
	if err := r.conn(tx).WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at ASC").
		Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) Update(ctx context.Context, tx *gorm.DB, chapter *types.Chapter) error {
	return r.conn(tx).WithContext(ctx).Save(chapter).Error
}

func (r *chapterRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Chapter{}, "id = ?", id).Error
}

func (r *chapterRepo) DeleteBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Chapter{}, "subject_id = ?", subjectID).Error
}

func (r *chapterRepo) SetHasTopics(ctx context.Context, tx *gorm.DB, id uuid.UUID, has bool) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Chapter{}).
		Where("id = ?", id).
		Update("has_topics", has).Error
}
