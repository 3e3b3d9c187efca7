package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type ContentRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, content *types.Content) error
	GetByTopic(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*types.Content, error)
	DeleteByTopic(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Upsert replaces the topic's content in place; regeneration overwrites the
// previous markdown.
func (r *contentRepo) Upsert(ctx context.Context, tx *gorm.DB, content *types.Content) error {
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "topic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"markdown", "image_url", "video_url", "updated_at"}),
		}).
		Create(content).Error
}

func (r *contentRepo) GetByTopic(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*types.Content, error) {
	var content types.Content
	if err := r.conn(tx).WithContext(ctx).First(&content, "topic_id = ?", topicID).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepo) DeleteByTopic(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Content{}, "topic_id = ?", topicID).Error
}
