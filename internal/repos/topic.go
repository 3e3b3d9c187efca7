package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type TopicRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, topics []*types.Topic) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error)
	ListByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Topic, error)
	Update(ctx context.Context, tx *gorm.DB, topic *types.Topic) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) error
	SetHasContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, has bool) error
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *topicRepo) CreateBatch(ctx context.Context, tx *gorm.DB, topics []*types.Topic) error {
	if len(topics) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&topics).Error
}

func (r *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error) {
	var topic types.Topic
	if err := r.conn(tx).WithContext(ctx).First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepo) ListByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Topic, error) {
	var topics []*types.Topic
	if err := r.conn(tx).WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("created_at ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepo) Update(ctx context.Context, tx *gorm.DB, topic *types.Topic) error {
	return r.conn(tx).WithContext(ctx).Save(topic).Error
}

func (r *topicRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Topic{}, "id = ?", id).Error
}

func (r *topicRepo) DeleteByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Topic{}, "chapter_id = ?", chapterID).Error
}

func (r *topicRepo) SetHasContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, has bool) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Topic{}).
		Where("id = ?", id).
		Update("has_content", has).Error
}

// CountByCourse walks topic -> chapter -> subject to count every topic under
// a course; the enrollment progress recompute divides by this.
func (r *topicRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Topic{}).
		Joins("JOIN chapter ON chapter.id = topic.chapter_id").
		Joins("JOIN subject ON subject.id = chapter.subject_id").
		Where("subject.course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
