package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/agents"
	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/cache"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type TopicService interface {
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]*types.Topic, error)
	Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (*types.Topic, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
	GenerateContent(ctx context.Context, userID uuid.UUID, isAdmin bool, topicID uuid.UUID) (*types.Content, error)
	GetContent(ctx context.Context, topicID uuid.UUID) (*types.Content, error)
	DeleteContent(ctx context.Context, userID uuid.UUID, isAdmin bool, topicID uuid.UUID) error
}

type topicService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	subjectRepo repos.SubjectRepo
	chapterRepo repos.ChapterRepo
	topicRepo   repos.TopicRepo
	contentRepo repos.ContentRepo
	pipeline    ContentGenerator
	cache       cache.Cache
}

func NewTopicService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	subjectRepo repos.SubjectRepo,
	chapterRepo repos.ChapterRepo,
	topicRepo repos.TopicRepo,
	contentRepo repos.ContentRepo,
	pipeline ContentGenerator,
	c cache.Cache,
) TopicService {
	return &topicService{
		db:          db,
		log:         log.With("service", "TopicService"),
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
		topicRepo:   topicRepo,
		contentRepo: contentRepo,
		pipeline:    pipeline,
		cache:       c,
	}
}

func (s *topicService) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]*types.Topic, error) {
	return s.topicRepo.ListByChapter(ctx, nil, chapterID)
}

// topicLineage is the topic with its full ancestry, used for ownership checks
// and to build the generation prompt context.
type topicLineage struct {
	topic   *types.Topic
	chapter *types.Chapter
	subject *types.Subject
	course  *types.Course
}

func (s *topicService) loadOwnedTopic(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*topicLineage, error) {
	topic, err := s.topicRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "topic_not_found", "topic not found")
	}
	chapter, err := s.chapterRepo.GetByID(ctx, nil, topic.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("load parent chapter: %w", err)
	}
	subject, err := s.subjectRepo.GetByID(ctx, nil, chapter.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("load parent subject: %w", err)
	}
	course, err := s.courseRepo.GetByID(ctx, nil, subject.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load parent course: %w", err)
	}
	if !ownsCourse(course, userID, isAdmin) {
		return nil, apierr.Forbidden("not_course_owner", "course belongs to another user")
	}
	return &topicLineage{topic: topic, chapter: chapter, subject: subject, course: course}, nil
}

func (s *topicService) Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (*types.Topic, error) {
	lineage, err := s.loadOwnedTopic(ctx, userID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, apierr.Validation("missing_name", "topic name is required")
	}
	lineage.topic.Name = name
	if err := s.topicRepo.Update(ctx, nil, lineage.topic); err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	s.invalidate(ctx, lineage.course.ID)
	return lineage.topic, nil
}

func (s *topicService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	lineage, err := s.loadOwnedTopic(ctx, userID, isAdmin, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.topicRepo.Delete(ctx, tx, lineage.topic.ID); err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}
		remaining, err := s.topicRepo.ListByChapter(ctx, tx, lineage.chapter.ID)
		if err != nil {
			return err
		}
		return s.chapterRepo.SetHasTopics(ctx, tx, lineage.chapter.ID, len(remaining) > 0)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, lineage.course.ID)
	return nil
}

// GenerateContent runs the outline/writer/reviewer pipeline for the topic and
// upserts the result; regeneration overwrites the previous markdown.
func (s *topicService) GenerateContent(ctx context.Context, userID uuid.UUID, isAdmin bool, topicID uuid.UUID) (*types.Content, error) {
	lineage, err := s.loadOwnedTopic(ctx, userID, isAdmin, topicID)
	if err != nil {
		return nil, err
	}
	if s.pipeline == nil {
		return nil, apierr.Upstream("generation_disabled", fmt.Errorf("LLM client not configured"))
	}

	genCtx := agents.ContentContext{
		Course:  lineage.course.Name,
		Subject: lineage.subject.Name,
		Chapter: lineage.chapter.Name,
		Topic:   lineage.topic.Name,
	}
	markdown, err := s.pipeline.Generate(ctx, genCtx)
	if err != nil {
		return nil, err
	}
	if markdown == "" {
		return nil, apierr.Upstream("llm_empty_content", fmt.Errorf("pipeline returned empty content"))
	}

	// Marshal of a flat string map cannot fail.
	meta, _ := json.Marshal(map[string]string{
		"course":  genCtx.Course,
		"subject": genCtx.Subject,
		"chapter": genCtx.Chapter,
		"topic":   genCtx.Topic,
	})
	content := &types.Content{
		ID:                 uuid.New(),
		TopicID:            topicID,
		Markdown:           markdown,
		GenerationMetadata: datatypes.JSON(meta),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contentRepo.Upsert(ctx, tx, content); err != nil {
			return fmt.Errorf("upsert content: %w", err)
		}
		return s.topicRepo.SetHasContent(ctx, tx, topicID, true)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, lineage.course.ID)
	s.log.Info("Content generated", "topic_id", topicID, "markdown_len", len(markdown))
	return content, nil
}

func (s *topicService) GetContent(ctx context.Context, topicID uuid.UUID) (*types.Content, error) {
	content, err := s.contentRepo.GetByTopic(ctx, nil, topicID)
	if err != nil {
		return nil, notFoundOr(err, "content_not_found", "no content for topic")
	}
	return content, nil
}

func (s *topicService) DeleteContent(ctx context.Context, userID uuid.UUID, isAdmin bool, topicID uuid.UUID) error {
	lineage, err := s.loadOwnedTopic(ctx, userID, isAdmin, topicID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contentRepo.DeleteByTopic(ctx, tx, topicID); err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		return s.topicRepo.SetHasContent(ctx, tx, topicID, false)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, lineage.course.ID)
	return nil
}

func (s *topicService) invalidate(ctx context.Context, courseID uuid.UUID) {
	if _, err := s.cache.DeletePattern(ctx, "course:"+courseID.String()+":*"); err != nil {
		s.log.Warn("Cache invalidation failed", "course_id", courseID, "error", err)
	}
}
