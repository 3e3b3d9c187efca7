package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/cache"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type ChapterService interface {
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*types.Chapter, error)
	Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (*types.Chapter, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
	GenerateTopics(ctx context.Context, userID uuid.UUID, isAdmin bool, chapterID uuid.UUID) ([]*types.Topic, error)
}

type chapterService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	subjectRepo repos.SubjectRepo
	chapterRepo repos.ChapterRepo
	topicRepo   repos.TopicRepo
	generator   CurriculumGenerator
	cache       cache.Cache
}

func NewChapterService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	subjectRepo repos.SubjectRepo,
	chapterRepo repos.ChapterRepo,
	topicRepo repos.TopicRepo,
	generator CurriculumGenerator,
	c cache.Cache,
) ChapterService {
	return &chapterService{
		db:          db,
		log:         log.With("service", "ChapterService"),
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
		topicRepo:   topicRepo,
		generator:   generator,
		cache:       c,
	}
}

func (s *chapterService) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*types.Chapter, error) {
	return s.chapterRepo.ListBySubject(ctx, nil, subjectID)
}

// loadOwnedChapter resolves chapter -> subject -> course and enforces course
// ownership.
func (s *chapterService) loadOwnedChapter(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*types.Chapter, *types.Subject, *types.Course, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, nil, notFoundOr(err, "chapter_not_found", "chapter not found")
	}
	subject, err := s.subjectRepo.GetByID(ctx, nil, chapter.SubjectID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load parent subject: %w", err)
	}
	course, err := s.courseRepo.GetByID(ctx, nil, subject.CourseID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load parent course: %w", err)
	}
	if !ownsCourse(course, userID, isAdmin) {
		return nil, nil, nil, apierr.Forbidden("not_course_owner", "course belongs to another user")
	}
	return chapter, subject, course, nil
}

func (s *chapterService) Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (*types.Chapter, error) {
	chapter, _, course, err := s.loadOwnedChapter(ctx, userID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, apierr.Validation("missing_name", "chapter name is required")
	}
	chapter.Name = name
	if err := s.chapterRepo.Update(ctx, nil, chapter); err != nil {
		return nil, fmt.Errorf("update chapter: %w", err)
	}
	s.invalidate(ctx, course.ID)
	return chapter, nil
}

func (s *chapterService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	chapter, subject, course, err := s.loadOwnedChapter(ctx, userID, isAdmin, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.chapterRepo.Delete(ctx, tx, chapter.ID); err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
		remaining, err := s.chapterRepo.ListBySubject(ctx, tx, subject.ID)
		if err != nil {
			return err
		}
		return s.subjectRepo.SetHasChapters(ctx, tx, subject.ID, len(remaining) > 0)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, course.ID)
	return nil
}

// GenerateTopics replaces the chapter's topic list with a fresh agent batch;
// delete, insert, and the has_topics flip commit together.
func (s *chapterService) GenerateTopics(ctx context.Context, userID uuid.UUID, isAdmin bool, chapterID uuid.UUID) ([]*types.Topic, error) {
	chapter, subject, course, err := s.loadOwnedChapter(ctx, userID, isAdmin, chapterID)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, apierr.Upstream("generation_disabled", fmt.Errorf("LLM client not configured"))
	}

	names, err := s.generator.GenerateTopics(ctx, course.Name, subject.Name, chapter.Name)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, apierr.Upstream("llm_empty_topics", fmt.Errorf("agent returned no topics"))
	}

	topics := make([]*types.Topic, 0, len(names))
	for _, name := range names {
		topics = append(topics, &types.Topic{
			ID:        uuid.New(),
			ChapterID: chapterID,
			Name:      strings.TrimSpace(name),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.topicRepo.DeleteByChapter(ctx, tx, chapterID); err != nil {
			return fmt.Errorf("clear topics: %w", err)
		}
		if err := s.topicRepo.CreateBatch(ctx, tx, topics); err != nil {
			return fmt.Errorf("insert topics: %w", err)
		}
		return s.chapterRepo.SetHasTopics(ctx, tx, chapterID, true)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	s.log.Info("Topics generated", "chapter_id", chapterID, "count", len(topics))
	return topics, nil
}

func (s *chapterService) invalidate(ctx context.Context, courseID uuid.UUID) {
	if _, err := s.cache.DeletePattern(ctx, "course:"+courseID.String()+":*"); err != nil {
		s.log.Warn("Cache invalidation failed", "course_id", courseID, "error", err)
	}
}
