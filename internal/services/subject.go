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

type SubjectService interface {
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Subject, error)
	Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (*types.Subject, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
	GenerateChapters(ctx context.Context, userID uuid.UUID, isAdmin bool, subjectID uuid.UUID) ([]*types.Chapter, error)
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	subjectRepo repos.SubjectRepo
	chapterRepo repos.ChapterRepo
	generator   CurriculumGenerator
	cache       cache.Cache
}

func NewSubjectService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	subjectRepo repos.SubjectRepo,
	chapterRepo repos.ChapterRepo,
	generator CurriculumGenerator,
	c cache.Cache,
) SubjectService {
	return &subjectService{
		db:          db,
		log:         log.With("service", "SubjectService"),
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
		generator:   generator,
		cache:       c,
	}
}

func (s *subjectService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Subject, error) {
	key := cache.BuildKey("course", []string{courseID.String(), "subjects"}, nil)
	var subjects []*types.Subject
	if err := s.cache.Get(ctx, key, &subjects); err == nil {
		return subjects, nil
	}
	subjects, err := s.subjectRepo.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if err := s.cache.Set(ctx, key, subjects, cacheTTLCourseTree); err != nil {
		s.log.Warn("Failed to cache subject list", "course_id", courseID, "error", err)
	}
	return subjects, nil
}

// loadOwnedSubject resolves the subject and its parent course, enforcing
// ownership on the course.
func (s *subjectService) loadOwnedSubject(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*types.Subject, *types.Course, error) {
	subject, err := s.subjectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, notFoundOr(err, "subject_not_found", "subject not found")
	}
	course, err := s.courseRepo.GetByID(ctx, nil, subject.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("load parent course: %w", err)
	}
	if !ownsCourse(course, userID, isAdmin) {
		return nil, nil, apierr.Forbidden("not_course_owner", "course belongs to another user")
	}
	return subject, course, nil
}

func (s *subjectService) Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (*types.Subject, error) {
	subject, course, err := s.loadOwnedSubject(ctx, userID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, apierr.Validation("missing_name", "subject name is required")
	}
	subject.Name = name
	if err := s.subjectRepo.Update(ctx, nil, subject); err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	s.invalidate(ctx, course.ID)
	return subject, nil
}

func (s *subjectService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	subject, course, err := s.loadOwnedSubject(ctx, userID, isAdmin, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.subjectRepo.Delete(ctx, tx, subject.ID); err != nil {
			return fmt.Errorf("delete subject: %w", err)
		}
		remaining, err := s.subjectRepo.ListByCourse(ctx, tx, course.ID)
		if err != nil {
			return err
		}
		return s.courseRepo.SetHasSubjects(ctx, tx, course.ID, len(remaining) > 0)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, course.ID)
	return nil
}

// GenerateChapters replaces the subject's chapter list with a fresh agent
// batch; delete, insert, and the has_chapters flip commit together.
func (s *subjectService) GenerateChapters(ctx context.Context, userID uuid.UUID, isAdmin bool, subjectID uuid.UUID) ([]*types.Chapter, error) {
	subject, course, err := s.loadOwnedSubject(ctx, userID, isAdmin, subjectID)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, apierr.Upstream("generation_disabled", fmt.Errorf("LLM client not configured"))
	}

	names, err := s.generator.GenerateChapters(ctx, course.Name, subject.Name)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, apierr.Upstream("llm_empty_chapters", fmt.Errorf("agent returned no chapters"))
	}

	chapters := make([]*types.Chapter, 0, len(names))
	for _, name := range names {
		chapters = append(chapters, &types.Chapter{
			ID:        uuid.New(),
			SubjectID: subjectID,
			Name:      strings.TrimSpace(name),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.chapterRepo.DeleteBySubject(ctx, tx, subjectID); err != nil {
			return fmt.Errorf("clear chapters: %w", err)
		}
		if err := s.chapterRepo.CreateBatch(ctx, tx, chapters); err != nil {
			return fmt.Errorf("insert chapters: %w", err)
		}
		return s.subjectRepo.SetHasChapters(ctx, tx, subjectID, true)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	s.log.Info("Chapters generated", "subject_id", subjectID, "count", len(chapters))
	return chapters, nil
}

func (s *subjectService) invalidate(ctx context.Context, courseID uuid.UUID) {
	if _, err := s.cache.DeletePattern(ctx, "course:"+courseID.String()+":*"); err != nil {
		s.log.Warn("Cache invalidation failed", "course_id", courseID, "error", err)
	}
}
