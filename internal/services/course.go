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

type CourseService interface {
	Create(ctx context.Context, userID uuid.UUID, name, description string) (*types.Course, error)
	CreateFromPrompt(ctx context.Context, userID uuid.UUID, seed string) (*types.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Course, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Course, error)
	ListPublished(ctx context.Context) ([]*types.Course, error)
	Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name, description string, published *bool) (*types.Course, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
	GenerateSubjects(ctx context.Context, userID uuid.UUID, isAdmin bool, courseID uuid.UUID) ([]*types.Subject, error)
}

type courseService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	subjectRepo repos.SubjectRepo
	generator   CurriculumGenerator
	cache       cache.Cache
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	subjectRepo repos.SubjectRepo,
	generator CurriculumGenerator,
	c cache.Cache,
) CourseService {
	return &courseService{
		db:          db,
		log:         log.With("service", "CourseService"),
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
		generator:   generator,
		cache:       c,
	}
}

const publishedCoursesKey = "courses:published"

func (s *courseService) Create(ctx context.Context, userID uuid.UUID, name, description string) (*types.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("missing_name", "course name is required")
	}
	course := &types.Course{
		ID:          uuid.New(),
		UserID:      &userID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.courseRepo.Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (s *courseService) CreateFromPrompt(ctx context.Context, userID uuid.UUID, seed string) (*types.Course, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, apierr.Validation("missing_prompt", "a course prompt is required")
	}
	if s.generator == nil {
		return nil, apierr.Upstream("generation_disabled", fmt.Errorf("LLM client not configured"))
	}
	idea, err := s.generator.GenerateCourse(ctx, seed)
	if err != nil {
		return nil, err
	}
	course := &types.Course{
		ID:          uuid.New(),
		UserID:      &userID,
		Name:        strings.TrimSpace(idea.Name),
		Description: strings.TrimSpace(idea.Description),
	}
	if course.Name == "" {
		return nil, apierr.Upstream("llm_empty_course", fmt.Errorf("agent returned an empty course name"))
	}
	if err := s.courseRepo.Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("create generated course: %w", err)
	}
	s.log.Info("Course generated from prompt", "course_id", course.ID, "user_id", userID)
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "course_not_found", "course not found")
	}
	return course, nil
}

func (s *courseService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Course, error) {
	return s.courseRepo.ListByUser(ctx, nil, userID)
}

func (s *courseService) ListPublished(ctx context.Context) ([]*types.Course, error) {
	var courses []*types.Course
	if err := s.cache.Get(ctx, publishedCoursesKey, &courses); err == nil {
		return courses, nil
	}
	courses, err := s.courseRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	if err := s.cache.Set(ctx, publishedCoursesKey, courses, cacheTTLPublishedCourses); err != nil {
		s.log.Warn("Failed to cache published courses", "error", err)
	}
	return courses, nil
}

func (s *courseService) Update(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID, name, description string, published *bool) (*types.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "course_not_found", "course not found")
	}
	if !ownsCourse(course, userID, isAdmin) {
		return nil, apierr.Forbidden("not_course_owner", "course belongs to another user")
	}
	if name = strings.TrimSpace(name); name != "" {
		course.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		course.Description = description
	}
	if published != nil {
		course.Published = *published
	}
	if err := s.courseRepo.Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	s.invalidate(ctx, course.ID)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	course, err := s.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "course_not_found", "course not found")
	}
	if !ownsCourse(course, userID, isAdmin) {
		return apierr.Forbidden("not_course_owner", "course belongs to another user")
	}
	if err := s.courseRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// GenerateSubjects replaces the course's subject list with a fresh agent
// batch. Delete, insert, and the has_subjects flip commit together; two
// concurrent generates race and the last commit wins.
func (s *courseService) GenerateSubjects(ctx context.Context, userID uuid.UUID, isAdmin bool, courseID uuid.UUID) ([]*types.Subject, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, notFoundOr(err, "course_not_found", "course not found")
	}
	if !ownsCourse(course, userID, isAdmin) {
		return nil, apierr.Forbidden("not_course_owner", "course belongs to another user")
	}
	if s.generator == nil {
		return nil, apierr.Upstream("generation_disabled", fmt.Errorf("LLM client not configured"))
	}

	names, err := s.generator.GenerateSubjects(ctx, course.Name, course.Description)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, apierr.Upstream("llm_empty_subjects", fmt.Errorf("agent returned no subjects"))
	}

	subjects := make([]*types.Subject, 0, len(names))
	for _, name := range names {
		subjects = append(subjects, &types.Subject{
			ID:       uuid.New(),
			CourseID: courseID,
			Name:     strings.TrimSpace(name),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.subjectRepo.DeleteByCourse(ctx, tx, courseID); err != nil {
			return fmt.Errorf("clear subjects: %w", err)
		}
		if err := s.subjectRepo.CreateBatch(ctx, tx, subjects); err != nil {
			return fmt.Errorf("insert subjects: %w", err)
		}
		return s.courseRepo.SetHasSubjects(ctx, tx, courseID, true)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, courseID)
	s.log.Info("Subjects generated", "course_id", courseID, "count", len(subjects))
	return subjects, nil
}

func (s *courseService) invalidate(ctx context.Context, courseID uuid.UUID) {
	if _, err := s.cache.DeletePattern(ctx, "course:"+courseID.String()+":*"); err != nil {
		s.log.Warn("Cache invalidation failed", "course_id", courseID, "error", err)
	}
	if err := s.cache.Delete(ctx, publishedCoursesKey); err != nil {
		s.log.Warn("Cache invalidation failed", "key", publishedCoursesKey, "error", err)
	}
}
