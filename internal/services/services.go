// Package services holds the application logic between HTTP handlers and
// repos. Services open transactions, enforce ownership, orchestrate the
// generation agents, and keep the cache coherent on writes.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/agents"
	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

// CurriculumGenerator is the slice of agents.CurriculumAgents the services
// call; tests substitute a fake.
type CurriculumGenerator interface {
	GenerateCourse(ctx context.Context, seed string) (*agents.CourseIdea, error)
	GenerateSubjects(ctx context.Context, courseName, courseDescription string) ([]string, error)
	GenerateChapters(ctx context.Context, courseName, subjectName string) ([]string, error)
	GenerateTopics(ctx context.Context, courseName, subjectName, chapterName string) ([]string, error)
}

// ContentGenerator runs the three-stage authoring pipeline for one topic.
type ContentGenerator interface {
	Generate(ctx context.Context, cc agents.ContentContext) (string, error)
}

const (
	cacheTTLPublishedCourses = 10 * time.Minute
	cacheTTLCourseTree       = 30 * time.Minute
)

// ownsCourse reports whether the user may modify the course. Anonymous
// (seeded) courses have no owner and only admins touch those.
func ownsCourse(course *types.Course, userID uuid.UUID, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return course.UserID != nil && *course.UserID == userID
}

func notFoundOr(err error, code, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(code, "%s", msg)
	}
	return err
}
