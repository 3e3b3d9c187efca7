package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/agents"
	"github.com/coursewagon/coursewagon-backend/internal/apierr"
)

type fakeGenerator struct {
	idea     *agents.CourseIdea
	subjects []string
	chapters []string
	topics   []string
	err      error
}

func (f *fakeGenerator) GenerateCourse(context.Context, string) (*agents.CourseIdea, error) {
	return f.idea, f.err
}
func (f *fakeGenerator) GenerateSubjects(context.Context, string, string) ([]string, error) {
	return f.subjects, f.err
}
func (f *fakeGenerator) GenerateChapters(context.Context, string, string) ([]string, error) {
	return f.chapters, f.err
}
func (f *fakeGenerator) GenerateTopics(context.Context, string, string, string) ([]string, error) {
	return f.topics, f.err
}

func newCourseService(e *testEnv, gen CurriculumGenerator) CourseService {
	return NewCourseService(e.db, e.log, e.courseRepo, e.subjectRepo, gen, e.cache)
}

func TestGenerateSubjectsEndToEnd(t *testing.T) {
	e := newTestEnv(t)
	gen := &fakeGenerator{subjects: []string{"Syntax", "Concurrency", "Tooling"}}
	svc := newCourseService(e, gen)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	assert.False(t, course.HasSubjects)

	subjects, err := svc.GenerateSubjects(ctx, owner.ID, false, course.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 3)

	// Exactly the agent's batch exists and the flag flipped.
	stored, err := e.subjectRepo.ListByCourse(ctx, nil, course.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(stored))
	for _, s := range stored {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"Syntax", "Concurrency", "Tooling"}, names)

	reloaded, err := e.courseRepo.GetByID(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.HasSubjects)

	// Regeneration replaces, never appends.
	gen.subjects = []string{"Modules"}
	_, err = svc.GenerateSubjects(ctx, owner.ID, false, course.ID)
	require.NoError(t, err)
	stored, err = e.subjectRepo.ListByCourse(ctx, nil, course.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Modules", stored[0].Name)
}

func TestGenerateSubjectsAgentFailureLeavesStateAlone(t *testing.T) {
	e := newTestEnv(t)
	gen := &fakeGenerator{subjects: []string{"Syntax"}}
	svc := newCourseService(e, gen)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	_, err := svc.GenerateSubjects(ctx, owner.ID, false, course.ID)
	require.NoError(t, err)

	gen.err = fmt.Errorf("model offline")
	_, err = svc.GenerateSubjects(ctx, owner.ID, false, course.ID)
	require.Error(t, err)

	// The earlier batch survives a failed regeneration.
	stored, err := e.subjectRepo.ListByCourse(ctx, nil, course.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Syntax", stored[0].Name)
}

func TestGenerateSubjectsOwnershipGate(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e, &fakeGenerator{subjects: []string{"Syntax"}})
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	stranger := e.createUser(t, "stranger@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	_, err := svc.GenerateSubjects(ctx, stranger.ID, false, course.ID)
	assert.Equal(t, apierr.KindForbidden, apierr.KindOf(err))

	// Admins bypass ownership.
	_, err = svc.GenerateSubjects(ctx, stranger.ID, true, course.ID)
	assert.NoError(t, err)
}

func TestCreateFromPrompt(t *testing.T) {
	e := newTestEnv(t)
	gen := &fakeGenerator{idea: &agents.CourseIdea{Name: "Go Basics", Description: "An intro."}}
	svc := newCourseService(e, gen)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course, err := svc.CreateFromPrompt(ctx, owner.ID, "teach me go")
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", course.Name)
	require.NotNil(t, course.UserID)
	assert.Equal(t, owner.ID, *course.UserID)

	_, err = svc.CreateFromPrompt(ctx, owner.ID, "  ")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestListPublishedUsesCacheUntilInvalidated(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e, nil)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	published := true
	_, err := svc.Update(ctx, owner.ID, false, course.ID, "", "", &published)
	require.NoError(t, err)

	courses, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	// Unpublish invalidates the cached list.
	unpublished := false
	_, err = svc.Update(ctx, owner.ID, false, course.ID, "", "", &unpublished)
	require.NoError(t, err)

	courses, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestGenerationDisabledWithoutClient(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e, nil)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	_, err := svc.GenerateSubjects(ctx, owner.ID, false, course.ID)
	assert.Equal(t, apierr.KindUpstream, apierr.KindOf(err))
	_, err = svc.CreateFromPrompt(ctx, owner.ID, "teach me go")
	assert.Equal(t, apierr.KindUpstream, apierr.KindOf(err))
}
