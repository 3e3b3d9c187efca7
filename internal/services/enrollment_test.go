package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

func newEnrollmentService(e *testEnv) EnrollmentService {
	return NewEnrollmentService(e.db, e.log, e.courseRepo, e.topicRepo, e.enrollmentRepo, e.progressRepo)
}

func TestEnrollAndDuplicate(t *testing.T) {
	e := newTestEnv(t)
	svc := newEnrollmentService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	learner := e.createUser(t, "learner@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	enrollment, err := svc.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, types.EnrollmentActive, enrollment.Status)
	assert.Zero(t, enrollment.ProgressPercentage)

	_, err = svc.Enroll(ctx, learner.ID, course.ID)
	assert.Equal(t, apierr.KindConflict, apierr.KindOf(err))
}

func TestDropAndReenrollKeepsProgress(t *testing.T) {
	e := newTestEnv(t)
	svc := newEnrollmentService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	learner := e.createUser(t, "learner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 4)

	_, err := svc.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.CompleteTopic(ctx, learner.ID, course.ID, topics[0].ID)
	require.NoError(t, err)

	require.NoError(t, svc.Drop(ctx, learner.ID, course.ID))

	enrollment, err := svc.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, types.EnrollmentActive, enrollment.Status)

	enrollment, err = svc.RecomputeProgress(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, enrollment.ProgressPercentage, 0.001)
}

func TestProgressRecomputeIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	svc := newEnrollmentService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	learner := e.createUser(t, "learner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 4)

	enrollment, err := svc.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	updated, err := svc.CompleteTopic(ctx, learner.ID, course.ID, topics[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, updated.ProgressPercentage, 0.001)

	// Completing the same topic again changes nothing.
	updated, err = svc.CompleteTopic(ctx, learner.ID, course.ID, topics[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, updated.ProgressPercentage, 0.001)

	// Recompute without new completions settles on the same value.
	for i := 0; i < 3; i++ {
		updated, err = svc.RecomputeProgress(ctx, enrollment.ID)
		require.NoError(t, err)
		assert.InDelta(t, 25.0, updated.ProgressPercentage, 0.001)
	}
}

func TestCompletingAllTopicsFlipsStatus(t *testing.T) {
	e := newTestEnv(t)
	svc := newEnrollmentService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	learner := e.createUser(t, "learner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 2)

	_, err := svc.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	var enrollment *types.Enrollment
	for _, topic := range topics {
		enrollment, err = svc.CompleteTopic(ctx, learner.ID, course.ID, topic.ID)
		require.NoError(t, err)
	}
	assert.InDelta(t, 100.0, enrollment.ProgressPercentage, 0.001)
	assert.Equal(t, types.EnrollmentCompleted, enrollment.Status)
	require.NotNil(t, enrollment.CompletedAt)
	stamp := *enrollment.CompletedAt

	// Another recompute keeps the original completion stamp.
	enrollment, err = svc.RecomputeProgress(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, types.EnrollmentCompleted, enrollment.Status)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, stamp.Unix(), enrollment.CompletedAt.Unix())
}

func TestLogTimeAccumulates(t *testing.T) {
	e := newTestEnv(t)
	svc := newEnrollmentService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	learner := e.createUser(t, "learner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 1)

	enrollment, err := svc.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.LogTime(ctx, learner.ID, course.ID, topics[0].ID, 10))
	require.NoError(t, svc.LogTime(ctx, learner.ID, course.ID, topics[0].ID, 5))

	row, err := e.progressRepo.GetByEnrollmentAndTopic(ctx, nil, enrollment.ID, topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 15, row.TimeSpentMinutes)
	assert.False(t, row.Completed)

	err = svc.LogTime(ctx, learner.ID, course.ID, topics[0].ID, 0)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestEnrollUnknownCourse(t *testing.T) {
	e := newTestEnv(t)
	svc := newEnrollmentService(e)

	learner := e.createUser(t, "learner@example.com")
	_, err := svc.Enroll(context.Background(), learner.ID, learner.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}
