package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
)

func newReviewService(e *testEnv) ReviewService {
	return NewReviewService(e.db, e.log, e.reviewRepo, e.courseRepo)
}

func TestReviewAggregatesTrackMutations(t *testing.T) {
	e := newTestEnv(t)
	svc := newReviewService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	alice := e.createUser(t, "alice@example.com")
	bob := e.createUser(t, "bob@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	_, err := svc.Create(ctx, alice.ID, course.ID, 5, "great")
	require.NoError(t, err)
	bobReview, err := svc.Create(ctx, bob.ID, course.ID, 3, "fine")
	require.NoError(t, err)

	reloaded, err := e.courseRepo.GetByID(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.RatingCount)
	assert.InDelta(t, 4.0, reloaded.AverageRating(), 0.001)

	// Update adjusts the sum by the delta only.
	_, err = svc.Update(ctx, bob.ID, false, bobReview.ID, 1, "changed my mind")
	require.NoError(t, err)
	reloaded, err = e.courseRepo.GetByID(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.RatingCount)
	assert.InDelta(t, 3.0, reloaded.AverageRating(), 0.001)

	// Delete removes both sum and count.
	require.NoError(t, svc.Delete(ctx, bob.ID, false, bobReview.ID))
	reloaded, err = e.courseRepo.GetByID(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.RatingCount)
	assert.InDelta(t, 5.0, reloaded.AverageRating(), 0.001)
}

func TestReviewValidationAndUniqueness(t *testing.T) {
	e := newTestEnv(t)
	svc := newReviewService(e)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	alice := e.createUser(t, "alice@example.com")
	course := e.createCourse(t, owner, "Go Basics")

	_, err := svc.Create(ctx, alice.ID, course.ID, 0, "")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	_, err = svc.Create(ctx, alice.ID, course.ID, 6, "")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	_, err = svc.Create(ctx, alice.ID, course.ID, 4, "solid")
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice.ID, course.ID, 5, "again")
	assert.Equal(t, apierr.KindConflict, apierr.KindOf(err))

	_, err = svc.Create(ctx, alice.ID, alice.ID, 4, "bad course id")
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}
