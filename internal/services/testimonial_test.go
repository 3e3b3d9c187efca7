package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
)

func newTestimonialService(e *testEnv) TestimonialService {
	return NewTestimonialService(e.db, e.log, e.testimonialRepo, e.courseRepo)
}

func TestTestimonialFlow(t *testing.T) {
	e := newTestEnv(t)
	svc := newTestimonialService(e)
	ctx := context.Background()

	user := e.createUser(t, "user@example.com")

	// Nothing yet.
	_, err := svc.GetMine(ctx, user.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))

	// No courses yet, so no testimonial either.
	_, err = svc.Create(ctx, user.ID, "Loved it", 5)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	e.createCourse(t, user, "Go Basics")
	created, err := svc.Create(ctx, user.ID, "Loved it", 5)
	require.NoError(t, err)

	mine, err := svc.GetMine(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, mine.ID)
	assert.Equal(t, "Loved it", mine.Quote)

	// One per user.
	_, err = svc.Create(ctx, user.ID, "Still love it", 5)
	assert.Equal(t, apierr.KindConflict, apierr.KindOf(err))
}

func TestTestimonialValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := newTestimonialService(e)
	ctx := context.Background()

	user := e.createUser(t, "user@example.com")
	e.createCourse(t, user, "Go Basics")

	_, err := svc.Create(ctx, user.ID, "   ", 5)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	_, err = svc.Create(ctx, user.ID, "ok", 0)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	_, err = svc.Create(ctx, user.ID, "ok", 6)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestTestimonialOwnershipOnUpdateDelete(t *testing.T) {
	e := newTestEnv(t)
	svc := newTestimonialService(e)
	ctx := context.Background()

	author := e.createUser(t, "author@example.com")
	stranger := e.createUser(t, "stranger@example.com")
	e.createCourse(t, author, "Go Basics")

	created, err := svc.Create(ctx, author.ID, "Loved it", 5)
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger.ID, false, created.ID, "Hijacked", 1)
	assert.Equal(t, apierr.KindForbidden, apierr.KindOf(err))
	err = svc.Delete(ctx, stranger.ID, false, created.ID)
	assert.Equal(t, apierr.KindForbidden, apierr.KindOf(err))

	updated, err := svc.Update(ctx, author.ID, false, created.ID, "Even better now", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	require.NoError(t, svc.Delete(ctx, author.ID, false, created.ID))
	_, err = svc.GetMine(ctx, author.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}
