package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/mailer"
	"github.com/coursewagon/coursewagon-backend/internal/requestdata"
)

type fakeMailer struct {
	sent []mailer.Email
}

func (f *fakeMailer) Enqueue(email mailer.Email) { f.sent = append(f.sent, email) }
func (f *fakeMailer) Start(context.Context)      {}
func (f *fakeMailer) Stop()                      {}

func newAuthService(e *testEnv, m mailer.Mailer) AuthService {
	return NewAuthService(e.db, e.log, e.userRepo, e.userTokenRepo, e.authTokenRepo, m,
		"test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)
	m := &fakeMailer{}
	svc := newAuthService(e, m)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada@Example.com", "correct-horse-battery", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.EmailVerified)

	// Verification and welcome mail queued.
	require.Len(t, m.sent, 2)
	assert.Contains(t, m.sent[0].Subject, "Verify")

	_, err = svc.Register(ctx, "ada@example.com", "correct-horse-battery", "", "")
	assert.Equal(t, apierr.KindConflict, apierr.KindOf(err))

	loggedIn, pair, err := svc.Login(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotNil(t, loggedIn.LastLoginAt)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.Equal(t, apierr.KindUnauthorized, apierr.KindOf(err))
	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.Equal(t, apierr.KindUnauthorized, apierr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := newAuthService(e, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "correct-horse-battery", "", "")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	_, err = svc.Register(ctx, "short@example.com", "short", "", "")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	svc := newAuthService(e, &fakeMailer{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery", "Ada", "")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	authedCtx, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	rd := requestdata.GetRequestData(authedCtx)
	require.NotNil(t, rd)
	assert.Equal(t, user.ID, rd.UserID)
	assert.False(t, rd.IsAdmin)

	_, err = svc.SetContextFromToken(ctx, "garbage.token.here")
	assert.Equal(t, apierr.KindUnauthorized, apierr.KindOf(err))
}

func TestRefreshRotatesToken(t *testing.T) {
	e := newTestEnv(t)
	svc := newAuthService(e, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery", "", "")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// The old refresh token is spent.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, apierr.KindUnauthorized, apierr.KindOf(err))

	// The new one works.
	_, err = svc.Refresh(ctx, newPair.RefreshToken)
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	e := newTestEnv(t)
	m := &fakeMailer{}
	svc := newAuthService(e, m)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery", "", "")
	require.NoError(t, err)
	m.sent = nil

	// Unknown address: silent no-op.
	require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, m.sent)

	require.NoError(t, svc.ForgotPassword(ctx, "ada@example.com"))
	require.Len(t, m.sent, 1)

	user, err := e.userRepo.GetByEmail(ctx, nil, "ada@example.com")
	require.NoError(t, err)
	var token string
	row := e.db.Raw("SELECT token FROM password_reset_token WHERE user_id = ?", user.ID).Scan(&token)
	require.NoError(t, row.Error)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "brand-new-password"))

	_, _, err = svc.Login(ctx, "ada@example.com", "correct-horse-battery")
	assert.Equal(t, apierr.KindUnauthorized, apierr.KindOf(err))
	_, _, err = svc.Login(ctx, "ada@example.com", "brand-new-password")
	assert.NoError(t, err)

	// Single use.
	err = svc.ResetPassword(ctx, token, "another-password")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestVerifyEmailFlow(t *testing.T) {
	e := newTestEnv(t)
	svc := newAuthService(e, &fakeMailer{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery", "", "")
	require.NoError(t, err)

	var token string
	row := e.db.Raw("SELECT token FROM email_verification_token WHERE user_id = ?", user.ID).Scan(&token)
	require.NoError(t, row.Error)
	require.NotEmpty(t, token)

	require.NoError(t, svc.VerifyEmail(ctx, token))
	reloaded, err := e.userRepo.GetByID(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.EmailVerified)

	err = svc.VerifyEmail(ctx, token)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	err = svc.VerifyEmail(ctx, "bogus")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}
