package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/mailer"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/requestdata"
	"github.com/coursewagon/coursewagon-backend/internal/types"
	"github.com/coursewagon/coursewagon-backend/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin,omitempty"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	GoogleSignIn(ctx context.Context, idToken string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type authService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	userTokenRepo  repos.UserTokenRepo
	authTokenRepo  repos.AuthTokenRepo
	mail           mailer.Mailer
	jwtSecret      string
	googleClientID string
	frontendURL    string
	accessTTL      time.Duration
	refreshTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	authTokenRepo repos.AuthTokenRepo,
	mail mailer.Mailer,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:             db,
		log:            log.With("service", "AuthService"),
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		authTokenRepo:  authTokenRepo,
		mail:           mail,
		jwtSecret:      jwtSecret,
		googleClientID: utils.GetEnv("GOOGLE_CLIENT_ID", "", log),
		frontendURL:    strings.TrimRight(utils.GetEnv("FRONTEND_URL", "http://localhost:4200", log), "/"),
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
	}
}

func (s *authService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *authService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.Validation("invalid_email", "a valid email is required")
	}
	exists, err := s.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("email_taken", "email already exists")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apierr.Validation("weak_password", "%s", err.Error())
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}

	var verifyToken string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		tok, err := utils.RandomToken(32)
		if err != nil {
			return err
		}
		verifyToken = tok
		return s.authTokenRepo.CreateEmailVerification(ctx, tx, &types.EmailVerificationToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     tok,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, verifyToken)
		s.mail.Enqueue(mailer.VerificationEmail(user.Email, user.FirstName, link))
		s.mail.Enqueue(mailer.WelcomeEmail(user.Email, user.FirstName))
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apierr.Unauthorized("bad_credentials", "invalid email or password")
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, nil, apierr.Unauthorized("bad_credentials", "invalid email or password")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		s.log.Warn("Failed to stamp last login", "user_id", user.ID, "error", err)
	}
	return user, pair, nil
}

func (s *authService) GoogleSignIn(ctx context.Context, idToken string) (*types.User, *TokenPair, error) {
	if s.googleClientID == "" {
		return nil, nil, apierr.Upstream("google_auth_disabled", fmt.Errorf("GOOGLE_CLIENT_ID not configured"))
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{s.googleClientID}); err != nil {
		return nil, nil, apierr.Unauthorized("bad_google_token", "invalid Google ID token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, nil, apierr.Unauthorized("bad_google_token", "undecodable Google ID token")
	}

	user, err := s.userRepo.GetByGoogleUID(ctx, nil, claimSet.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First Google sign-in; link by email when the account exists,
		// otherwise create one with an unusable password.
		user, err = s.userRepo.GetByEmail(ctx, nil, strings.ToLower(claimSet.Email))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			randomPass, rErr := utils.RandomToken(24)
			if rErr != nil {
				return nil, nil, rErr
			}
			hash, hErr := utils.HashPassword(randomPass)
			if hErr != nil {
				return nil, nil, hErr
			}
			sub := claimSet.Sub
			user = &types.User{
				ID:            uuid.New(),
				Email:         strings.ToLower(claimSet.Email),
				Password:      hash,
				FirstName:     claimSet.GivenName,
				LastName:      claimSet.FamilyName,
				EmailVerified: true,
				GoogleUID:     &sub,
			}
			if cErr := s.userRepo.Create(ctx, nil, user); cErr != nil {
				return nil, nil, fmt.Errorf("create google user: %w", cErr)
			}
		} else if err != nil {
			return nil, nil, fmt.Errorf("load user by email: %w", err)
		} else {
			sub := claimSet.Sub
			user.GoogleUID = &sub
			user.EmailVerified = true
			if uErr := s.userRepo.Update(ctx, nil, user); uErr != nil {
				return nil, nil, fmt.Errorf("link google uid: %w", uErr)
			}
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("load user by google uid: %w", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apierr.Unauthorized("missing_refresh_token", "refresh token required")
	}

	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Unauthorized("bad_refresh_token", "unknown refresh token")
			}
			return fmt.Errorf("load refresh token: %w", err)
		}
		if row.ExpiresAt.Before(time.Now()) {
			_ = s.userTokenRepo.Delete(ctx, tx, row.ID)
			return apierr.Unauthorized("refresh_expired", "refresh token expired")
		}
		user, err := s.userRepo.GetByID(ctx, tx, row.UserID)
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		// Rotate: new row in, old row out.
		newPair, err := s.issueTokensTx(ctx, tx, user)
		if err != nil {
			return err
		}
		if err := s.userTokenRepo.Delete(ctx, tx, row.ID); err != nil {
			return fmt.Errorf("drop rotated token: %w", err)
		}
		pair = newPair
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("not_logged_in", "no session")
	}
	return s.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address exists.
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}
	tok, err := utils.RandomToken(32)
	if err != nil {
		return err
	}
	if err := s.authTokenRepo.CreatePasswordReset(ctx, nil, &types.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     tok,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	if s.mail != nil {
		link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, tok)
		s.mail.Enqueue(mailer.PasswordResetEmail(user.Email, user.FirstName, link))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apierr.Validation("weak_password", "%s", err.Error())
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.authTokenRepo.GetPasswordReset(ctx, tx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Validation("bad_reset_token", "invalid or expired reset token")
			}
			return fmt.Errorf("load reset token: %w", err)
		}
		if row.Used || row.ExpiresAt.Before(time.Now()) {
			return apierr.Validation("bad_reset_token", "invalid or expired reset token")
		}
		user, err := s.userRepo.GetByID(ctx, tx, row.UserID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		user.Password = hash
		if err := s.userRepo.Update(ctx, tx, user); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := s.authTokenRepo.MarkPasswordResetUsed(ctx, tx, row); err != nil {
			return fmt.Errorf("mark token used: %w", err)
		}
		// A password change invalidates every session.
		return s.userTokenRepo.DeleteByUserID(ctx, tx, user.ID)
	})
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.authTokenRepo.GetEmailVerification(ctx, tx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Validation("bad_verify_token", "invalid or expired verification token")
			}
			return fmt.Errorf("load verification token: %w", err)
		}
		if row.Used || row.ExpiresAt.Before(time.Now()) {
			return apierr.Validation("bad_verify_token", "invalid or expired verification token")
		}
		user, err := s.userRepo.GetByID(ctx, tx, row.UserID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		user.EmailVerified = true
		if err := s.userRepo.Update(ctx, tx, user); err != nil {
			return fmt.Errorf("mark verified: %w", err)
		}
		return s.authTokenRepo.MarkEmailVerificationUsed(ctx, tx, row)
	})
}

func (s *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.issueTokensTx(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) issueTokensTx(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	access, err := s.signAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.New().String()
	if err := s.userTokenRepo.Create(ctx, tx, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) signAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		IsAdmin: user.IsAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return ctx, apierr.Unauthorized("bad_access_token", "invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("bad_access_token", "invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("bad_access_token", "invalid subject in token")
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		IsAdmin:     claims.IsAdmin,
	}), nil
}
