package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

// AuthTokenRepo persists the single-use password-reset and email-verification
// tokens. Spent tokens are marked used, never deleted.
type AuthTokenRepo interface {
	CreatePasswordReset(ctx context.Context, tx *gorm.DB, token *types.PasswordResetToken) error
	GetPasswordReset(ctx context.Context, tx *gorm.DB, token string) (*types.PasswordResetToken, error)
	MarkPasswordResetUsed(ctx context.Context, tx *gorm.DB, token *types.PasswordResetToken) error
	CreateEmailVerification(ctx context.Context, tx *gorm.DB, token *types.EmailVerificationToken) error
	GetEmailVerification(ctx context.Context, tx *gorm.DB, token string) (*types.EmailVerificationToken, error)
	MarkEmailVerificationUsed(ctx context.Context, tx *gorm.DB, token *types.EmailVerificationToken) error
}

type authTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthTokenRepo(db *gorm.DB, baseLog *logger.Logger) AuthTokenRepo {
	return &authTokenRepo{db: db, log: baseLog.With("repo", "AuthTokenRepo")}
}

func (r *authTokenRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *authTokenRepo) CreatePasswordReset(ctx context.Context, tx *gorm.DB, token *types.PasswordResetToken) error {
	return r.conn(tx).WithContext(ctx).Create(token).Error
}

func (r *authTokenRepo) GetPasswordReset(ctx context.Context, tx *gorm.DB, token string) (*types.PasswordResetToken, error) {
	var row types.PasswordResetToken
	if err := r.conn(tx).WithContext(ctx).First(&row, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *authTokenRepo) MarkPasswordResetUsed(ctx context.Context, tx *gorm.DB, token *types.PasswordResetToken) error {
	return r.conn(tx).WithContext(ctx).
		Model(token).
		Update("used", true).Error
}

func (r *authTokenRepo) CreateEmailVerification(ctx context.Context, tx *gorm.DB, token *types.EmailVerificationToken) error {
	return r.conn(tx).WithContext(ctx).Create(token).Error
}

func (r *authTokenRepo) GetEmailVerification(ctx context.Context, tx *gorm.DB, token string) (*types.EmailVerificationToken, error) {
	var row types.EmailVerificationToken
	if err := r.conn(tx).WithContext(ctx).First(&row, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *authTokenRepo) MarkEmailVerificationUsed(ctx context.Context, tx *gorm.DB, token *types.EmailVerificationToken) error {
	return r.conn(tx).WithContext(ctx).
		Model(token).
		Update("used", true).Error
}
