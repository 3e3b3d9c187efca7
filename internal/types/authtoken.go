package types

import (
	"time"

	"github.com/google/uuid"
)

// Single-use tokens are marked used rather than deleted so abuse attempts
// stay visible.

type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null;column:token" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false;column:used" json:"used"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_token" }

type EmailVerificationToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null;column:token" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false;column:used" json:"used"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (EmailVerificationToken) TableName() string { return "email_verification_token" }
