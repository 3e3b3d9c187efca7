package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password      string     `gorm:"not null;column:password" json:"-"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	IsAdmin       bool       `gorm:"not null;default:false;column:is_admin" json:"is_admin"`
	EmailVerified bool       `gorm:"not null;default:false;column:email_verified" json:"email_verified"`
	GoogleUID     *string    `gorm:"uniqueIndex;column:google_uid" json:"-"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
