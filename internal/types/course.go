package types

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User        *User      `gorm:"constraint:OnDelete:SET NULL;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	ImageURL    string     `gorm:"column:image_url" json:"image_url"`
	Published   bool       `gorm:"not null;default:false;column:published" json:"published"`
	RatingSum   int        `gorm:"not null;default:0;column:rating_sum" json:"-"`
	RatingCount int        `gorm:"not null;default:0;column:rating_count" json:"rating_count"`
	HasSubjects bool       `gorm:"not null;default:false;column:has_subjects" json:"has_subjects"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// AverageRating derives the published rating from the running aggregates.
func (c *Course) AverageRating() float64 {
	if c.RatingCount == 0 {
		return 0
	}
	return float64(c.RatingSum) / float64(c.RatingCount)
}
