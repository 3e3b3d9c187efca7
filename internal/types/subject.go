package types

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	HasChapters bool      `gorm:"not null;default:false;column:has_chapters" json:"has_chapters"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }
