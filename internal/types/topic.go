package types

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID  uuid.UUID `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Chapter    *Chapter  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"-"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	HasContent bool      `gorm:"not null;default:false;column:has_content" json:"has_content"`
	VideoURL   string    `gorm:"column:video_url" json:"video_url,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Topic) TableName() string { return "topic" }
