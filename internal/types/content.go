package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Content is one-to-one with Topic and holds the generated markdown.
type Content struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"topic_id"`
	Topic              *Topic         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"-"`
	Markdown           string         `gorm:"type:text;not null;column:markdown" json:"markdown"`
	ImageURL           string         `gorm:"column:image_url" json:"image_url,omitempty"`
	VideoURL           string         `gorm:"column:video_url" json:"video_url,omitempty"`
	GenerationMetadata datatypes.JSON `gorm:"column:generation_metadata;type:jsonb" json:"generation_metadata,omitempty"` // {course, subject, chapter, topic}
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (Content) TableName() string { return "content" }
