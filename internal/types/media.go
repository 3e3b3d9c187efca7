package types

import (
	"time"

	"github.com/google/uuid"
)

// Media records an uploaded blob and which storage provider produced its URL.
// The blob itself is the source of truth; this row is metadata.
type Media struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType string    `gorm:"not null;index:idx_media_entity;column:entity_type" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_media_entity;column:entity_id" json:"entity_id"`
	URL        string    `gorm:"not null;column:url" json:"url"`
	Provider   string    `gorm:"not null;column:provider" json:"provider"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (Media) TableName() string { return "media" }
