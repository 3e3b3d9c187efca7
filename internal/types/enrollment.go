package types

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

type Enrollment struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	User               *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CourseID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Course             *Course          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Status             EnrollmentStatus `gorm:"not null;default:active;column:status" json:"status"`
	ProgressPercentage float64          `gorm:"not null;default:0;column:progress_percentage" json:"progress_percentage"`
	EnrolledAt         time.Time        `gorm:"not null;column:enrolled_at" json:"enrolled_at"`
	CompletedAt        *time.Time       `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LastAccessedAt     *time.Time       `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }

type LearningProgress struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_topic" json:"enrollment_id"`
	Enrollment       *Enrollment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"-"`
	TopicID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_topic" json:"topic_id"`
	Topic            *Topic      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"-"`
	Completed        bool        `gorm:"not null;default:false;column:completed" json:"completed"`
	CompletedAt      *time.Time  `gorm:"column:completed_at" json:"completed_at,omitempty"`
	TimeSpentMinutes int         `gorm:"not null;default:0;column:time_spent_minutes" json:"time_spent_minutes"`
	CreatedAt        time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null" json:"updated_at"`
}

func (LearningProgress) TableName() string { return "learning_progress" }
