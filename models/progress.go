package models

import (
	"time"

	"github.com/google/uuid"
)

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// TopicProgress tracks one user's status on one topic. Topic ids point into
// a subject's jsonb tree; subject_id is denormalized for per-subject listing.
type TopicProgress struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_topic" json:"user_id"`
	User      User           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TopicID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_topic" json:"topic_id"`
	SubjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"subject_id"`
	Status    ProgressStatus `gorm:"size:20;not null;default:'not_started'" json:"status"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
