package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of the AI tutoring conversation. TopicID is
// optional; when set it scopes the conversation to a syllabus topic.
type ChatMessage struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User    User       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TopicID *uuid.UUID `gorm:"type:uuid;index" json:"topic_id,omitempty"`
	Role    ChatRole   `gorm:"size:10;not null" json:"role"`
	Content string     `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
