package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestion struct {
	Question   string       `json:"question"`
	Difficulty string       `json:"difficulty"`
	Hint       string       `json:"hint"`
	Options    []QuizOption `json:"options"`
}

type QuestionList []QuizQuestion

func (ql QuestionList) Value() (driver.Value, error) {
	if ql == nil {
		ql = QuestionList{}
	}
	return json.Marshal(ql)
}

func (ql *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*ql = QuestionList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into QuestionList", value)
	}
	return json.Unmarshal(raw, ql)
}

// Quiz is an AI-generated question set for one topic.
type Quiz struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubjectID uuid.UUID    `gorm:"type:uuid;not null;index" json:"subject_id"`
	TopicID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"topic_id"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	Questions QuestionList `gorm:"type:jsonb;not null;default:'[]'" json:"questions"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	Creator   User      `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// QuizResult tracks one user's outcome on one quiz.
type QuizResult struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_user_quiz" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuizID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_user_quiz" json:"quiz_id"`
	Quiz      Quiz      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Score     float64   `gorm:"type:numeric(5,2)" json:"score"`
	Completed bool      `gorm:"default:false" json:"completed"`
	TakenAt   time.Time `gorm:"autoUpdateTime" json:"taken_at"`
}
