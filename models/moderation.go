package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/dtnghia/syllabus-backend/utils"
)

// ModerationType keys the tagged payload union. One variant today; a new
// request kind means a new constant plus a payload struct and accessor.
type ModerationType string

const ModerationAddChapters ModerationType = "add_chapters"

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// ModerationRequest is a proposed syllabus edit waiting for an admin
// decision. The payload is not validated at submission time; everything is
// checked when the request is applied.
type ModerationRequest struct {
	ID     uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type   ModerationType   `gorm:"size:50;not null" json:"type"`
	Data   datatypes.JSON   `gorm:"type:jsonb;not null" json:"data"`
	Status ModerationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	SubmittedBy uuid.UUID `gorm:"type:uuid;not null" json:"submitted_by"`
	Submitter   User      `gorm:"foreignKey:SubmittedBy;references:ID;constraint:OnDelete:CASCADE;" json:"submitter"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddChaptersPayload is the data variant for ModerationAddChapters.
type AddChaptersPayload struct {
	SubjectID  uuid.UUID      `json:"subject_id"`
	UnitNumber int            `json:"unit_number"`
	Chapters   []ChapterDraft `json:"chapters"`
}

// NewAddChaptersRequest builds a pending request from a payload.
func NewAddChaptersRequest(submittedBy uuid.UUID, payload AddChaptersPayload) (*ModerationRequest, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ModerationRequest{
		Type:        ModerationAddChapters,
		Data:        datatypes.JSON(raw),
		Status:      ModerationPending,
		SubmittedBy: submittedBy,
	}, nil
}

// AddChaptersData decodes the payload for an add_chapters request.
func (m *ModerationRequest) AddChaptersData() (*AddChaptersPayload, error) {
	if m.Type != ModerationAddChapters {
		return nil, fmt.Errorf("request %s has type %q, not %q: %w", m.ID, m.Type, ModerationAddChapters, utils.ErrValidation)
	}
	var payload AddChaptersPayload
	if err := json.Unmarshal(m.Data, &payload); err != nil {
		return nil, fmt.Errorf("request %s carries malformed payload: %v: %w", m.ID, err, utils.ErrValidation)
	}
	return &payload, nil
}

func (m *ModerationRequest) IsPending() bool {
	return m.Status == ModerationPending
}
