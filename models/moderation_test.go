package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/dtnghia/syllabus-backend/utils"
)

func TestNewAddChaptersRequestStartsPending(t *testing.T) {
	submitter := uuid.New()
	req, err := NewAddChaptersRequest(submitter, AddChaptersPayload{
		SubjectID:  uuid.New(),
		UnitNumber: 1,
		Chapters:   []ChapterDraft{{Title: "C1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, ModerationPending, req.Status)
	assert.Equal(t, ModerationAddChapters, req.Type)
	assert.Equal(t, submitter, req.SubmittedBy)
	assert.True(t, req.IsPending())

	payload, err := req.AddChaptersData()
	require.NoError(t, err)
	assert.Equal(t, 1, payload.UnitNumber)
	require.Len(t, payload.Chapters, 1)
	assert.Equal(t, "C1", payload.Chapters[0].Title)
}

func TestAddChaptersDataRejectsWrongType(t *testing.T) {
	req := &ModerationRequest{
		ID:   uuid.New(),
		Type: ModerationType("delete_subject"),
		Data: datatypes.JSON([]byte(`{}`)),
	}

	_, err := req.AddChaptersData()
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestAddChaptersDataRejectsMalformedPayload(t *testing.T) {
	req := &ModerationRequest{
		ID:   uuid.New(),
		Type: ModerationAddChapters,
		Data: datatypes.JSON([]byte(`{"unit_number": "not a number"`)),
	}

	_, err := req.AddChaptersData()
	assert.ErrorIs(t, err, utils.ErrValidation)
}
