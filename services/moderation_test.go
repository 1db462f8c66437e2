package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/utils"
)

func physicsSubject(t *testing.T) *models.Subject {
	t.Helper()
	s := &models.Subject{
		ID:    uuid.New(),
		Name:  "Physics",
		Units: models.UnitList{},
	}
	_, err := s.AddUnit(1, "Kinematics")
	require.NoError(t, err)
	_, err = s.AddChapters(1, []models.ChapterDraft{{Title: "C1"}, {Title: "C2"}})
	require.NoError(t, err)
	return s
}

func addChaptersRequest(t *testing.T, subjectID uuid.UUID, unitNumber int) *models.ModerationRequest {
	t.Helper()
	req, err := models.NewAddChaptersRequest(uuid.New(), models.AddChaptersPayload{
		SubjectID:  subjectID,
		UnitNumber: unitNumber,
		Chapters: []models.ChapterDraft{{
			Title:  "C3",
			Topics: []models.TopicDraft{{Title: "T1"}},
		}},
	})
	require.NoError(t, err)
	req.ID = uuid.New()
	return req
}

func TestApplyModerationRequestAppendsChapters(t *testing.T) {
	subject := physicsSubject(t)
	req := addChaptersRequest(t, subject.ID, 1)

	err := ApplyModerationRequest(req, subject)
	require.NoError(t, err)

	unit := subject.FindUnit(1)
	require.Len(t, unit.Chapters, 3)
	assert.Equal(t, 3, unit.Chapters[2].OrderIndex)
	require.Len(t, unit.Chapters[2].Topics, 1)
	assert.Equal(t, 1, unit.Chapters[2].Topics[0].OrderIndex)
}

func TestApplyModerationRequestUnknownUnit(t *testing.T) {
	subject := physicsSubject(t)
	req := addChaptersRequest(t, subject.ID, 42)

	err := ApplyModerationRequest(req, subject)
	require.ErrorIs(t, err, utils.ErrNotFound)

	// The failed apply leaves both the tree and the request untouched.
	assert.Len(t, subject.FindUnit(1).Chapters, 2)
	assert.True(t, req.IsPending())
}

func TestApplyModerationRequestWrongSubject(t *testing.T) {
	subject := physicsSubject(t)
	req := addChaptersRequest(t, uuid.New(), 1)

	err := ApplyModerationRequest(req, subject)
	require.ErrorIs(t, err, utils.ErrValidation)
	assert.Len(t, subject.FindUnit(1).Chapters, 2)
}

func TestApplyModerationRequestUnsupportedType(t *testing.T) {
	subject := physicsSubject(t)
	req := addChaptersRequest(t, subject.ID, 1)
	req.Type = models.ModerationType("reorder_units")

	err := ApplyModerationRequest(req, subject)
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestApproveRejectsDecidedRequest(t *testing.T) {
	subject := physicsSubject(t)

	for _, status := range []models.ModerationStatus{models.ModerationApproved, models.ModerationRejected} {
		req := addChaptersRequest(t, subject.ID, 1)
		req.Status = status

		// The guard fires before any persistence is touched.
		_, err := ApproveModerationRequest(nil, req, uuid.New())
		require.ErrorIs(t, err, utils.ErrInvalidState)
		assert.Equal(t, status, req.Status)
	}
}

func TestRejectRejectsDecidedRequest(t *testing.T) {
	subject := physicsSubject(t)
	req := addChaptersRequest(t, subject.ID, 1)
	req.Status = models.ModerationRejected

	err := RejectModerationRequest(nil, req, uuid.New())
	require.ErrorIs(t, err, utils.ErrInvalidState)
	assert.Equal(t, models.ModerationRejected, req.Status)
}

func TestApproveRejectsMalformedPayloadBeforePersistence(t *testing.T) {
	req := addChaptersRequest(t, uuid.New(), 1)
	req.Data = []byte(`not json`)

	_, err := ApproveModerationRequest(nil, req, uuid.New())
	require.ErrorIs(t, err, utils.ErrValidation)
	assert.True(t, req.IsPending())
}
