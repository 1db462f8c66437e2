package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnghia/syllabus-backend/utils"
)

func newSubject(t *testing.T) *Subject {
	t.Helper()
	return &Subject{
		ID:    uuid.New(),
		Name:  "Physics",
		Units: UnitList{},
	}
}

func TestAddUnitKeepsUnitsSorted(t *testing.T) {
	s := newSubject(t)

	_, err := s.AddUnit(2, "Dynamics")
	require.NoError(t, err)
	_, err = s.AddUnit(1, "Kinematics")
	require.NoError(t, err)

	require.Len(t, s.Units, 2)
	assert.Equal(t, 1, s.Units[0].UnitNumber)
	assert.Equal(t, 2, s.Units[1].UnitNumber)
	assert.Equal(t, "Kinematics", s.Units[0].Title)
}

func TestAddUnitNonContiguousNumbers(t *testing.T) {
	s := newSubject(t)

	for _, n := range []int{7, 3, 12} {
		_, err := s.AddUnit(n, "Unit")
		require.NoError(t, err)
	}

	require.Len(t, s.Units, 3)
	assert.Equal(t, 3, s.Units[0].UnitNumber)
	assert.Equal(t, 7, s.Units[1].UnitNumber)
	assert.Equal(t, 12, s.Units[2].UnitNumber)
}

func TestAddUnitDuplicateNumberConflicts(t *testing.T) {
	s := newSubject(t)

	_, err := s.AddUnit(1, "Kinematics")
	require.NoError(t, err)

	_, err = s.AddUnit(1, "Something else")
	require.ErrorIs(t, err, utils.ErrConflict)

	// The failed call must not have touched the list.
	require.Len(t, s.Units, 1)
	assert.Equal(t, "Kinematics", s.Units[0].Title)
}

func TestAddChaptersAppendsAfterExisting(t *testing.T) {
	s := newSubject(t)
	_, err := s.AddUnit(1, "Kinematics")
	require.NoError(t, err)

	// Two pre-existing chapters.
	_, err = s.AddChapters(1, []ChapterDraft{{Title: "C1"}, {Title: "C2"}})
	require.NoError(t, err)

	added, err := s.AddChapters(1, []ChapterDraft{{
		Title:  "C3",
		Topics: []TopicDraft{{Title: "T1"}},
	}})
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.Equal(t, 3, added[0].OrderIndex)
	require.Len(t, added[0].Topics, 1)
	assert.Equal(t, 1, added[0].Topics[0].OrderIndex)
	assert.Equal(t, "T1", added[0].Topics[0].Title)

	unit := s.FindUnit(1)
	require.NotNil(t, unit)
	require.Len(t, unit.Chapters, 3)
	for i, ch := range unit.Chapters {
		assert.Equal(t, i+1, ch.OrderIndex)
	}
}

func TestAddChaptersBatchIndexing(t *testing.T) {
	s := newSubject(t)
	_, err := s.AddUnit(4, "Waves")
	require.NoError(t, err)

	added, err := s.AddChapters(4, []ChapterDraft{
		{Title: "A", Topics: []TopicDraft{{Title: "A1"}, {Title: "A2"}}},
		{Title: "B", Topics: []TopicDraft{{Title: "B1"}}},
		{Title: "C"},
	})
	require.NoError(t, err)
	require.Len(t, added, 3)

	for i, ch := range added {
		assert.Equal(t, i+1, ch.OrderIndex)
		for j, topic := range ch.Topics {
			assert.Equal(t, j+1, topic.OrderIndex)
		}
	}
}

func TestAddChaptersUnknownUnit(t *testing.T) {
	s := newSubject(t)
	_, err := s.AddUnit(1, "Kinematics")
	require.NoError(t, err)

	_, err = s.AddChapters(99, []ChapterDraft{{Title: "C1"}})
	require.ErrorIs(t, err, utils.ErrNotFound)

	// Tree untouched.
	assert.Empty(t, s.FindUnit(1).Chapters)
}

func TestAddChaptersAssignsFreshIDs(t *testing.T) {
	s := newSubject(t)
	_, err := s.AddUnit(1, "Kinematics")
	require.NoError(t, err)

	added, err := s.AddChapters(1, []ChapterDraft{
		{Title: "C1", Topics: []TopicDraft{{Title: "T1"}, {Title: "T2"}}},
		{Title: "C2", Topics: []TopicDraft{{Title: "T3"}}},
	})
	require.NoError(t, err)

	seen := map[uuid.UUID]bool{}
	for _, ch := range added {
		assert.NotEqual(t, uuid.Nil, ch.ID)
		assert.False(t, seen[ch.ID], "chapter id reused")
		seen[ch.ID] = true
		for _, topic := range ch.Topics {
			assert.NotEqual(t, uuid.Nil, topic.ID)
			assert.False(t, seen[topic.ID], "topic id reused")
			seen[topic.ID] = true
		}
	}
}

func TestFindTopicWalksWholeTree(t *testing.T) {
	s := newSubject(t)
	_, err := s.AddUnit(1, "Kinematics")
	require.NoError(t, err)
	_, err = s.AddUnit(2, "Dynamics")
	require.NoError(t, err)

	added, err := s.AddChapters(2, []ChapterDraft{
		{Title: "C1", Topics: []TopicDraft{{Title: "T1", Content: "body"}}},
	})
	require.NoError(t, err)

	want := added[0].Topics[0]
	got := s.FindTopic(want.ID)
	require.NotNil(t, got)
	assert.Equal(t, "T1", got.Title)
	assert.Equal(t, "body", got.Content)

	assert.Nil(t, s.FindTopic(uuid.New()))
	assert.Equal(t, 1, s.TopicCount())
}
