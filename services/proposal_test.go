package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnghia/syllabus-backend/utils"
)

func TestParseChapterProposalHandlesFencedJSON(t *testing.T) {
	raw := "```json\n" + `{
  "chapters": [
    {
      "title": "Forces",
      "description": "Newton's laws",
      "topics": [
        {"title": "First law", "description": "inertia", "content": "..."}
      ]
    }
  ]
}` + "\n```"

	drafts, err := ParseChapterProposal(raw)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Forces", drafts[0].Title)
	require.Len(t, drafts[0].Topics, 1)
	assert.Equal(t, "First law", drafts[0].Topics[0].Title)
}

func TestParseChapterProposalRejectsInvalidJSON(t *testing.T) {
	_, err := ParseChapterProposal("Sure! Here are some chapters you could add...")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestParseChapterProposalRejectsEmptyChapters(t *testing.T) {
	_, err := ParseChapterProposal(`{"chapters": []}`)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestParseChapterProposalRejectsUntitledChapter(t *testing.T) {
	_, err := ParseChapterProposal(`{"chapters": [{"title": "  ", "topics": []}]}`)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCleanModelJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"{\"a\":1}":               `{"a":1}`,
		"  \n{\"a\":1}\n  ":       `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanModelJSON(in))
	}
}
