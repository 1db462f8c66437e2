package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/utils"
)

// Chapter proposals come back from Gemini as untrusted text. They are parsed
// and shape-checked here; nothing reaches the syllabus tree on a parse
// failure.

func chapterPrompt(subjectName, unitTitle string, unitNumber int, guidance, sourceText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an AI that drafts syllabus content for an educational platform.
Propose chapters (each with its topics) for unit %d ("%s") of the subject "%s".

Requirements:
- Each chapter has "title", "description" and a "topics" array.
- Each topic has "title", "description" and a short "content" body.
- 1 to 5 chapters, 2 to 6 topics per chapter.

Return valid JSON with exactly this structure:
{
  "chapters": [
    {
      "title": "...",
      "description": "...",
      "topics": [
        {"title": "...", "description": "...", "content": "..."}
      ]
    }
  ]
}

Return only valid JSON, no other text.
`, unitNumber, unitTitle, subjectName)

	if guidance != "" {
		fmt.Fprintf(&sb, "\nAuthor guidance:\n%s\n", guidance)
	}
	if sourceText != "" {
		if len(sourceText) > 8000 {
			sourceText = sourceText[:8000]
		}
		fmt.Fprintf(&sb, "\nBase the proposal on this source material:\n%s\n", sourceText)
	}
	return sb.String()
}

// ParseChapterProposal validates the model output as {"chapters": [...]}.
func ParseChapterProposal(raw string) ([]models.ChapterDraft, error) {
	clean := CleanModelJSON(raw)

	var out struct {
		Chapters []models.ChapterDraft `json:"chapters"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %v: %w", err, utils.ErrValidation)
	}
	if len(out.Chapters) == 0 {
		return nil, fmt.Errorf("model returned no chapters: %w", utils.ErrValidation)
	}
	for i, ch := range out.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			return nil, fmt.Errorf("chapter %d has no title: %w", i+1, utils.ErrValidation)
		}
	}
	return out.Chapters, nil
}

// GenerateChapterProposal asks Gemini for chapter drafts for a unit.
// UpstreamFailure is retryable by the caller; ValidationFailure means the
// model answered with something unusable.
func GenerateChapterProposal(ctx context.Context, subject *models.Subject, unitNumber int, guidance, sourceText string) ([]models.ChapterDraft, error) {
	unit := subject.FindUnit(unitNumber)
	if unit == nil {
		return nil, fmt.Errorf("unit %d not found on subject %q: %w", unitNumber, subject.Name, utils.ErrNotFound)
	}

	raw, err := GeminiGenerateText(ctx, chapterPrompt(subject.Name, unit.Title, unitNumber, guidance, sourceText))
	if err != nil {
		return nil, err
	}
	return ParseChapterProposal(raw)
}
