package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtnghia/syllabus-backend/utils"
)

// The whole Unit/Chapter/Topic tree of a subject lives in a single jsonb
// column, so every structural change is one whole-aggregate write.

type Topic struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	Content     string    `json:"content,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
}

type Chapter struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	Topics      []Topic   `json:"topics"`
}

type Unit struct {
	UnitNumber int       `json:"unit_number"`
	Title      string    `json:"title"`
	Chapters   []Chapter `json:"chapters"`
}

type UnitList []Unit

func (ul UnitList) Value() (driver.Value, error) {
	if ul == nil {
		ul = UnitList{}
	}
	return json.Marshal(ul)
}

func (ul *UnitList) Scan(value interface{}) error {
	if value == nil {
		*ul = UnitList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into UnitList", value)
	}
	return json.Unmarshal(raw, ul)
}

type Subject struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      *string   `gorm:"size:50;uniqueIndex" json:"code,omitempty"`
	Branch    string    `gorm:"size:100" json:"branch"`
	Year      int       `json:"year"`
	ImageURL  string    `gorm:"type:text" json:"image_url,omitempty"`
	Units     UnitList  `gorm:"type:jsonb;not null;default:'[]'" json:"units"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Draft shapes for proposed chapters/topics. Order indexes are never taken
// from drafts; the tree assigns them on insertion.
type TopicDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

type ChapterDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Topics      []TopicDraft `json:"topics"`
}

// FindUnit returns the unit with the given number, or nil.
func (s *Subject) FindUnit(unitNumber int) *Unit {
	for i := range s.Units {
		if s.Units[i].UnitNumber == unitNumber {
			return &s.Units[i]
		}
	}
	return nil
}

// FindTopic walks the tree looking for a topic id.
func (s *Subject) FindTopic(topicID uuid.UUID) *Topic {
	for i := range s.Units {
		for j := range s.Units[i].Chapters {
			for k := range s.Units[i].Chapters[j].Topics {
				if s.Units[i].Chapters[j].Topics[k].ID == topicID {
					return &s.Units[i].Chapters[j].Topics[k]
				}
			}
		}
	}
	return nil
}

// TopicCount returns the number of topics across the whole tree.
func (s *Subject) TopicCount() int {
	n := 0
	for i := range s.Units {
		for j := range s.Units[i].Chapters {
			n += len(s.Units[i].Chapters[j].Topics)
		}
	}
	return n
}

// AddUnit appends a new empty unit and keeps the unit list sorted by
// unit_number. Unit numbers must be unique within a subject.
func (s *Subject) AddUnit(unitNumber int, title string) (*Unit, error) {
	if s.FindUnit(unitNumber) != nil {
		return nil, fmt.Errorf("unit %d already exists on subject %q: %w", unitNumber, s.Name, utils.ErrConflict)
	}
	s.Units = append(s.Units, Unit{
		UnitNumber: unitNumber,
		Title:      title,
		Chapters:   []Chapter{},
	})
	sort.SliceStable(s.Units, func(i, j int) bool {
		return s.Units[i].UnitNumber < s.Units[j].UnitNumber
	})
	return s.FindUnit(unitNumber), nil
}

// AddChapters appends the drafted chapters to the given unit. Chapter
// order_index continues after the existing chapters; topics inside each new
// chapter are re-indexed from 1 no matter what the draft carried. Every new
// chapter and topic gets a fresh id here, never from the caller.
func (s *Subject) AddChapters(unitNumber int, drafts []ChapterDraft) ([]Chapter, error) {
	unit := s.FindUnit(unitNumber)
	if unit == nil {
		return nil, fmt.Errorf("unit %d not found on subject %q: %w", unitNumber, s.Name, utils.ErrNotFound)
	}

	base := len(unit.Chapters)
	added := make([]Chapter, 0, len(drafts))
	for i, draft := range drafts {
		chapter := Chapter{
			ID:          uuid.New(),
			Title:       draft.Title,
			Description: draft.Description,
			OrderIndex:  base + i + 1,
			Topics:      make([]Topic, 0, len(draft.Topics)),
		}
		for j, t := range draft.Topics {
			chapter.Topics = append(chapter.Topics, Topic{
				ID:          uuid.New(),
				Title:       t.Title,
				Description: t.Description,
				OrderIndex:  j + 1,
				Content:     t.Content,
			})
		}
		unit.Chapters = append(unit.Chapters, chapter)
		added = append(added, chapter)
	}
	return added, nil
}
