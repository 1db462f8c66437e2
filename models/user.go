package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// UUIDList is an ordered list of ids stored as jsonb.
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	return json.Marshal(l)
}

func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into UUIDList", value)
	}
	return json.Unmarshal(raw, l)
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string    `gorm:"size:150;not null" json:"full_name"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url,omitempty"`

	// Ordered subject subscriptions, user-chosen display order.
	SubjectOrder UUIDList `gorm:"type:jsonb;not null;default:'[]'" json:"subject_order"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddSubjectRef appends a subject id to the subscription list. Adding an id
// that is already present is a no-op; reports whether the list changed.
func (u *User) AddSubjectRef(id uuid.UUID) bool {
	for _, existing := range u.SubjectOrder {
		if existing == id {
			return false
		}
	}
	u.SubjectOrder = append(u.SubjectOrder, id)
	return true
}

// SetSubjectOrder replaces the subscription list wholesale, dropping
// duplicates while keeping the first occurrence.
func (u *User) SetSubjectOrder(ids []uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(ids))
	order := make(UUIDList, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	u.SubjectOrder = order
}

// PruneSubjectRefs drops references to subjects that no longer exist.
// Reports whether anything was removed so the caller knows to persist.
func (u *User) PruneSubjectRefs(existing map[uuid.UUID]bool) bool {
	kept := make(UUIDList, 0, len(u.SubjectOrder))
	for _, id := range u.SubjectOrder {
		if existing[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(u.SubjectOrder) {
		return false
	}
	u.SubjectOrder = kept
	return true
}
