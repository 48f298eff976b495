package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// Member represents a single club directory entry.
type Member struct {
	Seq        uint       `json:"-" gorm:"primaryKey;autoIncrement"` // insertion order for SQL stores
	ID         string     `json:"id" gorm:"column:member_id;size:5;uniqueIndex;not null"`
	Name       string     `json:"name" gorm:"size:255;not null;index"`
	Age        *int       `json:"age,omitempty"`
	Rating     *int       `json:"rating,omitempty" gorm:"index"`
	Activities Activities `json:"activities" gorm:"type:text"`
}

// Clone returns a deep copy so callers never alias stored slices.
func (m Member) Clone() Member {
	out := m
	if m.Age != nil {
		age := *m.Age
		out.Age = &age
	}
	if m.Rating != nil {
		rating := *m.Rating
		out.Rating = &rating
	}
	out.Activities = slices.Clone(m.Activities)
	if out.Activities == nil {
		out.Activities = Activities{}
	}
	return out
}

// HasActivity reports whether the member lists the given activity.
func (m Member) HasActivity(activity string) bool {
	return slices.Contains(m.Activities, activity)
}

// Activities is a list of activity tags stored as a JSON text column.
type Activities []string

// MarshalJSON encodes a nil list as [] so clients always see an array.
func (a Activities) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// Value implements driver.Valuer.
func (a Activities) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *Activities) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Activities{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan activities: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan activities: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*a = out
	return nil
}

// MemberPatch holds the fields supplied in a partial update. A nil field
// was not present in the request and leaves the stored value untouched.
type MemberPatch struct {
	Name       *string
	Age        *int
	Rating     *int
	Activities *Activities
}

// IsEmpty reports whether the patch carries no fields.
func (p MemberPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Rating == nil && p.Activities == nil
}

// ApplyTo shallow-merges the patch over m. Present fields replace the stored
// values wholesale, lists included.
func (p MemberPatch) ApplyTo(m *Member) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Age != nil {
		age := *p.Age
		m.Age = &age
	}
	if p.Rating != nil {
		rating := *p.Rating
		m.Rating = &rating
	}
	if p.Activities != nil {
		m.Activities = slices.Clone(*p.Activities)
		if m.Activities == nil {
			m.Activities = Activities{}
		}
	}
}
