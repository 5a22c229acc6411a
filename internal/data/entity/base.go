package entity

import (
	"errors"
	"time"
)

// Base carries the fields every persisted record shares.
type Base struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (b Base) RecordID() string {
	return b.ID
}

// Timestamp exposes the sortable time fields by their JSON name.
func (b Base) Timestamp(field string) (time.Time, bool) {
	switch field {
	case "createdAt":
		return b.CreatedAt, !b.CreatedAt.IsZero()
	case "updatedAt":
		if b.UpdatedAt == nil {
			return time.Time{}, false
		}
		return *b.UpdatedAt, true
	}
	return time.Time{}, false
}

func (b Base) validate() error {
	if b.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// Touch stamps UpdatedAt.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = &now
}
