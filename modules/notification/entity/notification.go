package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an activity-feed entry shown to admins. EventID is nil for
// entries that outlive their event.
type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Type      string     `json:"type" db:"type"`
	Message   string     `json:"message" db:"message"`
	EventID   *uuid.UUID `json:"eventId,omitempty" db:"event_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
