package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies an event.
type Category string

const (
	CategoryTabling  Category = "tabling"
	CategoryOutreach Category = "outreach"
	CategoryTraining Category = "training"
	CategoryMeeting  Category = "meeting"
	CategoryOther    Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTabling, CategoryOutreach, CategoryTraining, CategoryMeeting, CategoryOther:
		return true
	}
	return false
}

// ShiftPreference is a volunteer's declared intent for the event duration.
type ShiftPreference string

const (
	ShiftFirstHalf  ShiftPreference = "first-half"
	ShiftSecondHalf ShiftPreference = "second-half"
	ShiftFull       ShiftPreference = "full"
)

func (s ShiftPreference) Valid() bool {
	switch s {
	case ShiftFirstHalf, ShiftSecondHalf, ShiftFull:
		return true
	}
	return false
}

// Event is a scheduled volunteer opportunity. Date is a calendar date
// (YYYY-MM-DD) and FromTime/ToTime are zero-padded 24-hour HH:MM strings,
// all interpreted in the organization's local time zone.
type Event struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Location     string    `db:"location" json:"location"`
	CreatorName  string    `db:"creator_name" json:"creator_name"`
	Date         string    `db:"event_date" json:"date"`
	FromTime     string    `db:"from_time" json:"from_time"`
	ToTime       string    `db:"to_time" json:"to_time"`
	Category     Category  `db:"category" json:"category"`
	MaxAttendees *int      `db:"max_attendees" json:"max_attendees,omitempty"`

	MetricsAttended   *int       `db:"metrics_attended" json:"-"`
	MetricsContacts   *int       `db:"metrics_contacts" json:"-"`
	MetricsNotes      *string    `db:"metrics_notes" json:"-"`
	MetricsRecordedAt *time.Time `db:"metrics_recorded_at" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Attendees []Attendee `db:"-" json:"attendees"`
}

// Attendee is a volunteer's signup record embedded in an event roster.
type Attendee struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	EventID         uuid.UUID       `db:"event_id" json:"event_id"`
	Name            string          `db:"name" json:"name"`
	Email           string          `db:"email" json:"email"`
	ShiftPreference ShiftPreference `db:"shift_preference" json:"shift_preference"`
	Position        int             `db:"position" json:"-"`
	SignedUpAt      time.Time       `db:"signed_up_at" json:"signed_up_at"`
}

// PostEventMetrics holds post-event counts and notes.
type PostEventMetrics struct {
	Attended   *int      `json:"attended,omitempty"`
	Contacts   *int      `json:"contacts,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Metrics assembles the metrics record, or nil when none has been saved.
func (e *Event) Metrics() *PostEventMetrics {
	if e.MetricsRecordedAt == nil {
		return nil
	}
	m := &PostEventMetrics{
		Attended:   e.MetricsAttended,
		Contacts:   e.MetricsContacts,
		RecordedAt: *e.MetricsRecordedAt,
	}
	if e.MetricsNotes != nil {
		m.Notes = *e.MetricsNotes
	}
	return m
}

// IsFull reports whether the capacity ceiling is set and reached.
// Derived, never stored.
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && len(e.Attendees) >= *e.MaxAttendees
}

// ProgressRatio returns attendees/capacity, or 0 when capacity is unlimited.
// Used only for display thresholds, never for control decisions.
func (e *Event) ProgressRatio() float64 {
	if e.MaxAttendees == nil || *e.MaxAttendees == 0 {
		return 0
	}
	return float64(len(e.Attendees)) / float64(*e.MaxAttendees)
}
