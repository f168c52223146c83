package dto

import (
	"time"

	"volunteer-events-api/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for publishing a new event. MaxAttendees is a string so
// an empty value can normalize to "unlimited" rather than zero.
type CreateEventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	CreatorName  string `json:"creator_name"`
	Date         string `json:"date"`      // YYYY-MM-DD
	FromTime     string `json:"from_time"` // HH:MM
	ToTime       string `json:"to_time"`   // HH:MM
	Category     string `json:"category"`
	MaxAttendees string `json:"max_attendees"`
}

// UpdateEventRequest for admin edits. Setting a past date requires
// ConfirmPastDate; creation never allows one.
type UpdateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	CreatorName     string `json:"creator_name"`
	Date            string `json:"date"`
	FromTime        string `json:"from_time"`
	ToTime          string `json:"to_time"`
	Category        string `json:"category"`
	MaxAttendees    string `json:"max_attendees"`
	ConfirmPastDate bool   `json:"confirm_past_date"`
}

// SignupRequest for a volunteer admission attempt.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	ShiftPreference string `json:"shift_preference"`
}

// SaveMetricsRequest records post-event counts and notes.
type SaveMetricsRequest struct {
	Attended *int   `json:"attended"`
	Contacts *int   `json:"contacts"`
	Notes    string `json:"notes"`
}

// ===================== Response DTOs =====================

type AttendeeResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	ShiftPreference string    `json:"shift_preference"`
	SignedUpAt      time.Time `json:"signed_up_at"`
}

type MetricsResponse struct {
	Attended   *int      `json:"attended,omitempty"`
	Contacts   *int      `json:"contacts,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type EventResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Location      string             `json:"location"`
	CreatorName   string             `json:"creator_name"`
	Date          string             `json:"date"`
	FromTime      string             `json:"from_time"`
	ToTime        string             `json:"to_time"`
	Category      string             `json:"category"`
	MaxAttendees  *int               `json:"max_attendees,omitempty"`
	Attendees     []AttendeeResponse `json:"attendees"`
	AttendeeCount int                `json:"attendee_count"`
	IsPast        bool               `json:"is_past"`
	IsFull        bool               `json:"is_full"`
	NearlyFull    bool               `json:"nearly_full"`
	Metrics       *MetricsResponse   `json:"post_event_metrics,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

type CategorizedEventsResponse struct {
	Upcoming []EventResponse `json:"upcoming"`
	Past     []EventResponse `json:"past"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO. Attendee emails are redacted unless the
// caller is an admin; metrics are surfaced only for past events.
func ToEventResponse(e *entity.Event, isPast bool, includeEmails bool, nearlyFullAt float64) *EventResponse {
	resp := &EventResponse{
		ID:            e.ID.String(),
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		CreatorName:   e.CreatorName,
		Date:          e.Date,
		FromTime:      e.FromTime,
		ToTime:        e.ToTime,
		Category:      string(e.Category),
		MaxAttendees:  e.MaxAttendees,
		Attendees:     make([]AttendeeResponse, 0, len(e.Attendees)),
		AttendeeCount: len(e.Attendees),
		IsPast:        isPast,
		IsFull:        e.IsFull(),
		NearlyFull:    e.MaxAttendees != nil && e.ProgressRatio() > nearlyFullAt,
		CreatedAt:     e.CreatedAt,
	}

	for _, a := range e.Attendees {
		ar := AttendeeResponse{
			ID:              a.ID.String(),
			Name:            a.Name,
			ShiftPreference: string(a.ShiftPreference),
			SignedUpAt:      a.SignedUpAt,
		}
		if includeEmails {
			ar.Email = a.Email
		}
		resp.Attendees = append(resp.Attendees, ar)
	}

	if isPast {
		if m := e.Metrics(); m != nil {
			resp.Metrics = &MetricsResponse{
				Attended:   m.Attended,
				Contacts:   m.Contacts,
				Notes:      m.Notes,
				RecordedAt: m.RecordedAt,
			}
		}
	}

	return resp
}

// ToAttendeeResponse maps a single attendee with email included.
func ToAttendeeResponse(a *entity.Attendee) *AttendeeResponse {
	return &AttendeeResponse{
		ID:              a.ID.String(),
		Name:            a.Name,
		Email:           a.Email,
		ShiftPreference: string(a.ShiftPreference),
		SignedUpAt:      a.SignedUpAt,
	}
}
