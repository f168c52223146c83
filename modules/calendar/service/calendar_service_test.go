package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"volunteer-events-api/core/errors"
	"volunteer-events-api/modules/event/dto"
	"volunteer-events-api/modules/event/entity"
)

// stubEventService serves a single event for RawEvent; the calendar service
// uses nothing else.
type stubEventService struct {
	event *entity.Event
}

func (s *stubEventService) RawEvent(_ context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	if s.event == nil || s.event.ID != eventID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return s.event, nil
}

func (s *stubEventService) CreateEvent(context.Context, *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) GetEventByID(context.Context, uuid.UUID, bool) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) ListCategorized(context.Context, bool) (*dto.CategorizedEventsResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) UpdateEvent(context.Context, uuid.UUID, *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) DeleteEvent(context.Context, uuid.UUID) *errors.AppError {
	panic("not used")
}
func (s *stubEventService) AdmitSignup(context.Context, uuid.UUID, *dto.SignupRequest) (*dto.AttendeeResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) RemoveAttendee(context.Context, uuid.UUID, uuid.UUID, bool) *errors.AppError {
	panic("not used")
}
func (s *stubEventService) SaveMetrics(context.Context, uuid.UUID, *dto.SaveMetricsRequest) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}

func TestEventICS(t *testing.T) {
	event := &entity.Event{
		ID:          uuid.New(),
		Title:       "Beach Cleanup",
		Description: "Monthly cleanup",
		Location:    "Ocean Beach",
		Date:        "2026-09-15",
		FromTime:    "09:00",
		ToTime:      "12:00",
	}
	svc := NewCalendarService(&stubEventService{event: event}, time.UTC)

	payload, appErr := svc.EventICS(context.Background(), event.ID)
	if appErr != nil {
		t.Fatalf("EventICS failed: %v", appErr)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Beach Cleanup",
		"LOCATION:Ocean Beach",
		"DTSTART:20260915T090000Z",
		"DTEND:20260915T120000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("ICS payload missing %q:\n%s", want, payload)
		}
	}
}

func TestEventICSUnknownEvent(t *testing.T) {
	svc := NewCalendarService(&stubEventService{}, time.UTC)

	_, appErr := svc.EventICS(context.Background(), uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("unknown event should be ErrNotFound, got %v", appErr)
	}
}
