package service

import (
	"context"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"volunteer-events-api/core/errors"
	eventservice "volunteer-events-api/modules/event/service"
)

// CalendarService renders events as iCalendar files volunteers can import.
type CalendarService struct {
	events eventservice.EventServiceInterface
	loc    *time.Location
}

type CalendarServiceInterface interface {
	EventICS(ctx context.Context, eventID uuid.UUID) (string, *errors.AppError)
}

func NewCalendarService(events eventservice.EventServiceInterface, loc *time.Location) CalendarServiceInterface {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarService{events: events, loc: loc}
}

// EventICS builds a single-VEVENT calendar for the given event. Events with an
// unparseable schedule get an all-day entry on their stored date.
func (s *CalendarService) EventICS(ctx context.Context, eventID uuid.UUID) (string, *errors.AppError) {
	event, appErr := s.events.RawEvent(ctx, eventID)
	if appErr != nil {
		return "", appErr
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//volunteer-events-api//EN")

	ve := cal.AddEvent(event.ID.String())
	ve.SetDtStampTime(time.Now().In(s.loc))
	ve.SetSummary(event.Title)
	if event.Location != "" {
		ve.SetLocation(event.Location)
	}
	if event.Description != "" {
		ve.SetDescription(event.Description)
	}

	var start, end time.Time
	var startOK, endOK bool
	if event.FromTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.FromTime, s.loc); err == nil {
			start, startOK = t, true
		}
	}
	if event.ToTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.ToTime, s.loc); err == nil {
			end, endOK = t, true
		}
	}

	if startOK && endOK {
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	} else if day, err := time.ParseInLocation("2006-01-02", event.Date, s.loc); err == nil {
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	return cal.Serialize(), nil
}
