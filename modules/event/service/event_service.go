package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/tasks"
	"volunteer-events-api/modules/event/dto"
	"volunteer-events-api/modules/event/entity"
	"volunteer-events-api/modules/event/repository"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Notifier records entries on the admin activity feed.
type Notifier interface {
	Record(ctx context.Context, notifType string, message string, eventID *uuid.UUID)
}

// EventService handles event business logic.
type EventService struct {
	repo     repository.EventRepositoryInterface
	cache    cache.ICache
	tasks    tasks.ITaskClient
	notifier Notifier
	loc      *time.Location
}

// EventServiceInterface defines the service contract.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEventByID(ctx context.Context, id uuid.UUID, includeEmails bool) (*dto.EventResponse, *errors.AppError)
	ListCategorized(ctx context.Context, includeEmails bool) (*dto.CategorizedEventsResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID uuid.UUID) *errors.AppError
	AdmitSignup(ctx context.Context, eventID uuid.UUID, req *dto.SignupRequest) (*dto.AttendeeResponse, *errors.AppError)
	RemoveAttendee(ctx context.Context, eventID uuid.UUID, attendeeID uuid.UUID, confirmed bool) *errors.AppError
	SaveMetrics(ctx context.Context, eventID uuid.UUID, req *dto.SaveMetricsRequest) (*dto.EventResponse, *errors.AppError)
	RawEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError)
}

// NewEventService creates a new event service. Events are scheduled in loc.
func NewEventService(repo repository.EventRepositoryInterface, c cache.ICache, t tasks.ITaskClient, n Notifier, loc *time.Location) EventServiceInterface {
	if loc == nil {
		loc = time.Local
	}
	return &EventService{
		repo:     repo,
		cache:    c,
		tasks:    t,
		notifier: n,
		loc:      loc,
	}
}

// CreateEvent validates the creation form and publishes a new event with an
// empty roster. A past date always blocks creation.
func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	now := time.Now().In(s.loc)
	result := ValidateEventForm(EventForm{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		CreatorName:  req.CreatorName,
		Date:         req.Date,
		FromTime:     req.FromTime,
		ToTime:       req.ToTime,
		Category:     req.Category,
		MaxAttendees: req.MaxAttendees,
	}, now, FormModeCreate)
	if !result.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Validation failed", nil).WithDetails(result.Errors)
	}

	event := &entity.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		CreatorName:  req.CreatorName,
		Date:         req.Date,
		FromTime:     req.FromTime,
		ToTime:       req.ToTime,
		Category:     result.Category,
		MaxAttendees: result.MaxAttendees,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	if s.notifier != nil {
		s.notifier.Record(ctx, "event_created",
			fmt.Sprintf("New event: %s on %s", created.Title, created.Date), &created.ID)
	}
	s.scheduleReminder(ctx, created)
	s.publishChanged(ctx, created.ID)

	return dto.ToEventResponse(created, IsPast(created, now), true, constants.NearlyFullThreshold), nil
}

func (s *EventService) GetEventByID(ctx context.Context, id uuid.UUID, includeEmails bool) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	now := time.Now().In(s.loc)
	return dto.ToEventResponse(event, IsPast(event, now), includeEmails, constants.NearlyFullThreshold), nil
}

// ListCategorized partitions the full event list into upcoming and past.
func (s *EventService) ListCategorized(ctx context.Context, includeEmails bool) (*dto.CategorizedEventsResponse, *errors.AppError) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	now := time.Now().In(s.loc)
	categorized := Categorize(events, now)

	resp := &dto.CategorizedEventsResponse{
		Upcoming: make([]dto.EventResponse, 0, len(categorized.Upcoming)),
		Past:     make([]dto.EventResponse, 0, len(categorized.Past)),
	}
	for i := range categorized.Upcoming {
		resp.Upcoming = append(resp.Upcoming,
			*dto.ToEventResponse(&categorized.Upcoming[i], false, includeEmails, constants.NearlyFullThreshold))
	}
	for i := range categorized.Past {
		resp.Past = append(resp.Past,
			*dto.ToEventResponse(&categorized.Past[i], true, includeEmails, constants.NearlyFullThreshold))
	}

	return resp, nil
}

// UpdateEvent replaces every mutable field. Moving an existing event to a
// past date is allowed, but only with an explicit override confirmation.
func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	now := time.Now().In(s.loc)
	result := ValidateEventForm(EventForm{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		CreatorName:  req.CreatorName,
		Date:         req.Date,
		FromTime:     req.FromTime,
		ToTime:       req.ToTime,
		Category:     req.Category,
		MaxAttendees: req.MaxAttendees,
	}, now, FormModeEdit)
	if !result.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Validation failed", nil).WithDetails(result.Errors)
	}
	if result.NeedsPastDateConfirm && !req.ConfirmPastDate {
		return nil, errors.NewAppError(errors.ErrConfirmationRequired,
			"You are setting a date in the past. Confirm to continue.", nil)
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.CreatorName = req.CreatorName
	event.Date = req.Date
	event.FromTime = req.FromTime
	event.ToTime = req.ToTime
	event.Category = result.Category
	event.MaxAttendees = result.MaxAttendees

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	s.publishChanged(ctx, eventID)
	return s.GetEventByID(ctx, eventID, true)
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID) *errors.AppError {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	s.publishChanged(ctx, eventID)
	return nil
}

// AdmitSignup validates and records a signup attempt. Precedence: blank
// fields, malformed email, duplicate email, then capacity. Duplicate and
// capacity are re-checked atomically at the storage layer.
func (s *EventService) AdmitSignup(ctx context.Context, eventID uuid.UUID, req *dto.SignupRequest) (*dto.AttendeeResponse, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" || email == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Name and email are required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Please enter a valid email address", nil)
	}

	shift := entity.ShiftFull
	if req.ShiftPreference != "" {
		shift = entity.ShiftPreference(req.ShiftPreference)
		if !shift.Valid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown shift preference", nil)
		}
	}

	attendee := &entity.Attendee{
		Name:            name,
		Email:           email,
		ShiftPreference: shift,
	}

	created, err := s.repo.AdmitAttendee(ctx, eventID, attendee)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		case repository.ErrDuplicateAttendee:
			return nil, errors.NewAppError(errors.ErrAlreadyExists,
				"This email address is already registered for this event", nil)
		case repository.ErrCapacityReached:
			return nil, errors.NewAppError(errors.ErrEventFull, "This event is full", nil)
		default:
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to sign up", err)
		}
	}

	event, getErr := s.repo.GetEventByID(ctx, eventID)
	if getErr == nil && event != nil {
		if s.notifier != nil {
			s.notifier.Record(ctx, "signup",
				fmt.Sprintf("%s signed up for %s", created.Name, event.Title), &eventID)
		}
		if s.tasks != nil {
			taskErr := s.tasks.EnqueueSignupConfirmation(ctx, tasks.SignupConfirmationPayload{
				EventID:       eventID.String(),
				EventTitle:    event.Title,
				AttendeeName:  created.Name,
				AttendeeEmail: created.Email,
				Shift:         string(created.ShiftPreference),
			})
			if taskErr != nil {
				logger.Error("EventService:AdmitSignup:EnqueueSignupConfirmation:Error:", taskErr)
			}
		}
	}
	s.publishChanged(ctx, eventID)

	return dto.ToAttendeeResponse(created), nil
}

// RemoveAttendee removes a volunteer from the roster. The confirmation gate
// is explicit: unconfirmed requests never mutate anything.
func (s *EventService) RemoveAttendee(ctx context.Context, eventID uuid.UUID, attendeeID uuid.UUID, confirmed bool) *errors.AppError {
	if !confirmed {
		return errors.NewAppError(errors.ErrConfirmationRequired,
			"Removal must be confirmed", nil)
	}

	err := s.repo.RemoveAttendee(ctx, eventID, attendeeID)
	if err != nil {
		if err == repository.ErrAttendeeNotFound {
			return errors.NewAppError(errors.ErrNotFound, "Attendee not found", nil)
		}
		return errors.NewAppError(errors.ErrInternalServer, "Failed to remove attendee", err)
	}

	s.publishChanged(ctx, eventID)
	return nil
}

// SaveMetrics records post-event counts and notes. Metrics may be saved
// before the event ends, but they are only surfaced for past events.
func (s *EventService) SaveMetrics(ctx context.Context, eventID uuid.UUID, req *dto.SaveMetricsRequest) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if req.Attended != nil && *req.Attended < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Attended count cannot be negative", nil)
	}
	if req.Contacts != nil && *req.Contacts < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Contacts count cannot be negative", nil)
	}

	if err := s.repo.SaveMetrics(ctx, eventID, req.Attended, req.Contacts, req.Notes); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save metrics", err)
	}

	s.publishChanged(ctx, eventID)
	return s.GetEventByID(ctx, eventID, true)
}

// RawEvent returns the entity for collaborators that need the full record
// (roster export, calendar feed).
func (s *EventService) RawEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}

func (s *EventService) scheduleReminder(ctx context.Context, event *entity.Event) {
	if s.tasks == nil {
		return
	}
	start, ok := localDateTime(event.Date, event.FromTime, s.loc)
	if !ok {
		return
	}

	err := s.tasks.EnqueueEventReminder(ctx, tasks.EventReminderPayload{
		EventID:    event.ID.String(),
		EventTitle: event.Title,
		Date:       event.Date,
		FromTime:   event.FromTime,
	}, start.Add(-constants.ReminderLeadTime))
	if err != nil {
		logger.Error("EventService:ScheduleReminder:Error:", err)
	}
}

// publishChanged notifies the realtime feed that the event list changed.
func (s *EventService) publishChanged(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Publish(ctx, constants.RedisChannelEvents, eventID.String()); err != nil {
		logger.Error("EventService:PublishChanged:Error:", err)
	}
}
