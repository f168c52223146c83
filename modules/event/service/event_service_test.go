package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"volunteer-events-api/core/errors"
	"volunteer-events-api/modules/event/dto"
	"volunteer-events-api/modules/event/entity"
	"volunteer-events-api/modules/event/repository"
)

// fakeEventRepository keeps events in memory and enforces the same admission
// invariants the SQL layer does.
type fakeEventRepository struct {
	events    map[uuid.UUID]*entity.Event
	attendees map[uuid.UUID][]entity.Attendee
	position  int
}

func newFakeEventRepository() *fakeEventRepository {
	return &fakeEventRepository{
		events:    map[uuid.UUID]*entity.Event{},
		attendees: map[uuid.UUID][]entity.Attendee{},
	}
}

func (f *fakeEventRepository) CreateEvent(_ context.Context, event *entity.Event) (*entity.Event, error) {
	created := *event
	created.ID = uuid.New()
	created.Attendees = []entity.Attendee{}
	f.events[created.ID] = &created
	return &created, nil
}

func (f *fakeEventRepository) GetEventByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	copied.Attendees = append([]entity.Attendee{}, f.attendees[id]...)
	return &copied, nil
}

func (f *fakeEventRepository) ListEvents(_ context.Context) ([]entity.Event, error) {
	events := make([]entity.Event, 0, len(f.events))
	for id, e := range f.events {
		copied := *e
		copied.Attendees = append([]entity.Attendee{}, f.attendees[id]...)
		events = append(events, copied)
	}
	return events, nil
}

func (f *fakeEventRepository) UpdateEvent(_ context.Context, event *entity.Event) error {
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepository) DeleteEvent(_ context.Context, id uuid.UUID) error {
	delete(f.events, id)
	delete(f.attendees, id)
	return nil
}

func (f *fakeEventRepository) AdmitAttendee(_ context.Context, eventID uuid.UUID, attendee *entity.Attendee) (*entity.Attendee, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	for _, existing := range f.attendees[eventID] {
		if strings.EqualFold(existing.Email, attendee.Email) {
			return nil, repository.ErrDuplicateAttendee
		}
	}
	if event.MaxAttendees != nil && len(f.attendees[eventID]) >= *event.MaxAttendees {
		return nil, repository.ErrCapacityReached
	}

	f.position++
	created := *attendee
	created.ID = uuid.New()
	created.EventID = eventID
	created.Position = f.position
	created.SignedUpAt = time.Now()
	f.attendees[eventID] = append(f.attendees[eventID], created)
	return &created, nil
}

func (f *fakeEventRepository) GetAttendeesByEventID(_ context.Context, eventID uuid.UUID) ([]entity.Attendee, error) {
	return append([]entity.Attendee{}, f.attendees[eventID]...), nil
}

func (f *fakeEventRepository) RemoveAttendee(_ context.Context, eventID uuid.UUID, attendeeID uuid.UUID) error {
	roster := f.attendees[eventID]
	for i, a := range roster {
		if a.ID == attendeeID {
			f.attendees[eventID] = append(roster[:i], roster[i+1:]...)
			return nil
		}
	}
	return repository.ErrAttendeeNotFound
}

func (f *fakeEventRepository) SaveMetrics(_ context.Context, eventID uuid.UUID, attended *int, contacts *int, notes string) error {
	event, ok := f.events[eventID]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	event.MetricsAttended = attended
	event.MetricsContacts = contacts
	event.MetricsNotes = &notes
	event.MetricsRecordedAt = &now
	return nil
}

func newTestService(repo repository.EventRepositoryInterface) EventServiceInterface {
	return NewEventService(repo, nil, nil, nil, time.UTC)
}

func seedEvent(t *testing.T, repo *fakeEventRepository, maxAttendees *int) uuid.UUID {
	t.Helper()
	created, err := repo.CreateEvent(context.Background(), &entity.Event{
		Title:        "Tabling at Pier 39",
		Description:  "Weekend outreach table",
		Location:     "Pier 39",
		CreatorName:  "Sam",
		Date:         "2100-01-01",
		FromTime:     "09:00",
		ToTime:       "17:00",
		Category:     entity.CategoryTabling,
		MaxAttendees: maxAttendees,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return created.ID
}

func signup(name, email, shift string) *dto.SignupRequest {
	return &dto.SignupRequest{Name: name, Email: email, ShiftPreference: shift}
}

func TestAdmitSignupBlankFields(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	for _, req := range []*dto.SignupRequest{
		signup("", "alice@example.com", ""),
		signup("Alice", "", ""),
		signup("   ", "alice@example.com", ""),
	} {
		_, appErr := svc.AdmitSignup(context.Background(), eventID, req)
		if appErr == nil || appErr.Code != errors.ErrInvalidInput {
			t.Errorf("blank signup %+v should be rejected with ErrInvalidInput, got %v", req, appErr)
		}
	}

	roster, _ := repo.GetAttendeesByEventID(context.Background(), eventID)
	if len(roster) != 0 {
		t.Errorf("rejected signups must not mutate the roster, found %d attendees", len(roster))
	}
}

func TestAdmitSignupInvalidEmail(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	for _, email := range []string{"not-an-email", "a@b", "a b@c.com", "@example.com"} {
		_, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Alice", email, ""))
		if appErr == nil || appErr.Code != errors.ErrInvalidInput {
			t.Errorf("email %q should be rejected, got %v", email, appErr)
		}
	}
}

func TestAdmitSignupDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	if _, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Alice", "alice@example.com", "")); appErr != nil {
		t.Fatalf("first signup failed: %v", appErr)
	}

	_, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Alice Again", "ALICE@Example.COM", ""))
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("case-variant duplicate should be ErrAlreadyExists, got %v", appErr)
	}

	roster, _ := repo.GetAttendeesByEventID(context.Background(), eventID)
	if len(roster) != 1 {
		t.Errorf("exactly one attendee should be admitted, found %d", len(roster))
	}
}

func TestAdmitSignupCapacity(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	two := 2
	eventID := seedEvent(t, repo, &two)

	if _, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Alice", "alice@example.com", "")); appErr != nil {
		t.Fatalf("Alice should be admitted: %v", appErr)
	}
	if _, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Bob", "bob@example.com", "")); appErr != nil {
		t.Fatalf("Bob should be admitted: %v", appErr)
	}

	_, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Carol", "carol@example.com", ""))
	if appErr == nil || appErr.Code != errors.ErrEventFull {
		t.Fatalf("Carol should be rejected with ErrEventFull, got %v", appErr)
	}

	roster, _ := repo.GetAttendeesByEventID(context.Background(), eventID)
	if len(roster) != 2 {
		t.Errorf("roster should hold exactly the capacity, found %d", len(roster))
	}
}

func TestAdmitSignupUnlimitedCapacity(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	for i := 0; i < 10; i++ {
		email := string(rune('a'+i)) + "@example.com"
		if _, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Volunteer", email, "")); appErr != nil {
			t.Fatalf("unlimited event rejected signup %d: %v", i, appErr)
		}
	}
}

func TestAdmitSignupShiftPreference(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	resp, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Alice", "alice@example.com", ""))
	if appErr != nil {
		t.Fatalf("signup failed: %v", appErr)
	}
	if resp.ShiftPreference != string(entity.ShiftFull) {
		t.Errorf("missing shift should default to full, got %q", resp.ShiftPreference)
	}

	resp, appErr = svc.AdmitSignup(context.Background(), eventID, signup("Bob", "bob@example.com", "first-half"))
	if appErr != nil {
		t.Fatalf("signup failed: %v", appErr)
	}
	if resp.ShiftPreference != string(entity.ShiftFirstHalf) {
		t.Errorf("shift = %q, want first-half", resp.ShiftPreference)
	}

	_, appErr = svc.AdmitSignup(context.Background(), eventID, signup("Carol", "carol@example.com", "graveyard"))
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("unknown shift should be rejected, got %v", appErr)
	}
}

func TestAdmitSignupUnknownEvent(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)

	_, appErr := svc.AdmitSignup(context.Background(), uuid.New(), signup("Alice", "alice@example.com", ""))
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("signup for unknown event should be ErrNotFound, got %v", appErr)
	}
}

func TestRemoveAttendeeConfirmGate(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	resp, appErr := svc.AdmitSignup(context.Background(), eventID, signup("Alice", "alice@example.com", ""))
	if appErr != nil {
		t.Fatalf("signup failed: %v", appErr)
	}
	attendeeID, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("attendee id: %v", err)
	}

	appErr = svc.RemoveAttendee(context.Background(), eventID, attendeeID, false)
	if appErr == nil || appErr.Code != errors.ErrConfirmationRequired {
		t.Fatalf("unconfirmed removal should be ErrConfirmationRequired, got %v", appErr)
	}
	roster, _ := repo.GetAttendeesByEventID(context.Background(), eventID)
	if len(roster) != 1 {
		t.Fatalf("unconfirmed removal must not mutate the roster")
	}

	if appErr := svc.RemoveAttendee(context.Background(), eventID, attendeeID, true); appErr != nil {
		t.Fatalf("confirmed removal failed: %v", appErr)
	}
	roster, _ = repo.GetAttendeesByEventID(context.Background(), eventID)
	if len(roster) != 0 {
		t.Errorf("confirmed removal should empty the roster")
	}
}

func TestRemoveAttendeeKeepsOrder(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	ids := make([]uuid.UUID, 0, 3)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		resp, appErr := svc.AdmitSignup(context.Background(), eventID,
			signup(name, strings.ToLower(name)+"@example.com", ""))
		if appErr != nil {
			t.Fatalf("signup %s failed: %v", name, appErr)
		}
		id, _ := uuid.Parse(resp.ID)
		ids = append(ids, id)
	}

	if appErr := svc.RemoveAttendee(context.Background(), eventID, ids[1], true); appErr != nil {
		t.Fatalf("removal failed: %v", appErr)
	}

	roster, _ := repo.GetAttendeesByEventID(context.Background(), eventID)
	if len(roster) != 2 || roster[0].Name != "Alice" || roster[1].Name != "Carol" {
		t.Errorf("removal should keep the relative order of the rest, got %v", roster)
	}
}

func TestRemoveAttendeeUnknown(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	appErr := svc.RemoveAttendee(context.Background(), eventID, uuid.New(), true)
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("removing an unknown attendee should be ErrNotFound, got %v", appErr)
	}
}

func TestCreateEventValidation(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)

	_, appErr := svc.CreateEvent(context.Background(), &dto.CreateEventRequest{})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("empty form should fail validation, got %v", appErr)
	}
	if appErr.Details == nil {
		t.Errorf("validation failure should carry field errors")
	}
	if len(repo.events) != 0 {
		t.Errorf("invalid form must not create an event")
	}
}

func TestUpdateEventPastDateConfirm(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	req := &dto.UpdateEventRequest{
		Title:       "Tabling at Pier 39",
		Description: "Weekend outreach table",
		Location:    "Pier 39",
		CreatorName: "Sam",
		Date:        "2020-01-01",
		FromTime:    "09:00",
		ToTime:      "17:00",
	}

	_, appErr := svc.UpdateEvent(context.Background(), eventID, req)
	if appErr == nil || appErr.Code != errors.ErrConfirmationRequired {
		t.Fatalf("moving an event to the past needs confirmation, got %v", appErr)
	}

	req.ConfirmPastDate = true
	updated, appErr := svc.UpdateEvent(context.Background(), eventID, req)
	if appErr != nil {
		t.Fatalf("confirmed past-date update failed: %v", appErr)
	}
	if updated.Date != "2020-01-01" {
		t.Errorf("date = %q, want 2020-01-01", updated.Date)
	}
	if !updated.IsPast {
		t.Errorf("an event moved to 2020 should be past")
	}
}

func TestSaveMetricsNegativeCounts(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	neg := -1
	_, appErr := svc.SaveMetrics(context.Background(), eventID, &dto.SaveMetricsRequest{Attended: &neg})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("negative attended count should be rejected, got %v", appErr)
	}
}

func TestSaveMetricsRoundTrip(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	eventID := seedEvent(t, repo, nil)

	attended, contacts := 12, 30
	_, appErr := svc.SaveMetrics(context.Background(), eventID, &dto.SaveMetricsRequest{
		Attended: &attended,
		Contacts: &contacts,
		Notes:    "good turnout",
	})
	if appErr != nil {
		t.Fatalf("save metrics failed: %v", appErr)
	}

	event, _ := repo.GetEventByID(context.Background(), eventID)
	metrics := event.Metrics()
	if metrics == nil {
		t.Fatalf("metrics should be recorded")
	}
	if *metrics.Attended != 12 || *metrics.Contacts != 30 || metrics.Notes != "good turnout" {
		t.Errorf("metrics = %+v", metrics)
	}
}

func TestDeleteEventUnknown(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)

	appErr := svc.DeleteEvent(context.Background(), uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("deleting an unknown event should be ErrNotFound, got %v", appErr)
	}
}
