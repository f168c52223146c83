package repository

import (
	"context"
	"database/sql"
	"errors"

	"volunteer-events-api/core/database"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/modules/event/entity"

	"github.com/google/uuid"
)

// Sentinel errors the service maps to user-facing failures.
var (
	ErrDuplicateAttendee = errors.New("email already registered for event")
	ErrCapacityReached   = errors.New("event capacity reached")
	ErrAttendeeNotFound  = errors.New("attendee not found")
)

// EventRepository handles event and attendee database operations.
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListEvents(ctx context.Context) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	AdmitAttendee(ctx context.Context, eventID uuid.UUID, attendee *entity.Attendee) (*entity.Attendee, error)
	GetAttendeesByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error)
	RemoveAttendee(ctx context.Context, eventID uuid.UUID, attendeeID uuid.UUID) error

	SaveMetrics(ctx context.Context, eventID uuid.UUID, attended *int, contacts *int, notes string) error
}

const eventColumns = `id, title, description, location, creator_name, event_date, from_time, to_time,
	       category, max_attendees, metrics_attended, metrics_contacts, metrics_notes,
	       metrics_recorded_at, created_at, updated_at`

// ===================== Event CRUD =====================

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, description, location, creator_name, event_date, from_time, to_time, category, max_attendees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.Description, event.Location, event.CreatorName,
		event.Date, event.FromTime, event.ToTime, event.Category, event.MaxAttendees)

	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	created.Attendees = []entity.Attendee{}
	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	attendees, err := r.GetAttendeesByEventID(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Attendees = attendees

	return &event, nil
}

// ListEvents returns every event with its roster, in the store's default
// order: creation time descending.
func (r *EventRepository) ListEvents(ctx context.Context) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query)
	if err != nil {
		logger.Error("EventRepository:ListEvents", err)
		return nil, err
	}

	for i := range events {
		attendees, err := r.GetAttendeesByEventID(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Attendees = attendees
	}

	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, creator_name = $5, event_date = $6,
		    from_time = $7, to_time = $8, category = $9, max_attendees = $10, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Location, event.CreatorName,
		event.Date, event.FromTime, event.ToTime, event.Category, event.MaxAttendees)

	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}

	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

// ===================== Attendees =====================

// AdmitAttendee inserts a signup inside one transaction: the event row is
// locked, the duplicate-email and capacity invariants are re-checked against
// committed state, then the row is inserted. This closes the lost-update and
// capacity races a read-modify-write of the whole roster would have.
func (r *EventRepository) AdmitAttendee(ctx context.Context, eventID uuid.UUID, attendee *entity.Attendee) (*entity.Attendee, error) {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("EventRepository:AdmitAttendee:Begin", err)
		return nil, err
	}
	defer tx.Rollback()

	var maxAttendees sql.NullInt64
	err = tx.GetContext(ctx, &maxAttendees,
		`SELECT max_attendees FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		logger.Error("EventRepository:AdmitAttendee:Lock", err)
		return nil, err
	}

	var duplicate bool
	err = tx.GetContext(ctx, &duplicate,
		`SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND LOWER(email) = LOWER($2))`,
		eventID, attendee.Email)
	if err != nil {
		logger.Error("EventRepository:AdmitAttendee:DuplicateCheck", err)
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateAttendee
	}

	if maxAttendees.Valid {
		var count int
		err = tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, eventID)
		if err != nil {
			logger.Error("EventRepository:AdmitAttendee:Count", err)
			return nil, err
		}
		if int64(count) >= maxAttendees.Int64 {
			return nil, ErrCapacityReached
		}
	}

	var created entity.Attendee
	err = tx.GetContext(ctx, &created, `
		INSERT INTO event_attendees (event_id, name, email, shift_preference)
		VALUES ($1, $2, $3, $4)
		RETURNING id, event_id, name, email, shift_preference, position, signed_up_at`,
		eventID, attendee.Name, attendee.Email, attendee.ShiftPreference)
	if err != nil {
		logger.Error("EventRepository:AdmitAttendee:Insert", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("EventRepository:AdmitAttendee:Commit", err)
		return nil, err
	}

	return &created, nil
}

// GetAttendeesByEventID returns the roster in insertion order.
func (r *EventRepository) GetAttendeesByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error) {
	query := `
		SELECT id, event_id, name, email, shift_preference, position, signed_up_at
		FROM event_attendees
		WHERE event_id = $1
		ORDER BY position
	`

	attendees := []entity.Attendee{}
	err := r.DB.SelectContext(ctx, &attendees, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetAttendeesByEventID", err)
		return nil, err
	}

	return attendees, nil
}

// RemoveAttendee deletes by identity, not position, so a concurrent signup
// cannot shift the target under the admin's feet.
func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID uuid.UUID, attendeeID uuid.UUID) error {
	result, err := r.DB.NamedExecContext(ctx,
		`DELETE FROM event_attendees WHERE id = :id AND event_id = :event_id`,
		map[string]any{"id": attendeeID, "event_id": eventID})
	if err != nil {
		logger.Error("EventRepository:RemoveAttendee", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAttendeeNotFound
	}

	return nil
}

// ===================== Metrics =====================

func (r *EventRepository) SaveMetrics(ctx context.Context, eventID uuid.UUID, attended *int, contacts *int, notes string) error {
	query := `
		UPDATE events
		SET metrics_attended = $2, metrics_contacts = $3, metrics_notes = $4,
		    metrics_recorded_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, eventID, attended, contacts, notes)
	if err != nil {
		logger.Error("EventRepository:SaveMetrics", err)
		return err
	}

	return nil
}
