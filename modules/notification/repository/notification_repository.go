package repository

import (
	"context"

	"volunteer-events-api/core/database"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/modules/notification/entity"
)

// NotificationRepository handles notification database operations.
type NotificationRepository struct {
	DB database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	List(ctx context.Context, limit int) ([]entity.Notification, error)
	Clear(ctx context.Context) error
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	query := `
		INSERT INTO notifications (type, message, event_id)
		VALUES ($1, $2, $3)
		RETURNING id, type, message, event_id, created_at
	`

	var created entity.Notification
	var eventID any
	if n.EventID != nil {
		eventID = *n.EventID
	}
	err := r.DB.GetContext(ctx, &created, query, n.Type, n.Message, eventID)
	if err != nil {
		logger.Error("NotificationRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

// List returns notifications newest first.
func (r *NotificationRepository) List(ctx context.Context, limit int) ([]entity.Notification, error) {
	query := `
		SELECT id, type, message, event_id, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	notifications := []entity.Notification{}
	err := r.DB.SelectContext(ctx, &notifications, query, limit)
	if err != nil {
		logger.Error("NotificationRepository:List", err)
		return nil, err
	}

	return notifications, nil
}

func (r *NotificationRepository) Clear(ctx context.Context) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		logger.Error("NotificationRepository:Clear", err)
		return err
	}
	return nil
}
