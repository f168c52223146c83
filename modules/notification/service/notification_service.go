package service

import (
	"context"

	"volunteer-events-api/core/errors"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/modules/notification/entity"
	"volunteer-events-api/modules/notification/repository"

	"github.com/google/uuid"
)

const defaultListLimit = 50

// NotificationService records and serves the admin activity feed.
type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

type NotificationServiceInterface interface {
	Record(ctx context.Context, notifType string, message string, eventID *uuid.UUID)
	List(ctx context.Context) ([]entity.Notification, *errors.AppError)
	Clear(ctx context.Context) *errors.AppError
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) NotificationServiceInterface {
	return &NotificationService{repo: repo}
}

// Record writes a feed entry. Failures are logged and swallowed so a broken
// feed never blocks the operation that triggered it.
func (s *NotificationService) Record(ctx context.Context, notifType string, message string, eventID *uuid.UUID) {
	_, err := s.repo.Create(ctx, &entity.Notification{
		Type:    notifType,
		Message: message,
		EventID: eventID,
	})
	if err != nil {
		logger.Error("NotificationService:Record", err)
	}
}

func (s *NotificationService) List(ctx context.Context) ([]entity.Notification, *errors.AppError) {
	notifications, err := s.repo.List(ctx, defaultListLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) Clear(ctx context.Context) *errors.AppError {
	if err := s.repo.Clear(ctx); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to clear notifications", err)
	}
	return nil
}
