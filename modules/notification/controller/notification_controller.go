package controller

import (
	"volunteer-events-api/core/controller"
	"volunteer-events-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

// ListNotifications handles GET /private/notifications.
func (c *NotificationController) ListNotifications(ctx echo.Context) error {
	notifications, appErr := c.NotificationService.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, notifications, "Success")
}

// ClearNotifications handles DELETE /private/notifications.
func (c *NotificationController) ClearNotifications(ctx echo.Context) error {
	if appErr := c.NotificationService.Clear(ctx.Request().Context()); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Notifications cleared")
}
