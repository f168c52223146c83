package router

import (
	"volunteer-events-api/core/middleware"
	"volunteer-events-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes.
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/notifications", mw.AuthMiddleware())
	privateRoutes.GET("", r.NotificationController.ListNotifications)
	privateRoutes.DELETE("", r.NotificationController.ClearNotifications)
}
