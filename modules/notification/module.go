package notification

import (
	"volunteer-events-api/core/database"
	"volunteer-events-api/core/middleware"
	"volunteer-events-api/modules/notification/controller"
	"volunteer-events-api/modules/notification/repository"
	"volunteer-events-api/modules/notification/router"
	"volunteer-events-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes. The service
// is returned so the event module can record feed entries through it.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
