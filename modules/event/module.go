package event

import (
	"time"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/database"
	"volunteer-events-api/core/middleware"
	"volunteer-events-api/core/tasks"
	"volunteer-events-api/modules/event/controller"
	"volunteer-events-api/modules/event/repository"
	"volunteer-events-api/modules/event/router"
	"volunteer-events-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes. The event service
// is returned so other modules (calendar feed, realtime hub) can read events
// through it.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware,
	notifier service.Notifier, loc *time.Location) service.EventServiceInterface {

	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, cache.GetCache(), tasks.GetClient(), notifier, loc)
	export := service.NewExportService(svc)
	ctrl := controller.NewEventController(svc, export)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
