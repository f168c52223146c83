package calendar

import (
	"time"

	"volunteer-events-api/core/middleware"
	"volunteer-events-api/modules/calendar/controller"
	"volunteer-events-api/modules/calendar/router"
	"volunteer-events-api/modules/calendar/service"
	eventservice "volunteer-events-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the calendar module and registers routes.
func Init(e *echo.Echo, mw *middleware.Middleware, events eventservice.EventServiceInterface, loc *time.Location) {
	svc := service.NewCalendarService(events, loc)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
}
