package router

import (
	"volunteer-events-api/core/middleware"
	"volunteer-events-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes.
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Volunteer-facing routes
	publicRoutes := v1.Group("/public/events")
	publicRoutes.GET("", r.EventController.ListEvents)
	publicRoutes.GET("/:id", r.EventController.GetEvent)
	publicRoutes.POST("/:id/signup", r.EventController.SignUp)

	// Admin routes
	privateRoutes := v1.Group("/private/events", mw.AuthMiddleware())
	privateRoutes.POST("", r.EventController.CreateEvent)
	privateRoutes.GET("", r.EventController.ListEventsAdmin)
	privateRoutes.GET("/:id", r.EventController.GetEventAdmin)
	privateRoutes.PUT("/:id", r.EventController.UpdateEvent)
	privateRoutes.DELETE("/:id", r.EventController.DeleteEvent)
	privateRoutes.DELETE("/:id/attendees/:attendeeId", r.EventController.RemoveAttendee)
	privateRoutes.PUT("/:id/metrics", r.EventController.SaveMetrics)
	privateRoutes.GET("/:id/roster.csv", r.EventController.ExportRoster)
}
