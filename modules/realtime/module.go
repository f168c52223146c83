package realtime

import (
	"context"

	"volunteer-events-api/core/cache"
	eventservice "volunteer-events-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init registers the websocket feed and starts the change listener.
func Init(ctx context.Context, e *echo.Echo, events eventservice.EventServiceInterface) *Hub {
	hub := NewHub(events, cache.GetCache())
	go hub.Run(ctx)

	e.GET("/api/v1/ws/events", hub.Handle)
	return hub
}
