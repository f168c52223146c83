package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/modules/event/dto"
	eventservice "volunteer-events-api/modules/event/service"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Hub pushes the categorized event listing to connected clients whenever any
// event changes. Clients get a snapshot on connect and a fresh listing on
// every change notification.
type Hub struct {
	events eventservice.EventServiceInterface
	cache  cache.ICache

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client wraps a connection with a write lock. The websocket library forbids
// concurrent writers, and the snapshot write races the broadcast loop without
// this serialization.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// feedMessage is the wire format pushed to clients.
type feedMessage struct {
	Type   string                         `json:"type"`
	Events *dto.CategorizedEventsResponse `json:"events"`
}

func NewHub(events eventservice.EventServiceInterface, c cache.ICache) *Hub {
	return &Hub{
		events:  events,
		cache:   c,
		clients: make(map[*client]struct{}),
	}
}

// Run consumes change notifications until ctx is cancelled. Call in a
// goroutine at startup.
func (h *Hub) Run(ctx context.Context) {
	if h.cache == nil {
		return
	}
	ch := h.cache.Subscribe(ctx, constants.RedisChannelEvents)
	for range ch {
		h.broadcast(ctx)
	}
}

// Handle upgrades the request and registers the connection.
func (h *Hub) Handle(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		logger.Error("Hub:Handle:Upgrade:Error:", err)
		return err
	}

	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	// Snapshot so a new client does not wait for the next change.
	if payload, ok := h.snapshot(ctx.Request().Context()); ok {
		if err := cl.write(payload); err != nil {
			h.drop(cl)
			return nil
		}
	}

	// Reader loop exists only to detect close.
	go func() {
		defer h.drop(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

func (h *Hub) snapshot(ctx context.Context) ([]byte, bool) {
	listing, appErr := h.events.ListCategorized(ctx, false)
	if appErr != nil {
		logger.Error("Hub:snapshot:ListCategorized:Error:", appErr)
		return nil, false
	}

	payload, err := json.Marshal(feedMessage{Type: "events", Events: listing})
	if err != nil {
		logger.Error("Hub:snapshot:Marshal:Error:", err)
		return nil, false
	}
	return payload, true
}

func (h *Hub) broadcast(ctx context.Context) {
	payload, ok := h.snapshot(ctx)
	if !ok {
		return
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			h.drop(cl)
		}
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		cl.conn.Close()
	}
	h.mu.Unlock()
}
