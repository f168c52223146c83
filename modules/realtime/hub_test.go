package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"volunteer-events-api/core/errors"
	"volunteer-events-api/modules/event/dto"
	"volunteer-events-api/modules/event/entity"
)

// stubEventService serves a fixed categorized listing; the hub uses nothing
// else.
type stubEventService struct {
	listing *dto.CategorizedEventsResponse
}

func (s *stubEventService) ListCategorized(context.Context, bool) (*dto.CategorizedEventsResponse, *errors.AppError) {
	return s.listing, nil
}

func (s *stubEventService) CreateEvent(context.Context, *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) GetEventByID(context.Context, uuid.UUID, bool) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) UpdateEvent(context.Context, uuid.UUID, *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) DeleteEvent(context.Context, uuid.UUID) *errors.AppError {
	panic("not used")
}
func (s *stubEventService) AdmitSignup(context.Context, uuid.UUID, *dto.SignupRequest) (*dto.AttendeeResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) RemoveAttendee(context.Context, uuid.UUID, uuid.UUID, bool) *errors.AppError {
	panic("not used")
}
func (s *stubEventService) SaveMetrics(context.Context, uuid.UUID, *dto.SaveMetricsRequest) (*dto.EventResponse, *errors.AppError) {
	panic("not used")
}
func (s *stubEventService) RawEvent(context.Context, uuid.UUID) (*entity.Event, *errors.AppError) {
	panic("not used")
}

func testListing() *dto.CategorizedEventsResponse {
	return &dto.CategorizedEventsResponse{
		Upcoming: []dto.EventResponse{{ID: uuid.NewString(), Title: "Beach Cleanup"}},
		Past:     []dto.EventResponse{},
	}
}

// startHub serves the hub over a test server and returns the hub plus the
// websocket URL.
func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(&stubEventService{listing: testListing()}, nil)

	e := echo.New()
	e.GET("/ws/events", hub.Handle)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFeedMessage(t *testing.T, conn *websocket.Conn) feedMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg feedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestHubSnapshotOnConnect(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url)

	msg := readFeedMessage(t, conn)
	if msg.Type != "events" {
		t.Errorf("type = %q, want events", msg.Type)
	}
	if msg.Events == nil || len(msg.Events.Upcoming) != 1 {
		t.Fatalf("snapshot should carry the current listing, got %+v", msg.Events)
	}
	if msg.Events.Upcoming[0].Title != "Beach Cleanup" {
		t.Errorf("title = %q", msg.Events.Upcoming[0].Title)
	}
}

func TestHubBroadcastFanOut(t *testing.T) {
	hub, url := startHub(t)

	first := dial(t, url)
	second := dial(t, url)
	readFeedMessage(t, first)
	readFeedMessage(t, second)

	hub.broadcast(context.Background())

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readFeedMessage(t, conn)
		if msg.Type != "events" {
			t.Errorf("broadcast type = %q, want events", msg.Type)
		}
	}
}

// Broadcasting while new clients connect must never produce two goroutines
// writing the same connection at once.
func TestHubConcurrentBroadcastAndConnect(t *testing.T) {
	hub, url := startHub(t)

	done := make(chan struct{})
	var broadcasters sync.WaitGroup
	for i := 0; i < 4; i++ {
		broadcasters.Add(1)
		go func() {
			defer broadcasters.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.broadcast(context.Background())
				}
			}
		}()
	}

	for i := 0; i < 10; i++ {
		conn := dial(t, url)
		// Drain everything the hub pushes so writes never back up.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}

	time.Sleep(200 * time.Millisecond)
	close(done)
	broadcasters.Wait()
}
