package controller

import (
	"fmt"
	"net/http"

	"volunteer-events-api/core/controller"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/modules/event/dto"
	"volunteer-events-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests.
type EventController struct {
	controller.BaseController
	EventService  service.EventServiceInterface
	ExportService service.ExportServiceInterface
}

func NewEventController(svc service.EventServiceInterface, export service.ExportServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
		ExportService:  export,
	}
}

// ListEvents handles GET /public/events, the categorized listing volunteers
// see. Attendee emails are redacted.
func (c *EventController) ListEvents(ctx echo.Context) error {
	result, appErr := c.EventService.ListCategorized(ctx.Request().Context(), false)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetEvent handles GET /public/events/:id.
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEventByID(ctx.Request().Context(), eventID, false)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// SignUp handles POST /public/events/:id/signup.
func (c *EventController) SignUp(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.AdmitSignup(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Signed up successfully")
}

// CreateEvent handles POST /private/events.
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// GetEventAdmin handles GET /private/events/:id: the full roster with emails.
func (c *EventController) GetEventAdmin(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEventByID(ctx.Request().Context(), eventID, true)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ListEventsAdmin handles GET /private/events.
func (c *EventController) ListEventsAdmin(ctx echo.Context) error {
	result, appErr := c.EventService.ListCategorized(ctx.Request().Context(), true)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEvent handles PUT /private/events/:id.
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent handles DELETE /private/events/:id.
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// RemoveAttendee handles DELETE /private/events/:id/attendees/:attendeeId.
// Requires confirm=true; the gate is explicit, not a silent action.
func (c *EventController) RemoveAttendee(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	attendeeID, err := uuid.Parse(ctx.Param("attendeeId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid attendee ID")
	}

	confirmed := ctx.QueryParam("confirm") == "true"
	if appErr := c.EventService.RemoveAttendee(ctx.Request().Context(), eventID, attendeeID, confirmed); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Attendee removed")
}

// SaveMetrics handles PUT /private/events/:id/metrics.
func (c *EventController) SaveMetrics(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.SaveMetricsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.SaveMetrics(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Metrics saved")
}

// ExportRoster handles GET /private/events/:id/roster.csv. With upload=true
// the CSV is stored in S3 and the object key returned instead.
func (c *EventController) ExportRoster(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if ctx.QueryParam("upload") == "true" {
		key, appErr := c.ExportService.UploadRoster(ctx.Request().Context(), eventID)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, map[string]string{"key": key}, "Roster uploaded")
	}

	data, filename, appErr := c.ExportService.ExportRoster(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Blob(http.StatusOK, "text/csv", data)
}
