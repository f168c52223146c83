package controller

import (
	"net/http"

	"volunteer-events-api/core/controller"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

// EventICS handles GET /public/events/:id/calendar.ics.
func (c *CalendarController) EventICS(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	payload, appErr := c.CalendarService.EventICS(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="event.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(payload))
}
