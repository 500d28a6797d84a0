package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrack/subtrack/internal/app/api/middleware"
	"github.com/subtrack/subtrack/internal/app/service/report"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/response"
)

type calendarEventsResponse struct {
	Items []report.CalendarEvent `json:"items"`
}

// @Summary      Calendar events
// @Description  Renewal events for every non-canceled subscription in [from, to], inclusive
// @Tags         Calendar
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  true  "range start (YYYY-MM-DD)"
// @Param        to    query     string  true  "range end (YYYY-MM-DD)"
// @Success      200   {object}  calendarEventsResponse
// @Failure      400   {object}  response.APIError
// @Router       /api/calendar/events [get]
func CalendarEvents(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := dateutil.Parse(c.Query("from"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		to, err := dateutil.Parse(c.Query("to"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
		if to.Before(from) {
			response.Error(c, http.StatusBadRequest, "to must not be before from")
			return
		}

		events, err := svc.CalendarEvents(c.Request.Context(), middleware.UserID(c), from, to)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to build calendar events")
			return
		}
		c.JSON(http.StatusOK, calendarEventsResponse{Items: events})
	}
}

func RegisterCalendarRoutes(r gin.IRouter, svc *report.Service) {
	r.GET("/calendar/events", CalendarEvents(svc))
}
