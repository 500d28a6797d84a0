package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/subtrack/subtrack/internal/app/api/middleware"
	"github.com/subtrack/subtrack/internal/app/service/report"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/response"
)

const (
	defaultChartMonths = 6
	maxChartMonths     = 36
)

// @Summary      Dashboard overview
// @Description  Status counts, normalized monthly totals, next renewal and recent subscriptions
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  report.OverviewResponse
// @Router       /api/dashboard [get]
func DashboardOverview(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Overview(c.Request.Context(), middleware.UserID(c), dateutil.Today())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary      Dashboard charts
// @Description  Monthly spend series, per-platform spend and weekly renewal counts
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        months  query     int  false  "trailing months for the spend series (default 6)"
// @Success      200     {object}  report.ChartsResponse
// @Failure      400     {object}  response.APIError
// @Router       /api/dashboard/charts [get]
func DashboardCharts(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		months := defaultChartMonths
		if v := c.Query("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxChartMonths {
				response.Error(c, http.StatusBadRequest, "months must be between 1 and 36")
				return
			}
			months = n
		}
		res, err := svc.Charts(c.Request.Context(), middleware.UserID(c), months, dateutil.Today())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to build charts")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func RegisterDashboardRoutes(r gin.IRouter, svc *report.Service) {
	r.GET("/dashboard", DashboardOverview(svc))
	r.GET("/dashboard/charts", DashboardCharts(svc))
}
