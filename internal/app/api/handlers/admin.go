package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subsvc "github.com/subtrack/subtrack/internal/app/service/subscription"
	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/response"
	"github.com/subtrack/subtrack/pkg/types"
)

type ListSubscriptionsRequest struct {
	Filters []types.CommonFilter `json:"filters"`
}

type ListSubscriptionsResponse struct {
	Items []models.Subscription `json:"items"`
	Total int                   `json:"total"`
}

// @Summary      List all subscriptions
// @Description  Admin only. Filters map onto SQL columns (status, platform_id, user_id, ...).
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ListSubscriptionsRequest  true  "filters"
// @Success      200      {object}  ListSubscriptionsResponse
// @Failure      403      {object}  response.APIError
// @Router       /api/admin/subscriptions/list [post]
func AdminListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		subs, err := svc.ListAll(c.Request.Context(), req.Filters)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to list subscriptions")
			return
		}
		c.JSON(http.StatusOK, ListSubscriptionsResponse{Items: subs, Total: len(subs)})
	}
}

func RegisterAdminRoutes(admin gin.IRouter, svc *subsvc.Service) {
	admin.POST("/subscriptions/list", AdminListSubscriptions(svc))
}
