package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrack/subtrack/internal/app/api/middleware"
	subsvc "github.com/subtrack/subtrack/internal/app/service/subscription"
	"github.com/subtrack/subtrack/pkg/response"
	"github.com/subtrack/subtrack/pkg/types"
)

// @Summary      List subscriptions
// @Description  Returns the caller's subscriptions, newest first
// @Tags         Subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Subscription
// @Router       /api/subscriptions [get]
func ListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := svc.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to list subscriptions")
			return
		}
		c.JSON(http.StatusOK, subs)
	}
}

// @Summary      Get subscription
// @Tags         Subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "subscription ID"
// @Success      200  {object}  models.Subscription
// @Failure      404  {object}  response.APIError
// @Router       /api/subscriptions/{id} [get]
func GetSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			writeSubscriptionError(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}

// @Summary      Create subscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      subsvc.UpsertRequest  true  "subscription payload"
// @Success      200      {object}  models.Subscription
// @Failure      400      {object}  response.APIError
// @Router       /api/subscriptions [post]
func CreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		sub, err := svc.Create(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}

// @Summary      Update subscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "subscription ID"
// @Param        request  body      subsvc.UpsertRequest  true  "subscription payload"
// @Success      200      {object}  models.Subscription
// @Failure      404      {object}  response.APIError
// @Router       /api/subscriptions/{id} [put]
func UpdateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		sub, err := svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
		if err != nil {
			writeSubscriptionError(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary      Change subscription status
// @Description  Moves a subscription between ACTIVE, PAUSED and CANCELED
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "subscription ID"
// @Param        request  body      statusRequest  true  "new status"
// @Success      200      {object}  models.Subscription
// @Failure      404      {object}  response.APIError
// @Router       /api/subscriptions/{id}/status [patch]
func SetSubscriptionStatus(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		sub, err := svc.SetStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), types.SubscriptionStatus(req.Status))
		if err != nil {
			writeSubscriptionError(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}

// @Summary      Delete subscription
// @Tags         Subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "subscription ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  response.APIError
// @Router       /api/subscriptions/{id} [delete]
func DeleteSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			writeSubscriptionError(c, err)
			return
		}
		c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func writeSubscriptionError(c *gin.Context, err error) {
	if errors.Is(err, subsvc.ErrNotFound) {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	response.Error(c, http.StatusBadRequest, err.Error())
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.GET("/subscriptions", ListSubscriptions(svc))
	r.GET("/subscriptions/:id", GetSubscription(svc))
	r.POST("/subscriptions", CreateSubscription(svc))
	r.PUT("/subscriptions/:id", UpdateSubscription(svc))
	r.PATCH("/subscriptions/:id/status", SetSubscriptionStatus(svc))
	r.DELETE("/subscriptions/:id", DeleteSubscription(svc))
}
