package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	platformsvc "github.com/subtrack/subtrack/internal/app/service/platform"
	"github.com/subtrack/subtrack/pkg/response"
)

// @Summary      List platforms
// @Tags         Platforms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Platform
// @Router       /api/platforms [get]
func ListPlatforms(svc *platformsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		platforms, err := svc.List(c.Request.Context())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to list platforms")
			return
		}
		c.JSON(http.StatusOK, platforms)
	}
}

// @Summary      Get platform
// @Tags         Platforms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "platform ID"
// @Success      200  {object}  models.Platform
// @Failure      404  {object}  response.APIError
// @Router       /api/platforms/{id} [get]
func GetPlatform(svc *platformsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, platformsvc.ErrNotFound) {
				response.Error(c, http.StatusNotFound, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, "failed to get platform")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary      Create platform
// @Description  Admin only. Creates a platform with its custom field schema.
// @Tags         Platforms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      platformsvc.UpsertRequest  true  "platform payload"
// @Success      200      {object}  models.Platform
// @Failure      400      {object}  response.APIError
// @Router       /api/platforms [post]
func CreatePlatform(svc *platformsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req platformsvc.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		p, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writePlatformError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary      Update platform
// @Tags         Platforms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "platform ID"
// @Param        request  body      platformsvc.UpsertRequest  true  "platform payload"
// @Success      200      {object}  models.Platform
// @Failure      404      {object}  response.APIError
// @Router       /api/platforms/{id} [put]
func UpdatePlatform(svc *platformsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req platformsvc.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writePlatformError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary      Delete platform
// @Description  Admin only. Fails while subscriptions still reference the platform.
// @Tags         Platforms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "platform ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  response.APIError
// @Router       /api/platforms/{id} [delete]
func DeletePlatform(svc *platformsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writePlatformError(c, err)
			return
		}
		c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func writePlatformError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, platformsvc.ErrNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, platformsvc.ErrNameTaken), errors.Is(err, platformsvc.ErrInUse):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		response.Error(c, http.StatusBadRequest, err.Error())
	}
}

func RegisterPlatformRoutes(r gin.IRouter, admin gin.IRouter, svc *platformsvc.Service) {
	r.GET("/platforms", ListPlatforms(svc))
	r.GET("/platforms/:id", GetPlatform(svc))
	admin.POST("/platforms", CreatePlatform(svc))
	admin.PUT("/platforms/:id", UpdatePlatform(svc))
	admin.DELETE("/platforms/:id", DeletePlatform(svc))
}
