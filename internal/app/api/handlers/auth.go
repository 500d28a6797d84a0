package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrack/subtrack/internal/app/api/middleware"
	authsvc "github.com/subtrack/subtrack/internal/app/service/auth"
	"github.com/subtrack/subtrack/pkg/response"
)

// @Summary      Register
// @Description  Creates an account and returns a bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authsvc.RegisterRequest  true  "registration payload"
// @Success      200      {object}  authsvc.TokenResponse
// @Failure      400      {object}  response.APIError
// @Failure      409      {object}  response.APIError
// @Router       /api/auth/register [post]
func Register(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		res, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, authsvc.ErrEmailTaken) {
				response.Error(c, http.StatusConflict, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, "registration failed")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary      Login
// @Description  Verifies credentials and returns a bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authsvc.LoginRequest  true  "credentials"
// @Success      200      {object}  authsvc.TokenResponse
// @Failure      401      {object}  response.APIError
// @Router       /api/auth/login [post]
func Login(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		res, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				response.Error(c, http.StatusUnauthorized, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, "login failed")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  response.APIError
// @Router       /api/auth/me [get]
func Me(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "user not found")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func RegisterAuthRoutes(pub gin.IRouter, protected gin.IRouter, svc *authsvc.Service) {
	pub.POST("/auth/register", Register(svc))
	pub.POST("/auth/login", Login(svc))
	protected.GET("/auth/me", Me(svc))
}
