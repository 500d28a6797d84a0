package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/subtrack/subtrack/internal/app/service/auth"
	"github.com/subtrack/subtrack/pkg/response"
	"github.com/subtrack/subtrack/pkg/types"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// Auth validates the Bearer token and stores the caller's identity on
// the gin context.
func Auth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := svc.ParseToken(raw)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != string(types.UserRoleAdmin) {
			response.Abort(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's ID.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
