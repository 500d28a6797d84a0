package response

import "github.com/gin-gonic/gin"

// APIError is the error envelope every endpoint uses; the front-end
// reads the message field directly.
type APIError struct {
	Message string `json:"message"`
}

// Error writes an error response with the given HTTP status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{Message: message})
}

// Abort writes an error response and stops the handler chain; used by
// middleware.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, APIError{Message: message})
}
