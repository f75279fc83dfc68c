package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ulvgard/procplan/internal/api/dto"
)

// ErrorHandlerMiddleware logs request errors and formats a response when a
// handler attached an error without writing one.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			slog.Error("Request error",
				"error", err.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:     "internal error",
					Message:   err.Error(),
					Timestamp: time.Now().UTC(),
				})
			}
		}
	}
}
