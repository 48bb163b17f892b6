package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/task-manager-api/internal/constants"
)

// RequestID propagates or assigns the X-Request-Id header
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(constants.RequestIDHeader, id)
		c.Set(constants.ContextKeyRequestID, id)
		c.Next()
	}
}

// RequestLogger emits one http_request record per request
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(constants.ContextKeyRequestID),
		}
		if user, ok := GetUser(c); ok {
			attrs = append(attrs, "user_id", user.ID)
		}

		log.InfoContext(c.Request.Context(), "http_request", attrs...)
	}
}
