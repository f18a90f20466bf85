package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-management-api/internal/logging"
)

// RequestLogger writes one log line per request
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if identity, ok := GetIdentity(c); ok {
			args = append(args, "identity", identity)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "request failed", args...)
		case status >= 400:
			logger.Warn(ctx, "request rejected", args...)
		default:
			logger.Info(ctx, "request handled", args...)
		}
	}
}
