package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/shared/telemetry"
)

// Context keys handlers set so request logs carry the affected entities.
const (
	ProjectIDKey = "projectId"
	TaskIDKey    = "taskId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"project_id":  c.GetString(ProjectIDKey),
			"task_id":     c.GetString(TaskIDKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		telemetry.Info("request.complete", fields)
	}
}
