package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware tracks request metrics. A nil m records into the global instance.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	if m == nil {
		m = metrics.Get()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start).Milliseconds()
		statusCode := c.Writer.Status()
		m.IncrementRequests(statusCode < 400, latency)

		// Track endpoint-specific metrics
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.TrackEndpoint(path, c.Request.Method, statusCode, latency)
	}
}

// AuditMiddleware logs audit events for state-changing requests under the given path prefixes
func AuditMiddleware(prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodDelete {
			return
		}
		if !hasAnyPrefix(path, prefixes) {
			return
		}

		logger.AuditRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			c.ClientIP(),
		)
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
