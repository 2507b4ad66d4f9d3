package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/cache"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/cleberrangel/gantt-timeline-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HealthConfig contains the limits used by the health checks
type HealthConfig struct {
	Version   string
	MaxHeapMB uint64
}

// HealthHandler handles health check and metrics endpoints
type HealthHandler struct {
	cache     *cache.Cache
	limiter   *middleware.ClientRateLimiter
	metrics   *metrics.Metrics
	cfg       HealthConfig
	startTime time.Time
}

// NewHealthHandler creates a new health handler. A nil cache is reported as disabled.
func NewHealthHandler(c *cache.Cache, m *metrics.Metrics, cfg HealthConfig) *HealthHandler {
	if m == nil {
		m = metrics.Get()
	}
	if cfg.MaxHeapMB == 0 {
		cfg.MaxHeapMB = 512
	}
	return &HealthHandler{
		cache:     c,
		metrics:   m,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// WithRateLimiter inclui o limitador de requisições no health check
func (h *HealthHandler) WithRateLimiter(l *middleware.ClientRateLimiter) *HealthHandler {
	h.limiter = l
	return h
}

// LivenessCheck returns basic liveness status
// @Summary Liveness check
// @Description Returns basic liveness status for Kubernetes
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HealthCheck returns health information for memory and the timeline cache
// @Summary Health check
// @Description Returns health information including memory and cache
// @Tags health
// @Produce json
// @Success 200 {object} metrics.HealthCheck
// @Failure 503 {object} metrics.HealthCheck
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	components := make(map[string]metrics.HealthStatus)

	components["memory"] = metrics.CheckMemoryHealth(h.cfg.MaxHeapMB)
	components["cache"] = h.checkCacheHealth()
	if h.limiter != nil {
		components["rate_limiter"] = metrics.HealthStatus{
			Status:  "healthy",
			Message: fmt.Sprintf("%d clients tracked", h.limiter.Clients()),
		}
	}

	overallStatus := metrics.DetermineOverallStatus(components)

	healthCheck := metrics.HealthCheck{
		Status:     overallStatus,
		Version:    h.cfg.Version,
		Uptime:     time.Since(h.startTime).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, healthCheck)
}

func (h *HealthHandler) checkCacheHealth() metrics.HealthStatus {
	if h.cache == nil {
		return metrics.HealthStatus{
			Status:  "healthy",
			Message: "cache disabled",
		}
	}
	return metrics.CheckCacheHealth(h.cache.Stats())
}

// GetMetrics returns application metrics
// @Summary Get application metrics
// @Description Returns request counts, timeline builds, cache hits, exports and imports
// @Tags metrics
// @Produce json
// @Success 200 {object} metrics.MetricsSnapshot
// @Router /metrics [get]
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// GetEndpointMetrics returns metrics for specific endpoints
// @Summary Get endpoint metrics
// @Description Returns metrics broken down by endpoint
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics/endpoints [get]
func (h *HealthHandler) GetEndpointMetrics(c *gin.Context) {
	snapshot := h.metrics.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"endpoints": snapshot.Endpoints,
	})
}
