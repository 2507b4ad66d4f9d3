package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/cache"
)

// EndpointMetrics tracks metrics for a specific endpoint
type EndpointMetrics struct {
	Requests     int64
	Errors       int64
	TotalLatency int64
}

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Request metrics
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	RateLimited        int64

	// Request latency (in milliseconds)
	TotalLatency int64
	RequestCount int64

	// Timeline metrics
	TimelinesBuilt  int64
	TimelineErrors  int64
	TasksProcessed  int64
	ProjectsBuilt   int64
	CacheHits       int64
	CacheMisses     int64
	ExportsCreated  int64
	ExportErrors    int64
	ImportsAccepted int64
	ImportErrors    int64

	// Endpoint-specific metrics
	EndpointMetrics map[string]*EndpointMetrics

	// Start time for uptime calculation
	StartTime time.Time
}

// global metrics instance
var globalMetrics *Metrics
var once sync.Once

// Init initializes the global metrics instance
func Init() {
	once.Do(func() {
		globalMetrics = New()
	})
}

// New creates an independent metrics instance
func New() *Metrics {
	return &Metrics{
		StartTime:       time.Now(),
		EndpointMetrics: make(map[string]*EndpointMetrics),
	}
}

// Get returns the global metrics instance
func Get() *Metrics {
	Init()
	return globalMetrics
}

// IncrementRequests increments request counters
func (m *Metrics) IncrementRequests(success bool, latencyMs int64) {
	atomic.AddInt64(&m.TotalRequests, 1)
	atomic.AddInt64(&m.TotalLatency, latencyMs)
	atomic.AddInt64(&m.RequestCount, 1)

	if success {
		atomic.AddInt64(&m.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&m.FailedRequests, 1)
	}
}

// IncrementRateLimited counts requests rejected by the rate limiter
func (m *Metrics) IncrementRateLimited() {
	atomic.AddInt64(&m.RateLimited, 1)
}

// IncrementTimelineBuilt records a timeline build outcome
func (m *Metrics) IncrementTimelineBuilt(success bool, tasks, projects int) {
	if !success {
		atomic.AddInt64(&m.TimelineErrors, 1)
		return
	}
	atomic.AddInt64(&m.TimelinesBuilt, 1)
	atomic.AddInt64(&m.TasksProcessed, int64(tasks))
	atomic.AddInt64(&m.ProjectsBuilt, int64(projects))
}

// IncrementCache records a memoization lookup
func (m *Metrics) IncrementCache(hit bool) {
	if hit {
		atomic.AddInt64(&m.CacheHits, 1)
	} else {
		atomic.AddInt64(&m.CacheMisses, 1)
	}
}

// IncrementExport records an XLSX export outcome
func (m *Metrics) IncrementExport(success bool) {
	if success {
		atomic.AddInt64(&m.ExportsCreated, 1)
	} else {
		atomic.AddInt64(&m.ExportErrors, 1)
	}
}

// IncrementImport records a task file import outcome
func (m *Metrics) IncrementImport(success bool) {
	if success {
		atomic.AddInt64(&m.ImportsAccepted, 1)
	} else {
		atomic.AddInt64(&m.ImportErrors, 1)
	}
}

// TrackEndpoint tracks metrics for a specific endpoint
func (m *Metrics) TrackEndpoint(path, method string, statusCode int, latencyMs int64) {
	key := method + " " + path

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EndpointMetrics == nil {
		m.EndpointMetrics = make(map[string]*EndpointMetrics)
	}

	em, exists := m.EndpointMetrics[key]
	if !exists {
		em = &EndpointMetrics{}
		m.EndpointMetrics[key] = em
	}

	atomic.AddInt64(&em.Requests, 1)
	atomic.AddInt64(&em.TotalLatency, latencyMs)
	if statusCode >= 400 {
		atomic.AddInt64(&em.Errors, 1)
	}
}

// GetEndpointMetrics returns a copy of endpoint metrics
func (m *Metrics) GetEndpointMetrics() map[string]EndpointMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]EndpointMetrics)
	for k, v := range m.EndpointMetrics {
		result[k] = EndpointMetrics{
			Requests:     atomic.LoadInt64(&v.Requests),
			Errors:       atomic.LoadInt64(&v.Errors),
			TotalLatency: atomic.LoadInt64(&v.TotalLatency),
		}
	}
	return result
}

// GetAverageLatency returns average request latency in milliseconds
func (m *Metrics) GetAverageLatency() float64 {
	count := atomic.LoadInt64(&m.RequestCount)
	if count == 0 {
		return 0
	}
	total := atomic.LoadInt64(&m.TotalLatency)
	return float64(total) / float64(count)
}

// GetUptime returns the application uptime
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.StartTime)
}

// EndpointMetricsSnapshot represents endpoint metrics in a snapshot
type EndpointMetricsSnapshot struct {
	Requests     int64   `json:"requests"`
	Errors       int64   `json:"errors"`
	ErrorRate    float64 `json:"error_rate"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// MetricsSnapshot represents a point-in-time snapshot of all metrics
type MetricsSnapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`

	Requests struct {
		Total        int64   `json:"total"`
		Successful   int64   `json:"successful"`
		Failed       int64   `json:"failed"`
		RateLimited  int64   `json:"rate_limited"`
		AvgLatencyMs float64 `json:"avg_latency_ms"`
	} `json:"requests"`

	Timelines struct {
		Built     int64   `json:"built"`
		Errors    int64   `json:"errors"`
		Tasks     int64   `json:"tasks"`
		Projects  int64   `json:"projects"`
		CacheHits int64   `json:"cache_hits"`
		CacheMiss int64   `json:"cache_misses"`
		HitRate   float64 `json:"cache_hit_rate"`
	} `json:"timelines"`

	Exports struct {
		Created int64 `json:"created"`
		Errors  int64 `json:"errors"`
	} `json:"exports"`

	Imports struct {
		Accepted int64 `json:"accepted"`
		Errors   int64 `json:"errors"`
	} `json:"imports"`

	System struct {
		Goroutines   int    `json:"goroutines"`
		HeapAllocMB  uint64 `json:"heap_alloc_mb"`
		HeapInUseMB  uint64 `json:"heap_inuse_mb"`
		StackInUseMB uint64 `json:"stack_inuse_mb"`
		NumGC        uint32 `json:"num_gc"`
	} `json:"system"`

	Endpoints map[string]EndpointMetricsSnapshot `json:"endpoints,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := MetricsSnapshot{}

	snapshot.UptimeSeconds = m.GetUptime().Seconds()
	snapshot.StartTime = m.StartTime.Format(time.RFC3339)

	snapshot.Requests.Total = atomic.LoadInt64(&m.TotalRequests)
	snapshot.Requests.Successful = atomic.LoadInt64(&m.SuccessfulRequests)
	snapshot.Requests.Failed = atomic.LoadInt64(&m.FailedRequests)
	snapshot.Requests.RateLimited = atomic.LoadInt64(&m.RateLimited)
	snapshot.Requests.AvgLatencyMs = m.GetAverageLatency()

	snapshot.Timelines.Built = atomic.LoadInt64(&m.TimelinesBuilt)
	snapshot.Timelines.Errors = atomic.LoadInt64(&m.TimelineErrors)
	snapshot.Timelines.Tasks = atomic.LoadInt64(&m.TasksProcessed)
	snapshot.Timelines.Projects = atomic.LoadInt64(&m.ProjectsBuilt)
	snapshot.Timelines.CacheHits = atomic.LoadInt64(&m.CacheHits)
	snapshot.Timelines.CacheMiss = atomic.LoadInt64(&m.CacheMisses)
	if lookups := snapshot.Timelines.CacheHits + snapshot.Timelines.CacheMiss; lookups > 0 {
		snapshot.Timelines.HitRate = float64(snapshot.Timelines.CacheHits) / float64(lookups) * 100
	}

	snapshot.Exports.Created = atomic.LoadInt64(&m.ExportsCreated)
	snapshot.Exports.Errors = atomic.LoadInt64(&m.ExportErrors)

	snapshot.Imports.Accepted = atomic.LoadInt64(&m.ImportsAccepted)
	snapshot.Imports.Errors = atomic.LoadInt64(&m.ImportErrors)

	snapshot.System.Goroutines = runtime.NumGoroutine()
	snapshot.System.HeapAllocMB = memStats.HeapAlloc / 1024 / 1024
	snapshot.System.HeapInUseMB = memStats.HeapInuse / 1024 / 1024
	snapshot.System.StackInUseMB = memStats.StackInuse / 1024 / 1024
	snapshot.System.NumGC = memStats.NumGC

	endpointMetrics := m.GetEndpointMetrics()
	if len(endpointMetrics) > 0 {
		snapshot.Endpoints = make(map[string]EndpointMetricsSnapshot)
		for k, v := range endpointMetrics {
			em := EndpointMetricsSnapshot{
				Requests: v.Requests,
				Errors:   v.Errors,
			}
			if v.Requests > 0 {
				em.ErrorRate = float64(v.Errors) / float64(v.Requests) * 100
				em.AvgLatencyMs = float64(v.TotalLatency) / float64(v.Requests)
			}
			snapshot.Endpoints[k] = em
		}
	}

	return snapshot
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status  string `json:"status"` // "healthy", "degraded", "unhealthy"
	Message string `json:"message,omitempty"`
	Latency int64  `json:"latency_ms,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Timestamp  string                  `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
}

// CheckMemoryHealth checks memory usage
func CheckMemoryHealth(maxHeapMB uint64) HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return memoryHealth(memStats.HeapAlloc/1024/1024, maxHeapMB)
}

func memoryHealth(heapMB, maxHeapMB uint64) HealthStatus {
	if heapMB > maxHeapMB {
		return HealthStatus{
			Status:  "unhealthy",
			Message: "heap memory exceeds limit",
		}
	}

	// Warn if using more than 80% of limit
	if heapMB > (maxHeapMB * 80 / 100) {
		return HealthStatus{
			Status:  "degraded",
			Message: "heap memory usage high",
		}
	}

	return HealthStatus{
		Status: "healthy",
	}
}

// CheckCacheHealth reports the timeline cache as degraded while it is full and evicting live entries
func CheckCacheHealth(stats cache.Stats) HealthStatus {
	if stats.Capacity > 0 && stats.Items >= stats.Capacity && stats.Evictions > 0 {
		return HealthStatus{
			Status:  "degraded",
			Message: fmt.Sprintf("cache at capacity (%d items, %d evictions)", stats.Items, stats.Evictions),
		}
	}
	return HealthStatus{Status: "healthy"}
}

// DetermineOverallStatus determines overall health from component statuses
func DetermineOverallStatus(components map[string]HealthStatus) string {
	hasUnhealthy := false
	hasDegraded := false

	for _, status := range components {
		switch status.Status {
		case "unhealthy":
			hasUnhealthy = true
		case "degraded":
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return "unhealthy"
	}
	if hasDegraded {
		return "degraded"
	}
	return "healthy"
}
