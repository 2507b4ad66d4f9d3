package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused client limiter is kept
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter keeps one token bucket per client key
type ClientRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	every     time.Duration
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewClientRateLimiter creates a limiter allowing perMinute requests per client with the given burst
func NewClientRateLimiter(perMinute, burst int) *ClientRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ClientRateLimiter{
		clients:   make(map[string]*clientLimiter),
		every:     time.Minute / time.Duration(perMinute),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether the client may proceed, and how long to wait otherwise
func (l *ClientRateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now

	r := cl.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, l.every
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Clients returns the number of tracked clients, reported by the health check
func (l *ClientRateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops limiters idle for longer than limiterIdleTTL; caller holds mu
func (l *ClientRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	for key, cl := range l.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// RateLimitWith retorna um middleware que limita requisições por IP do cliente
func RateLimitWith(limiter *ClientRateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	if m == nil {
		m = metrics.Get()
	}

	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(c.ClientIP())
		if allowed {
			c.Next()
			return
		}

		m.IncrementRateLimited()
		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}

		logger.FromGin(c).Warn().
			Str("client_ip", c.ClientIP()).
			Int("retry_after_s", seconds).
			Msg("Rate limit excedido")

		c.Header("Retry-After", fmt.Sprintf("%d", seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
			Success: false,
			Error:   "rate limit excedido",
			Details: "aguarde alguns segundos e tente novamente",
		})
	}
}
