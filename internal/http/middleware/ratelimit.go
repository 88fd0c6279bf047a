package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// Limiter counts hits for key in a fixed window and reports the running total.
type Limiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit blocks clients that send more than maxRequests per window.
// Limiter errors fail open.
func RateLimit(l Limiter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		count, err := l.Hit(c.Request.Context(), key, window)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rate limiter unavailable", "error", err)
			c.Header("X-RateLimit-Error", "limiter-error")
			c.Next()
			return
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail":      "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

type clientInfo struct {
	start time.Time
	count int64
}

// MemoryLimiter is a per-process fixed-window limiter, used when Redis is not configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{clients: make(map[string]*clientInfo), now: time.Now}
}

func (m *MemoryLimiter) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) > window {
		m.clients[key] = &clientInfo{start: now, count: 1}
		m.evict(now, window)
		return 1, nil
	}

	ci.count++
	return ci.count, nil
}

// evict drops expired windows so the map does not grow without bound.
func (m *MemoryLimiter) evict(now time.Time, window time.Duration) {
	for k, ci := range m.clients {
		if now.Sub(ci.start) > window {
			delete(m.clients, k)
		}
	}
}
