package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 3 * time.Second

// Pinger reports whether the task store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	version string
	started time.Time

	// feedClients reports live feed subscribers; nil when the feed is off
	feedClients func() int
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version, started: time.Now()}
}

// WithFeed adds the live feed subscriber count to readiness output.
func (h *HealthHandler) WithFeed(count func() int) *HealthHandler {
	h.feedClients = count
	return h
}

type healthStatus struct {
	Status      string            `json:"status"`
	Version     string            `json:"version,omitempty"`
	Uptime      string            `json:"uptime"`
	Checks      map[string]string `json:"checks,omitempty"`
	FeedClients *int              `json:"feed_clients,omitempty"`
}

// Liveness only says the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  h.uptime(),
	})
}

// Readiness pings the task store; 503 when it is unreachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := healthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  h.uptime(),
		Checks:  map[string]string{"database": "healthy"},
	}
	code := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Checks["database"] = "unhealthy: " + err.Error()
		code = http.StatusServiceUnavailable
	}
	if h.feedClients != nil {
		n := h.feedClients()
		resp.FeedClients = &n
	}

	c.JSON(code, resp)
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.started).Round(time.Second).String()
}
