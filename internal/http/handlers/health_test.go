package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func readiness(t *testing.T, h *HealthHandler) (int, healthStatus) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body healthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestReadiness_StoreDown(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("connection refused") }), "v1")

	code, body := readiness(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "unhealthy: connection refused", body.Checks["database"])
	assert.Nil(t, body.FeedClients)
}

func TestReadiness_WithFeed(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), "v1").
		WithFeed(func() int { return 3 })

	code, body := readiness(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "v1", body.Version)
	require.NotNil(t, body.FeedClients)
	assert.Equal(t, 3, *body.FeedClients)
}
