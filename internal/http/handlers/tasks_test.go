package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("unexpected EOF") }

func TestUnreadableBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil)
	r := gin.New()
	r.POST("/tasks", h.CreateTask)
	r.PUT("/tasks/:id", h.UpdateTask)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/tasks"},
		{http.MethodPut, "/tasks/1"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, brokenBody{}))

		assert.Equal(t, http.StatusBadRequest, w.Code, tc.method)
		assert.JSONEq(t, `{"detail": "Could not read request body"}`, w.Body.String(), tc.method)
	}
}
