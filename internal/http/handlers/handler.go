package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"
	"task_tracker/internal/service"
	"task_tracker/internal/validation"

	"github.com/gin-gonic/gin"
)

const (
	msgNotFound = "Task not found"
	msgInternal = "Internal server error"
	msgBadBody  = "Could not read request body"
)

var errUnreadableBody = errors.New("unreadable request body")

type Handler struct {
	Tasks *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{Tasks: tasks}
}

// readBody reads the whole request body. A failed read is the client's fault.
func readBody(c *gin.Context) ([]byte, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnreadableBody, err)
	}
	return body, nil
}

// writeError maps an operation error to its HTTP status and body.
func writeError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": verr.Detail()})
	case errors.Is(err, errUnreadableBody):
		logger.FromContext(c.Request.Context()).Warn("read request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgBadBody})
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgInternal})
	}
}
