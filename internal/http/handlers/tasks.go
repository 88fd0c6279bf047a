package handlers

import (
	"net/http"

	"task_tracker/internal/validation"

	"github.com/gin-gonic/gin"
)

// Root is the liveness message served at GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Task Tracker API is running"})
}

func (h *Handler) ListTasks(c *gin.Context) {
	completed, err := validation.ParseCompletedFilter(c.Query("completed"))
	if err != nil {
		writeError(c, err)
		return
	}

	tasks, err := h.Tasks.ListTasks(c.Request.Context(), completed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, validation.NewReadOutputs(tasks))
}

func (h *Handler) CreateTask(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}
	in, err := validation.DecodeCreate(body)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.Tasks.CreateTask(c.Request.Context(), *in.Title, in.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, validation.NewReadOutput(task))
}

func (h *Handler) GetTask(c *gin.Context) {
	id, err := validation.ParseTaskID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.Tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, validation.NewReadOutput(task))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := validation.ParseTaskID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}
	in, err := validation.DecodeUpdate(body)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.Tasks.UpdateTask(c.Request.Context(), id, in.Patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, validation.NewReadOutput(task))
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := validation.ParseTaskID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.Tasks.DeleteTask(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
