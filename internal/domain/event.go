package domain

import "time"

// Task change event types
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// TaskEvent describes a committed change to a task.
// Task is nil for deletions.
type TaskEvent struct {
	Type   string
	TaskID int64
	Task   *Task
	At     time.Time
}
