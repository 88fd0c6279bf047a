package ws

import (
	"encoding/json"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/validation"
)

const (
	// server - client
	MsgReady = "ready"
)

// Message is the JSON frame sent to feed subscribers.
type Message struct {
	Type   string                 `json:"type"`
	TaskID int64                  `json:"task_id,omitempty"`
	Task   *validation.ReadOutput `json:"task"`
	At     time.Time              `json:"at"`
}

func encodeEvent(ev domain.TaskEvent) ([]byte, error) {
	msg := Message{Type: ev.Type, TaskID: ev.TaskID, At: ev.At}
	if ev.Task != nil {
		out := validation.NewReadOutput(ev.Task)
		msg.Task = &out
	}
	return json.Marshal(msg)
}
