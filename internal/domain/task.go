package domain

import (
	"context"
	"errors"
	"time"
)

// ErrTaskNotFound is returned by repositories when no row has the requested id.
var ErrTaskNotFound = errors.New("task not found")

type Task struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Completed   bool       `db:"completed"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// TaskPatch is a partial update. Fields that are not Set are left untouched.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Completed   Optional[bool]
}

// Empty reports whether the patch changes no column.
func (p TaskPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set
}

// TaskRepository is implemented by every task store backend.
type TaskRepository interface {
	List(ctx context.Context, completed *bool) ([]*Task, error)
	Create(ctx context.Context, title string, description *string) (*Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Update(ctx context.Context, id int64, patch TaskPatch) (*Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
