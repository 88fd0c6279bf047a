package repository

import (
	"strconv"
	"strings"
	"time"

	"task_tracker/internal/db"
	"task_tracker/internal/domain"
)

const taskColumns = `id, title, description, completed, created_at, updated_at`

// Clock supplies timestamps for created_at and updated_at.
type Clock func() time.Time

// DefaultClock returns UTC time at the precision both backends can store.
func DefaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type options struct {
	now Clock
}

type Option func(*options)

func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.now = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: DefaultClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the repository matching the store's driver.
func New(store *db.Store, opts ...Option) (domain.TaskRepository, error) {
	switch store.Driver {
	case db.DriverPostgres:
		return NewPostgresTaskRepository(store.Pool, opts...), nil
	case db.DriverSQLite:
		return NewSQLiteTaskRepository(store.SQL, opts...), nil
	default:
		return nil, db.ErrUnsupportedURL
	}
}

// placeholder renders the n-th (1-based) bind parameter.
type placeholder func(n int) string

func dollar(n int) string { return "$" + strconv.Itoa(n) }

func question(int) string { return "?" }

func buildList(completed *bool, ph placeholder) (string, []any) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if completed != nil {
		q += ` WHERE completed = ` + ph(1)
		args = append(args, *completed)
	}
	return q + ` ORDER BY id`, args
}

func buildInsert(ph placeholder) string {
	return `INSERT INTO tasks (title, description, completed, created_at) VALUES (` +
		ph(1) + `, ` + ph(2) + `, ` + ph(3) + `, ` + ph(4) + `) RETURNING ` + taskColumns
}

func buildGet(ph placeholder) string {
	return `SELECT ` + taskColumns + ` FROM tasks WHERE id = ` + ph(1)
}

func buildDelete(ph placeholder) string {
	return `DELETE FROM tasks WHERE id = ` + ph(1)
}

// buildUpdate sets only the columns present in patch, plus updated_at.
func buildUpdate(id int64, patch domain.TaskPatch, now time.Time, ph placeholder) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+` = `+ph(len(args)))
	}

	if patch.Title.Set {
		add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		add("description", patch.Description.Ptr())
	}
	if patch.Completed.Set {
		add("completed", patch.Completed.Value)
	}
	add("updated_at", now)

	args = append(args, id)
	q := `UPDATE tasks SET ` + strings.Join(sets, `, `) + ` WHERE id = ` + ph(len(args)) + ` RETURNING ` + taskColumns
	return q, args
}
