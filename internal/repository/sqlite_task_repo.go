package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/domain"

	"github.com/mattn/go-sqlite3"
)

// SQLiteTaskRepository stores tasks through database/sql and go-sqlite3.
// Every call takes a dedicated *sql.Conn and closes it before returning.
type SQLiteTaskRepository struct {
	db  *sql.DB
	now Clock
}

var _ domain.TaskRepository = (*SQLiteTaskRepository)(nil)

func NewSQLiteTaskRepository(db *sql.DB, opts ...Option) *SQLiteTaskRepository {
	o := buildOptions(opts)
	return &SQLiteTaskRepository{db: db, now: o.now}
}

func (r *SQLiteTaskRepository) conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

func (r *SQLiteTaskRepository) List(ctx context.Context, completed *bool) ([]*domain.Task, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	q, args := buildList(completed, question)
	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return res, nil
}

func (r *SQLiteTaskRepository) Create(ctx context.Context, title string, description *string) (*domain.Task, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	t, err := scanSQLiteTask(conn.QueryRowContext(ctx, buildInsert(question), title, description, false, r.now()))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	t, err := scanSQLiteTask(conn.QueryRowContext(ctx, buildGet(question), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteTaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	q, args := buildUpdate(id, patch, r.now(), question)
	t, err := scanSQLiteTask(conn.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, buildDelete(question), id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// sqliteTime accepts time.Time as well as the text form go-sqlite3 writes.
// RETURNING columns carry no declared type, so they come back as text.
type sqliteTime struct {
	Time  time.Time
	Valid bool
}

func (t *sqliteTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *sqliteTime) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time, t.Valid = ts.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

func scanSQLiteTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var created, updated sqliteTime
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &created, &updated); err != nil {
		return nil, err
	}
	t.CreatedAt = created.Time
	if updated.Valid {
		u := updated.Time
		t.UpdatedAt = &u
	}
	return &t, nil
}
