package repository

import (
	"context"
	"errors"
	"fmt"

	"task_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaskRepository stores tasks in Postgres. Every call acquires its
// own pooled connection and releases it before returning.
type PostgresTaskRepository struct {
	db  *pgxpool.Pool
	now Clock
}

var _ domain.TaskRepository = (*PostgresTaskRepository)(nil)

func NewPostgresTaskRepository(db *pgxpool.Pool, opts ...Option) *PostgresTaskRepository {
	o := buildOptions(opts)
	return &PostgresTaskRepository{db: db, now: o.now}
}

func (r *PostgresTaskRepository) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, completed *bool) ([]*domain.Task, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	q, args := buildList(completed, dollar)
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
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

func (r *PostgresTaskRepository) Create(ctx context.Context, title string, description *string) (*domain.Task, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	t, err := scanTask(conn.QueryRow(ctx, buildInsert(dollar), title, description, false, r.now()))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	t, err := scanTask(conn.QueryRow(ctx, buildGet(dollar), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	q, args := buildUpdate(id, patch, r.now(), dollar)
	t, err := scanTask(conn.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, buildDelete(dollar), id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	if t.UpdatedAt != nil {
		u := t.UpdatedAt.UTC()
		t.UpdatedAt = &u
	}
	return &t, nil
}
