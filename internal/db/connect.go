package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"task_tracker/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

// Supported store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	//go:embed migrations/postgres.sql
	postgresSchema string

	//go:embed migrations/sqlite.sql
	sqliteSchema string
)

var ErrUnsupportedURL = errors.New("unsupported database url")

// Store is the explicitly constructed store handle. Exactly one of Pool or SQL is set.
type Store struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

// ParseURL splits a DATABASE_URL into a driver name and the DSN that driver expects.
func ParseURL(url string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURL)
		}
		return DriverSQLite, sqliteDSN(path), nil
	case strings.HasPrefix(url, "file:"):
		return DriverSQLite, url, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

// Open connects to the store named by url and verifies it with a ping.
func Open(ctx context.Context, url string) (*Store, error) {
	driver, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverPostgres:
		pool, err := Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: driver, Pool: pool}, nil
	default:
		sqlDB, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: driver, SQL: sqlDB}, nil
	}
}

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected", "driver", DriverPostgres)
	return pool, nil
}

func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Info("database connected", "driver", DriverSQLite)
	return sqlDB, nil
}

// Migrate creates the tasks table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	var err error
	switch s.Driver {
	case DriverPostgres:
		_, err = s.Pool.Exec(ctx, postgresSchema)
	case DriverSQLite:
		_, err = s.SQL.ExecContext(ctx, sqliteSchema)
	default:
		return fmt.Errorf("%w: driver %q", ErrUnsupportedURL, s.Driver)
	}
	if err != nil {
		return fmt.Errorf("apply %s schema: %w", s.Driver, err)
	}
	logger.Debug("schema applied", "driver", s.Driver)
	return nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.SQL != nil {
		s.SQL.Close()
	}
}
