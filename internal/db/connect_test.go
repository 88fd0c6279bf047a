package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		url    string
		driver string
		dsn    string
	}{
		{"postgres://u:p@localhost:5432/tasks", DriverPostgres, "postgres://u:p@localhost:5432/tasks"},
		{"postgresql://localhost/tasks", DriverPostgres, "postgresql://localhost/tasks"},
		{"sqlite://tasks.db", DriverSQLite, "tasks.db?_busy_timeout=5000"},
		{"sqlite:///var/lib/tasks.db?cache=shared", DriverSQLite, "/var/lib/tasks.db?cache=shared"},
		{"file:tasks.db?mode=rwc", DriverSQLite, "file:tasks.db?mode=rwc"},
	}
	for _, tc := range cases {
		driver, dsn, err := ParseURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.driver, driver, tc.url)
		assert.Equal(t, tc.dsn, dsn, tc.url)
	}
}

func TestParseURL_Unsupported(t *testing.T) {
	for _, url := range []string{"", "mysql://localhost/tasks", "sqlite://"} {
		_, _, err := ParseURL(url)
		assert.ErrorIs(t, err, ErrUnsupportedURL, url)
	}
}

func TestOpen_SQLiteMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")

	store, err := Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	var count int
	require.NoError(t, store.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count))
	assert.Equal(t, 0, count)
}
