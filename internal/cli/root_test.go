package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/service"
	"task_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tasktracker", cmd.Use)
	assert.Equal(t, Version, cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"serve", "migrate", "token", "watch"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	portFlag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, portFlag)
	assert.Equal(t, "p", portFlag.Shorthand)

	tokenCmd, _, err := cmd.Find([]string{"token"})
	require.NoError(t, err)
	ttlFlag := tokenCmd.Flags().Lookup("ttl")
	require.NotNil(t, ttlFlag)
	assert.Equal(t, "24h0m0s", ttlFlag.DefValue)

	watchCmd, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)
	urlFlag := watchCmd.Flags().Lookup("url")
	require.NotNil(t, urlFlag)
	assert.Equal(t, "ws://127.0.0.1:8080/ws/tasks", urlFlag.DefValue)
}

func TestTokenCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--subject", "alice", "--secret", "s3cret", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	auth, err := service.NewAuthenticator("s3cret")
	require.NoError(t, err)
	subject, err := auth.ParseJWT(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"token", "--subject", "alice"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cmd = NewRootCommand()
	cmd.SetArgs([]string{"token", "--secret", "x"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--subject")
}

func TestMigrateCommand(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "tasks.db")

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"migrate", "--database-url", url})
		require.NoError(t, cmd.Execute(), "migrate must be repeatable")
		assert.Equal(t, "applied sqlite schema\n", out.String())
	}
}

func TestMigrateCommand_BadURL(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"migrate", "--database-url", "mysql://localhost/tasks"})
	require.Error(t, cmd.Execute())
}

type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func TestWatch_PrintsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub()
	defer hub.Close()

	r := gin.New()
	r.GET("/ws/tasks", ws.HandleWS(hub, "", nil))
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(lineWriter, 10)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, strings.Replace(srv.URL, "http", "ws", 1)+"/ws/tasks", "", lines)
	}()

	next := func() string {
		select {
		case line := <-lines:
			return line
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for watch output")
			return ""
		}
	}

	assert.Equal(t, "connected\n", next())
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	hub.Publish(domain.TaskEvent{
		Type:   domain.EventTaskCreated,
		TaskID: 7,
		Task:   &domain.Task{ID: 7, Title: "Buy milk", CreatedAt: at},
		At:     at,
	})
	hub.Publish(domain.TaskEvent{Type: domain.EventTaskDeleted, TaskID: 7, At: at})

	assert.Equal(t, "12:30:00 task.created #7 [ ] Buy milk\n", next())
	assert.Equal(t, "12:30:00 task.deleted #7\n", next())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestWatch_DialError(t *testing.T) {
	err := watch(context.Background(), "ws://127.0.0.1:1/ws/tasks", "", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}
