package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestInitWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "json")
	t.Cleanup(func() { Init("info", "text") })

	Debug("hidden")
	Info("task created", "id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task created", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := NewContext(context.Background(), scoped)
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")

	assert.Same(t, Get(), FromContext(context.Background()))
}
