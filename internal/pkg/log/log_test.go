package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"trip-planner/internal/pkg/ctxkey"

	"github.com/stretchr/testify/assert"
)

func TestContextHandlerAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := ctxkey.WithValue(context.Background(), ctxkey.TraceID, "trace-abc")
	ctx = ctxkey.WithValue(ctx, ctxkey.SessionID, "0123456789abcdef")
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, "trace_id=trace-abc")
	assert.Contains(t, out, "session_id=01234567")
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestStructuredLoggerErrorAttachesError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	logger.Error("dispatch failed", errors.New("connection refused"), String("component", "suggestion"))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `error="connection refused"`)
	assert.Contains(t, out, "component=suggestion")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
