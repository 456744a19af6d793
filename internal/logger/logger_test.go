package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := Logger
	t.Cleanup(func() { Logger = original })

	Logger = slog.New(NewHandler(&buf, Config{
		Level:       level,
		Format:      "json",
		TimeFormat:  time.RFC3339,
		ServiceName: "test-service",
		Environment: "test",
	}))
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []StructuredLogEntry {
	t.Helper()
	var entries []StructuredLogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry StructuredLogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestStructuredJSONHandler_Fields(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	Info(context.Background(), "Test message", "key", "value", "response_status", 200)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "Test message", entry.Message)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "test-service", entry.Service)
	assert.Equal(t, "test", entry.Environment)
	assert.Equal(t, "value", entry.Attributes["key"])
	assert.Equal(t, float64(200), entry.Response["status"])
}

func TestStructuredJSONHandler_ContextValues(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithComponent(ctx, ComponentNames.AgentFlow)
	ctx = WithStage(ctx, LogStages.Transcribe)
	ctx = WithProvider(ctx, "groq")

	Warn(ctx, "stage slow")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].Request["request_id"])
	assert.Equal(t, "AgentFlow", entries[0].Component)
	assert.Equal(t, "Transcribe", entries[0].Stage)
	assert.Equal(t, "groq", entries[0].Attributes["provider"])
}

func TestError_RecordsErrorSection(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	Error(context.Background(), "call failed", errors.New("boom"), "operation", "chat")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Error["message"])
	assert.Equal(t, "chat", entries[0].Attributes["operation"])
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogger(t, LevelWarn)

	Debug(context.Background(), "hidden")
	Info(context.Background(), "hidden too")
	Warn(context.Background(), "shown")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0].Message)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestRequestIDFrom(t *testing.T) {
	assert.Empty(t, RequestIDFrom(context.Background()))
	assert.Equal(t, "abc", RequestIDFrom(WithRequestID(context.Background(), "abc")))
}
