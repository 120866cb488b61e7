package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "formatted message: test 123")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		emit        func(Logger, context.Context)
		want        bool
	}{
		{"debug logs at debug level", "debug", func(l Logger, ctx context.Context) { l.Debug(ctx, "line") }, true},
		{"info logs at debug level", "debug", func(l Logger, ctx context.Context) { l.Info(ctx, "line") }, true},
		{"debug suppressed at info level", "info", func(l Logger, ctx context.Context) { l.Debug(ctx, "line") }, false},
		{"info logs at info level", "info", func(l Logger, ctx context.Context) { l.Info(ctx, "line") }, true},
		{"error logs at debug level", "debug", func(l Logger, ctx context.Context) { l.Error(ctx, "line") }, true},
		{"warn suppressed at error level", "error", func(l Logger, ctx context.Context) { l.Warn(ctx, "line") }, false},
		{"level is case insensitive", "WARN", func(l Logger, ctx context.Context) { l.Info(ctx, "line") }, false},
		{"unknown level means info", "verbose", func(l Logger, ctx context.Context) { l.Debug(ctx, "line") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(NewWithWriter(tt.configLevel, "json", &buf), context.Background())
			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Error(context.Background(), "dropped %d", 1)
	})
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", "json", &buf)

	ctx := WithFields(context.Background(), "audio_id", "standup")
	ctx = WithFields(ctx, "provider", "gpt-3.5-turbo")
	log.Info(ctx, "summary written")

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "standup", line["audio_id"])
	assert.Equal(t, "gpt-3.5-turbo", line["provider"])
	assert.Equal(t, "summary written", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "console", &buf)
	log.Warn(context.Background(), "disk %s", "full")
	assert.Contains(t, buf.String(), "disk full")
}
