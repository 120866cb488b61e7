package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type implLogger struct {
	logger zerolog.Logger
}

type ctxKey struct{}

// New creates a Logger writing JSON lines to stdout.
func New(level string) Logger {
	return NewWithWriter(level, "json", os.Stdout)
}

// NewWithWriter creates a Logger with the given format ("json" or "console").
func NewWithWriter(level, format string, w io.Writer) Logger {
	if strings.ToLower(format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}
	return &implLogger{
		logger: zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(strings.ToLower(level))),
	}
}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, kv ...string) context.Context {
	fields := fieldsFrom(ctx)
	merged := make(map[string]string, len(fields)+len(kv)/2)
	for k, v := range fields {
		merged[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		merged[kv[i]] = kv[i+1]
	}
	return context.WithValue(ctx, ctxKey{}, merged)
}

func fieldsFrom(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).(map[string]string)
	return fields
}

func zerologLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *implLogger) emit(ctx context.Context, ev *zerolog.Event, msg string, args []interface{}) {
	for k, v := range fieldsFrom(ctx) {
		ev = ev.Str(k, v)
	}
	ev.Msgf(msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.logger.Debug(), msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.logger.Info(), msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.logger.Warn(), msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.logger.Error(), msg, args)
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop()}
}
