package logging

import (
	"context"
	"log/slog"
	"time"
)

const (
	FieldComponent     = "component"
	FieldCorrelationID = "correlation_id"
	FieldPath          = "path"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
)

// String returns a slog attribute with a string value.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns a slog attribute with an int value.
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Int64 returns a slog attribute with an int64 value.
func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

// Bool returns a slog attribute with a bool value.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns a slog attribute with a duration value.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Any returns a slog attribute with an arbitrary value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns a slog attribute containing the provided error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Any("error", err)
}

// Args converts attributes into variadic arguments accepted by slog logging methods.
func Args(attrs ...slog.Attr) []any {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]any, len(attrs))
	for i, attr := range attrs {
		out[i] = attr
	}
	return out
}

// NewComponentLogger returns a logger annotated with the component field.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if component == "" {
		return logger
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that carries an event type and a remediation hint.
func WarnWithContext(logger *slog.Logger, msg, eventType, hint string, attrs ...any) {
	if logger == nil {
		return
	}
	fields := append([]any{String(FieldEventType, eventType)}, attrs...)
	if hint != "" {
		fields = append(fields, String(FieldErrorHint, hint))
	}
	logger.Warn(msg, fields...)
}

// NoopHandler discards all log records.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h NoopHandler) WithGroup(string) slog.Handler           { return h }

// NewNop returns a logger that discards all output.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}
