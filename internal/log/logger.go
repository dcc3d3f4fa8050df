package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

var CorrelatedIDKey contextKey = "correlation_id"

const LoggerKeyForContext contextKey = "logger"

type Logger struct {
	*slog.Logger
}

// NewLoggerWithJSONOutput writes JSON lines to stdout at the level named by LOG_LEVEL (default info).
func NewLoggerWithJSONOutput() *Logger {
	return NewLoggerWithWriter(os.Stdout, levelFromEnv())
}

func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewDiscardLogger is used by tests that do not care about log output.
func NewDiscardLogger() *Logger {
	return NewLoggerWithWriter(io.Discard, slog.LevelError)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	id := GetOrGenerateCorrelationID(ctx)

	return &Logger{
		Logger: l.Logger.With(string(CorrelatedIDKey), id),
	}
}

func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

func GetOrGenerateCorrelationID(ctx context.Context) string {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return id
	}

	return GenerateCorrelationID()
}

// CorrelationIDFromContext returns "" when the request carries no correlation ID.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(CorrelatedIDKey).(string); ok {
		return id
	}

	return ""
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelatedIDKey, id)
}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerKeyForContext, logger)
}

func GetLoggerInstanceFromContext(ctx context.Context, fallbackLogger *Logger) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(LoggerKeyForContext).(*Logger); ok && l != nil {
			return l
		}

		if fallbackLogger != nil {
			return fallbackLogger.WithCorrelationID(ctx)
		}
		return NewLoggerWithJSONOutput().WithCorrelationID(ctx)
	}

	if fallbackLogger != nil {
		return fallbackLogger
	}

	return NewLoggerWithJSONOutput()
}
