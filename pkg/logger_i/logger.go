package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/akolanti/pdfchat/internal/config"
)

type Logger struct {
	inner *slog.Logger
}

// Init installs the process wide handler. JSON in production, text otherwise.
func Init(isProd bool, level string) {
	InitWriter(os.Stdout, isProd, level)
}

func InitWriter(w io.Writer, isProd bool, level string) {
	options := &slog.HandlerOptions{
		Level: parseLevel(level, isProd),
	}

	var handler slog.Handler
	if isProd {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string, isProd bool) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		if isProd {
			return config.LOG_LEVEL_PROD
		}
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if isProd {
		return config.LOG_LEVEL_PROD
	}
	return slog.LevelDebug
}

func NewLogger(section string) *Logger {
	return &Logger{
		inner: slog.Default().With("component", section),
	}
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		inner: l.inner.With(args...),
	}
}

// WithTrace attaches the request trace id, when the context carries one.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		return l.With("traceId", trace)
	}
	return l
}
