package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// Format selects the output encoding of the structured logger.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// StackTraceHandler is a handler that adds stack trace to error records
// and extracts request_id from context
type StackTraceHandler struct {
	slog.Handler
}

func (h *StackTraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
			r.AddAttrs(slog.String("request_id", reqID))
		}
	}

	if r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stack_trace", string(buf[:n])))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *StackTraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StackTraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *StackTraceHandler) WithGroup(name string) slog.Handler {
	return &StackTraceHandler{Handler: h.Handler.WithGroup(name)}
}

// NewHandler builds the handler used by the service. Console output is
// colored by tint and meant for local development only.
func NewHandler(w io.Writer, level slog.Leveler, format Format) slog.Handler {
	addSource := level.Level() == slog.LevelDebug

	var handler slog.Handler
	switch format {
	case FormatConsole:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  addSource,
			TimeFormat: time.DateTime,
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: addSource,
		})
	}

	return &StackTraceHandler{Handler: handler}
}

// InitStructuredLogger initialize structured logger
func InitStructuredLogger(level slog.Leveler, format Format) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
}
