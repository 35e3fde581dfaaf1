package server

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// RequestEvent describes one handled request.
type RequestEvent struct {
	Method   string
	Route    string
	Path     string
	Status   int
	Duration time.Duration
}

// Observer receives handled requests.
type Observer interface {
	ObserveRequest(ctx context.Context, event RequestEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveRequest(context.Context, RequestEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs requests as slog text to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveRequest(ctx context.Context, e RequestEvent) {
	attrs := []any{
		"method", e.Method,
		"route", e.Route,
		"path", e.Path,
		"status", e.Status,
		"duration_ms", e.Duration.Milliseconds(),
	}
	if e.Status >= 500 {
		o.logger.ErrorContext(ctx, "http_request", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "http_request", attrs...)
}
