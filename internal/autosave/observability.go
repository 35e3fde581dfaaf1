package autosave

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Trigger says what started a save.
type Trigger string

const (
	TriggerTimer Trigger = "timer"
	TriggerFlush Trigger = "flush"
)

// SaveEvent captures one persistence attempt.
type SaveEvent struct {
	Name     string
	Trigger  Trigger
	Duration time.Duration
	Success  bool
	Err      error
}

// Observer receives save events for logging.
type Observer interface {
	ObserveSave(ctx context.Context, event SaveEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveSave(context.Context, SaveEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes save events to w as slog text records.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveSave(ctx context.Context, event SaveEvent) {
	attrs := []any{
		"scheduler", event.Name,
		"trigger", string(event.Trigger),
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "autosave", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "autosave", attrs...)
}
