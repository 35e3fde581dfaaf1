package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/al211185/edumobile/internal/domain"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Success reports whether the call returned nil.
func (e UseCaseEvent) Success() bool { return e.Err == nil }

// UseCaseObserver receives one event per service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one slog text line per call to w. Refused
// input and missing records log at warn, other failures at error. A nil w
// gives a no-op observer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, e UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", e.Name),
		slog.Int64("duration_ms", e.Duration.Milliseconds()),
		slog.Bool("success", e.Success()),
	}
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		attrs = append(attrs, slog.Any(k, e.Fields[k]))
	}

	level := slog.LevelInfo
	switch {
	case e.Err == nil:
	case errors.Is(e.Err, domain.ErrNotFound), errors.Is(e.Err, domain.ErrInvalid):
		level = slog.LevelWarn
	default:
		level = slog.LevelError
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	if i := slices.IndexFunc(observers, func(o UseCaseObserver) bool { return o != nil }); i >= 0 {
		return observers[i]
	}
	return NoopUseCaseObserver{}
}

// track starts timing a call. The caller defers the returned func with its
// named error; fields may still be filled in before it runs.
func track(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(err error) {
	start := time.Now().UTC()
	return func(err error) {
		obs.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: start,
			Duration:  time.Since(start),
			Err:       err,
			Fields:    fields,
		})
	}
}
