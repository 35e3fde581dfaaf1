// Package autosave debounces draft persistence. Every change re-arms a
// trailing-edge timer; when the draft stays quiet for the configured delay
// the latest value is saved. Flush bypasses the timer so callers can make
// a draft durable before navigating away.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/al211185/edumobile/internal/snapshot"
)

// DefaultDelay is the quiet period used when no delay is configured.
const DefaultDelay = 2 * time.Second

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("autosave scheduler closed")

// State is the scheduler's position in its save cycle.
type State int

const (
	Idle State = iota
	PendingSave
	Saving
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingSave:
		return "pending"
	case Saving:
		return "saving"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SaveFunc persists a payload. It may fail; failures are surfaced, never
// retried.
type SaveFunc[P any] func(ctx context.Context, payload P) error

// BuildFunc turns the current draft into the payload handed to SaveFunc.
type BuildFunc[D, P any] func(draft D) P

// Identity is a BuildFunc that saves the draft as is.
func Identity[D any](draft D) D { return draft }

type options struct {
	name     string
	delay    time.Duration
	enabled  bool
	clock    Clock
	observer Observer
	onError  func(error)
	onSaved  func()
	ctx      context.Context
}

// Option configures a Scheduler.
type Option func(*options)

// WithDelay sets the debounce quiet period.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithEnabled starts the scheduler enabled or disabled (read-only).
func WithEnabled(enabled bool) Option {
	return func(o *options) { o.enabled = enabled }
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithObserver routes save events to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithName labels the scheduler in logged events.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithOnError registers a callback for failed saves.
func WithOnError(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithOnSaved registers a callback for successful saves.
func WithOnSaved(fn func()) Option {
	return func(o *options) { o.onSaved = fn }
}

// WithContext sets the parent context for timer-triggered saves. Close
// cancels the derived context.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// Scheduler debounces saves of drafts of type D, persisted as payloads of
// type P. At most one save is in flight at a time; a save requested while
// another runs waits for it and then re-checks whether anything is left
// to persist.
type Scheduler[D, P any] struct {
	save  SaveFunc[P]
	build BuildFunc[D, P]
	opts  options

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	err        error
	latest     D
	latestSnap string
	hasLatest  bool
	lastSaved  string
	failedSnap string
	savingSnap string
	timer      Timer
	gen        uint64
	inflight   chan struct{}
	enabled    bool
	closed     bool
}

// New creates a scheduler. build may be nil only when D and P are the
// same type, in which case the draft is saved unchanged.
func New[D, P any](save SaveFunc[P], build BuildFunc[D, P], opts ...Option) *Scheduler[D, P] {
	o := options{
		name:     "autosave",
		delay:    DefaultDelay,
		enabled:  true,
		clock:    realClock{},
		observer: NoopObserver{},
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if build == nil {
		build = func(d D) P {
			p, ok := any(d).(P)
			if !ok {
				panic("autosave: nil BuildFunc requires identical draft and payload types")
			}
			return p
		}
	}
	ctx, cancel := context.WithCancel(o.ctx)
	return &Scheduler[D, P]{
		save:    save,
		build:   build,
		opts:    o,
		ctx:     ctx,
		cancel:  cancel,
		enabled: o.enabled,
	}
}

// SetBaseline records d as already persisted, typically the record just
// loaded from the server, so an unchanged form never triggers a save.
func (s *Scheduler[D, P]) SetBaseline(d D) error {
	snap, err := snapshot.Serialize(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = snap
	if !s.hasLatest {
		s.latest = d
		s.latestSnap = snap
	}
	return nil
}

// Schedule reports a draft change. Unchanged drafts (by snapshot) leave the
// scheduler idle; anything else re-arms the debounce timer.
func (s *Scheduler[D, P]) Schedule(d D) error {
	snap, err := snapshot.Serialize(d)
	if err != nil {
		s.mu.Lock()
		s.state = Error
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.latest = d
	s.latestSnap = snap
	s.hasLatest = true

	if !s.enabled {
		return nil
	}
	if s.state == Saving {
		if snap == s.savingSnap {
			// The in-flight save already carries this content.
			s.stopTimerLocked()
			return nil
		}
		s.armLocked()
		return nil
	}
	if snap == s.lastSaved {
		s.stopTimerLocked()
		if s.state == PendingSave || s.state == Error {
			s.state = Idle
			s.err = nil
		}
		return nil
	}
	if s.state == Error && snap == s.failedSnap {
		// Same content that just failed: wait for a real edit.
		return nil
	}

	s.armLocked()
	s.state = PendingSave
	return nil
}

// Flush cancels any pending timer and saves immediately. When nothing
// changed since the last save it returns true without calling SaveFunc,
// unless force is set. A disabled scheduler always returns true so
// read-only callers can navigate freely. Callers must not navigate when
// Flush returns false.
func (s *Scheduler[D, P]) Flush(ctx context.Context, force bool) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if !s.enabled {
		s.mu.Unlock()
		return true, nil
	}
	s.stopTimerLocked()
	s.gen++
	if s.state == PendingSave {
		s.state = Idle
	}
	s.mu.Unlock()

	return s.run(ctx, TriggerFlush, force)
}

// Cancel drops a pending save without persisting it.
func (s *Scheduler[D, P]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.gen++
	if s.state == PendingSave {
		s.state = Idle
	}
}

// Close cancels pending work and aborts a timer-triggered save in flight.
// It is the teardown hook for the view owning the scheduler.
func (s *Scheduler[D, P]) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.gen++
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// SetEnabled switches read-only mode. Disabling cancels a pending timer.
func (s *Scheduler[D, P]) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	if !enabled {
		s.stopTimerLocked()
		s.gen++
		if s.state == PendingSave {
			s.state = Idle
		}
	}
}

// State returns the current state.
func (s *Scheduler[D, P]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the state together with the error of the last failed
// save, read atomically so the error is non-nil whenever the state is
// Error.
func (s *Scheduler[D, P]) Status() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}

// Err returns the error of the last failed save, or nil.
func (s *Scheduler[D, P]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Dirty reports whether the latest draft differs from the last save.
func (s *Scheduler[D, P]) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasLatest && s.latestSnap != s.lastSaved
}

func (s *Scheduler[D, P]) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	// Errors are reported through the observer and OnError hook.
	_, _ = s.run(s.ctx, TriggerTimer, false)
}

func (s *Scheduler[D, P]) run(ctx context.Context, trigger Trigger, force bool) (bool, error) {
	for {
		s.mu.Lock()
		if ch := s.inflight; ch != nil {
			s.mu.Unlock()
			select {
			case <-ch:
				continue
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		if !s.hasLatest || (!force && s.latestSnap == s.lastSaved) {
			s.settleLocked()
			s.mu.Unlock()
			return true, nil
		}

		draft := s.latest
		snap := s.latestSnap
		done := make(chan struct{})
		s.inflight = done
		s.savingSnap = snap
		s.state = Saving
		s.mu.Unlock()

		start := time.Now()
		err := s.save(ctx, s.build(draft))
		elapsed := time.Since(start)

		s.mu.Lock()
		s.inflight = nil
		s.savingSnap = ""
		close(done)
		if err != nil {
			s.state = Error
			s.err = err
			s.failedSnap = snap
		} else {
			s.lastSaved = snap
			s.err = nil
			s.failedSnap = ""
			if s.latestSnap != snap && s.timer == nil && s.enabled && !s.closed {
				// An edit landed mid-save without re-arming; pick it up.
				s.armLocked()
			}
			s.settleLocked()
		}
		s.mu.Unlock()

		s.opts.observer.ObserveSave(ctx, SaveEvent{
			Name:     s.opts.name,
			Trigger:  trigger,
			Duration: elapsed,
			Success:  err == nil,
			Err:      err,
		})
		if err != nil {
			if s.opts.onError != nil {
				s.opts.onError(err)
			}
			return false, err
		}
		if s.opts.onSaved != nil {
			s.opts.onSaved()
		}
		return true, nil
	}
}

// settleLocked picks Idle or PendingSave depending on whether a timer is
// still armed.
func (s *Scheduler[D, P]) settleLocked() {
	s.err = nil
	if s.timer != nil {
		s.state = PendingSave
		return
	}
	s.state = Idle
}

// armLocked (re)starts the debounce timer under a fresh generation.
func (s *Scheduler[D, P]) armLocked() {
	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.timer = s.opts.clock.AfterFunc(s.opts.delay, func() { s.fire(gen) })
}

func (s *Scheduler[D, P]) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
