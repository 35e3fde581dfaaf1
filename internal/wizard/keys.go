package wizard

import (
	"context"
	"sync"
)

// Key is a navigation key.
type Key int

const (
	KeyLeft Key = iota + 1
	KeyRight
)

// KeyEvent is a key press delivered by a KeySource.
type KeyEvent struct {
	Key Key
}

// Focus describes where keyboard focus currently sits.
type Focus int

const (
	FocusNone Focus = iota
	FocusTextInput
	FocusTextArea
	FocusControl
)

// Typing reports whether arrow keys belong to a text field.
func (f Focus) Typing() bool {
	return f == FocusTextInput || f == FocusTextArea
}

// FocusFunc reports the current focus when a key arrives.
type FocusFunc func() Focus

// KeySource delivers key events to subscribers until they unsubscribe.
type KeySource interface {
	Subscribe(fn func(KeyEvent)) (unsubscribe func())
}

// KeyBus is a synchronous in-process KeySource.
type KeyBus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(KeyEvent)
}

// NewKeyBus returns an empty bus.
func NewKeyBus() *KeyBus {
	return &KeyBus{subs: make(map[int]func(KeyEvent))}
}

// Subscribe registers fn. The returned func is idempotent.
func (b *KeyBus) Subscribe(fn func(KeyEvent)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber on the calling goroutine.
func (b *KeyBus) Publish(ev KeyEvent) {
	b.mu.Lock()
	fns := make([]func(KeyEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *KeyBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Direction is a requested navigation step.
type Direction int

const (
	Back Direction = iota - 1
	_
	Forward
)

// NavigateFunc acts on a navigation request.
type NavigateFunc func(Direction)

// Attach subscribes nav to left/right arrows from src. Keys pressed while
// focus is in a text input or text area are ignored so cursor movement is
// never hijacked. The returned detach func must be called on teardown.
func Attach(src KeySource, focus FocusFunc, nav NavigateFunc) (detach func()) {
	return src.Subscribe(func(ev KeyEvent) {
		if focus != nil && focus().Typing() {
			return
		}
		switch ev.Key {
		case KeyLeft:
			nav(Back)
		case KeyRight:
			nav(Forward)
		}
	})
}

// Navigator returns a NavigateFunc that drives c directly: Forward runs
// Advance with ctx, Back runs Retreat. done, when set, receives each
// outcome.
func (c *Controller) Navigator(ctx context.Context, done func(AdvanceResult, error)) NavigateFunc {
	return func(dir Direction) {
		switch dir {
		case Forward:
			res, err := c.Advance(ctx)
			if done != nil {
				done(res, err)
			}
		case Back:
			phase := c.Retreat()
			if done != nil {
				done(AdvanceResult{Phase: phase}, nil)
			}
		}
	}
}
