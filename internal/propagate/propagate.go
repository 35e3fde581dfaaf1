// Package propagate lifts a child form's live draft to its parent without
// flooding the parent on re-renders that carry an identical value.
package propagate

import (
	"sync"

	"github.com/al211185/edumobile/internal/snapshot"
)

// Propagator forwards each distinct draft (by snapshot) to its callback
// exactly once. Changing the reset key clears the dedup cache, so the next
// draft is forwarded even if it matches one sent before.
type Propagator[T any] struct {
	callback func(T)

	mu       sync.Mutex
	last     string
	sent     bool
	resetKey string
}

// New returns a Propagator that forwards drafts to callback.
func New[T any](callback func(T)) *Propagator[T] {
	return &Propagator[T]{callback: callback}
}

// Propagate forwards draft unless its snapshot matches the previously
// forwarded one under the same reset key. It reports whether the callback
// ran. Drafts that cannot be serialized are always forwarded.
func (p *Propagator[T]) Propagate(draft T, resetKey string) bool {
	snap, err := snapshot.Serialize(draft)

	p.mu.Lock()
	if resetKey != p.resetKey {
		p.resetKey = resetKey
		p.sent = false
		p.last = ""
	}
	if err == nil && p.sent && snap == p.last {
		p.mu.Unlock()
		return false
	}
	p.last = snap
	p.sent = err == nil
	p.mu.Unlock()

	if p.callback != nil {
		p.callback(draft)
	}
	return true
}

// Reset clears the dedup cache without changing the reset key.
func (p *Propagator[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = false
	p.last = ""
}
