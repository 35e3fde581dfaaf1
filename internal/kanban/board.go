// Package kanban keeps a development-phase task board and applies
// drag-and-drop moves to it. Each column holds its own ordered list, so a
// column-local drop index is always the true insertion point.
package kanban

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/al211185/edumobile/internal/domain"
)

// ErrReadOnly is returned when a drag reaches a read-only board.
var ErrReadOnly = errors.New("board is read-only")

// ItemStore persists a single item's new column and order.
type ItemStore interface {
	UpdateItem(ctx context.Context, developmentPhaseID, itemID string, move domain.KanbanMove) error
}

// Location is a column and a column-local index.
type Location struct {
	Column domain.KanbanStatus
	Index  int
}

// DragEvent is the end of a drag gesture. A nil Destination means the drag
// was cancelled.
type DragEvent struct {
	ItemID      string
	Source      Location
	Destination *Location
}

// PendingMove is a locally applied move awaiting server confirmation.
type PendingMove struct {
	ItemID  string
	From    Location
	To      Location
	before  map[domain.KanbanStatus][]domain.KanbanItem
	version uint64
}

// Request returns the body sent to the server for this move.
func (m PendingMove) Request() domain.KanbanMove {
	return domain.KanbanMove{Status: m.To.Column, Order: m.To.Index}
}

// Option configures a Board.
type Option func(*Board)

// WithReadOnly disables drags.
func WithReadOnly(readOnly bool) Option {
	return func(b *Board) { b.readOnly = readOnly }
}

// Board is the ordered item list of one development phase.
type Board struct {
	developmentPhaseID string
	store              ItemStore
	readOnly           bool

	mu      sync.Mutex
	columns map[domain.KanbanStatus][]domain.KanbanItem
	version uint64
}

// NewBoard groups items into columns ordered by Position. Items carrying
// an unknown status land in the first column.
func NewBoard(developmentPhaseID string, items []domain.KanbanItem, store ItemStore, opts ...Option) *Board {
	b := &Board{
		developmentPhaseID: developmentPhaseID,
		store:              store,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset(items)
	return b
}

// Reset replaces the board contents, e.g. after a reload from the server.
func (b *Board) Reset(items []domain.KanbanItem) {
	cols := make(map[domain.KanbanStatus][]domain.KanbanItem, len(domain.KanbanColumns))
	for _, it := range items {
		if !it.Status.Valid() {
			it.Status = domain.KanbanColumns[0]
		}
		cols[it.Status] = append(cols[it.Status], it)
	}
	for status, list := range cols {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
		renumber(list)
		cols[status] = list
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.columns = cols
	b.version++
}

// DevelopmentPhaseID returns the board's owning phase.
func (b *Board) DevelopmentPhaseID() string { return b.developmentPhaseID }

// ReadOnly reports whether drags are disabled.
func (b *Board) ReadOnly() bool { return b.readOnly }

// Column returns a copy of one column in display order.
func (b *Board) Column(status domain.KanbanStatus) []domain.KanbanItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.KanbanItem(nil), b.columns[status]...)
}

// Items returns every item, column by column, in display order.
func (b *Board) Items() []domain.KanbanItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.KanbanItem
	for _, status := range domain.KanbanColumns {
		out = append(out, b.columns[status]...)
	}
	return out
}

// Find returns the current location of an item.
func (b *Board) Find(itemID string) (Location, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(itemID)
}

// Apply performs the local, optimistic half of a drag. It reports false
// for cancelled drags, drops onto the original slot, and unknown items.
func (b *Board) Apply(ev DragEvent) (PendingMove, bool, error) {
	if b.readOnly {
		return PendingMove{}, false, ErrReadOnly
	}
	if ev.Destination == nil {
		return PendingMove{}, false, nil
	}
	dest := *ev.Destination
	if !dest.Column.Valid() {
		return PendingMove{}, false, fmt.Errorf("unknown column %q", dest.Column)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	from, ok := b.findLocked(ev.ItemID)
	if !ok {
		return PendingMove{}, false, nil
	}
	// The event's source may be stale; only the board's own position counts.
	idx := dest.Index
	limit := len(b.columns[dest.Column])
	if dest.Column == from.Column {
		limit--
	}
	if idx < 0 {
		idx = 0
	}
	if idx > limit {
		idx = limit
	}
	if dest.Column == from.Column && idx == from.Index {
		return PendingMove{}, false, nil
	}
	before := b.cloneLocked()

	src := b.columns[from.Column]
	item := src[from.Index]
	src = append(src[:from.Index:from.Index], src[from.Index+1:]...)
	b.columns[from.Column] = src

	dst := b.columns[dest.Column]
	item.Status = dest.Column
	dst = append(dst[:idx:idx], append([]domain.KanbanItem{item}, dst[idx:]...)...)
	b.columns[dest.Column] = dst

	renumber(b.columns[from.Column])
	renumber(b.columns[dest.Column])
	b.version++

	return PendingMove{
		ItemID:  ev.ItemID,
		From:    from,
		To:      Location{Column: dest.Column, Index: idx},
		before:  before,
		version: b.version,
	}, true, nil
}

// Commit sends the move to the server. On failure the move is undone and
// the error returned.
func (b *Board) Commit(ctx context.Context, m PendingMove) error {
	err := b.store.UpdateItem(ctx, b.developmentPhaseID, m.ItemID, m.Request())
	if err != nil {
		b.Rollback(m)
		return fmt.Errorf("moving %s to %s: %w", m.ItemID, m.To.Column.Label(), err)
	}
	return nil
}

// Rollback undoes m. When no other change happened since m was applied
// the exact pre-move snapshot is restored; otherwise only m's item is
// moved back to its original slot.
func (b *Board) Rollback(m PendingMove) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.version == m.version && m.before != nil {
		b.columns = m.before
		b.version++
		return
	}

	cur, ok := b.findLocked(m.ItemID)
	if !ok {
		return
	}
	list := b.columns[cur.Column]
	item := list[cur.Index]
	b.columns[cur.Column] = append(list[:cur.Index:cur.Index], list[cur.Index+1:]...)

	item.Status = m.From.Column
	dst := b.columns[m.From.Column]
	idx := m.From.Index
	if idx > len(dst) {
		idx = len(dst)
	}
	b.columns[m.From.Column] = append(dst[:idx:idx], append([]domain.KanbanItem{item}, dst[idx:]...)...)
	renumber(b.columns[cur.Column])
	renumber(b.columns[m.From.Column])
	b.version++
}

// HandleDragEnd applies a drag optimistically and persists it. It reports
// whether anything moved. A failed request rolls the board back.
func (b *Board) HandleDragEnd(ctx context.Context, ev DragEvent) (bool, error) {
	m, moved, err := b.Apply(ev)
	if err != nil || !moved {
		return false, err
	}
	if err := b.Commit(ctx, m); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Board) findLocked(itemID string) (Location, bool) {
	for _, status := range domain.KanbanColumns {
		for i, it := range b.columns[status] {
			if it.ID == itemID {
				return Location{Column: status, Index: i}, true
			}
		}
	}
	return Location{}, false
}

func (b *Board) cloneLocked() map[domain.KanbanStatus][]domain.KanbanItem {
	out := make(map[domain.KanbanStatus][]domain.KanbanItem, len(b.columns))
	for status, list := range b.columns {
		out[status] = append([]domain.KanbanItem(nil), list...)
	}
	return out
}

func renumber(list []domain.KanbanItem) {
	for i := range list {
		list[i].Position = i
	}
}
