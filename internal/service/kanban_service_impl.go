package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/repository"
	"github.com/google/uuid"
)

type kanbanService struct {
	records  repository.PhaseRecordRepo
	items    repository.KanbanRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewKanbanService(
	records repository.PhaseRecordRepo,
	items repository.KanbanRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) KanbanService {
	return &kanbanService{
		records:  records,
		items:    items,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *kanbanService) List(ctx context.Context, developmentPhaseID string) ([]*domain.KanbanItem, error) {
	if err := s.requireDevelopment(ctx, s.records, developmentPhaseID); err != nil {
		return nil, err
	}
	return s.items.ListByPhase(ctx, developmentPhaseID)
}

// Create appends item to the end of its column. An empty status means
// Backlog.
func (s *kanbanService) Create(ctx context.Context, developmentPhaseID string, item *domain.KanbanItem) (err error) {
	done := track(ctx, s.observer, "create-kanban-item", map[string]any{"development_phase": developmentPhaseID})
	defer func() { done(err) }()

	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return fmt.Errorf("item title is required: %w", domain.ErrInvalid)
	}
	if item.Status == "" {
		item.Status = domain.KanbanBacklog
	}
	if !item.Status.Valid() {
		return fmt.Errorf("unknown column %q: %w", item.Status, domain.ErrInvalid)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		records := repository.NewSQLitePhaseRecordRepo(tx)
		items := repository.NewSQLiteKanbanRepo(tx)

		if err := s.requireDevelopment(ctx, records, developmentPhaseID); err != nil {
			return err
		}
		column, err := items.ListColumn(ctx, developmentPhaseID, item.Status)
		if err != nil {
			return err
		}

		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		item.DevelopmentPhaseID = developmentPhaseID
		item.Position = len(column)
		item.CreatedAt = now
		item.UpdatedAt = now
		return items.Create(ctx, item)
	})
}

func (s *kanbanService) Move(ctx context.Context, developmentPhaseID, itemID string, move domain.KanbanMove) (moved *domain.KanbanItem, err error) {
	done := track(ctx, s.observer, "move-kanban-item", map[string]any{
		"development_phase": developmentPhaseID,
		"item":              itemID,
		"status":            string(move.Status),
		"order":             move.Order,
	})
	defer func() { done(err) }()

	if !move.Status.Valid() {
		return nil, fmt.Errorf("unknown column %q: %w", move.Status, domain.ErrInvalid)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteKanbanRepo(tx)

		item, err := items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item.DevelopmentPhaseID != developmentPhaseID {
			return fmt.Errorf("kanban item %s in %s: %w", itemID, developmentPhaseID, domain.ErrNotFound)
		}

		source, err := items.ListColumn(ctx, developmentPhaseID, item.Status)
		if err != nil {
			return err
		}
		source = without(source, itemID)

		dest := source
		if move.Status != item.Status {
			dest, err = items.ListColumn(ctx, developmentPhaseID, move.Status)
			if err != nil {
				return err
			}
		}

		idx := clamp(move.Order, 0, len(dest))
		crossColumn := move.Status != item.Status
		item.Status = move.Status
		dest = append(dest[:idx:idx], append([]*domain.KanbanItem{item}, dest[idx:]...)...)

		now := time.Now().UTC()
		if crossColumn {
			if err := renumberColumn(ctx, items, source, itemID, now); err != nil {
				return err
			}
		}
		if err := renumberColumn(ctx, items, dest, itemID, now); err != nil {
			return err
		}
		item.UpdatedAt = now
		moved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *kanbanService) requireDevelopment(ctx context.Context, records repository.PhaseRecordRepo, id string) error {
	rec, err := records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Workflow != domain.WorkflowDevelopment {
		return fmt.Errorf("development phase %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// renumberColumn writes 0..n-1 positions. Rows already in place are
// skipped, except the moved item whose column may have changed.
func renumberColumn(ctx context.Context, items repository.KanbanRepo, column []*domain.KanbanItem, movedID string, at time.Time) error {
	for i, it := range column {
		if it.Position == i && it.ID != movedID {
			continue
		}
		if err := items.SetPlacement(ctx, it.ID, it.Status, i, at); err != nil {
			return err
		}
		it.Position = i
	}
	return nil
}

func without(items []*domain.KanbanItem, id string) []*domain.KanbanItem {
	out := make([]*domain.KanbanItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
