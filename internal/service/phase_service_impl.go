package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/repository"
	"github.com/al211185/edumobile/internal/wizard"
	"github.com/google/uuid"
)

type phaseService struct {
	projects repository.ProjectRepo
	records  repository.PhaseRecordRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPhaseService(
	projects repository.ProjectRepo,
	records repository.PhaseRecordRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PhaseService {
	return &phaseService{
		projects: projects,
		records:  records,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *phaseService) Get(ctx context.Context, projectRef string, workflow domain.Workflow) (*domain.PhaseRecord, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	return s.records.GetByProject(ctx, p.ID, workflow)
}

func (s *phaseService) Create(ctx context.Context, projectRef string, workflow domain.Workflow) (rec *domain.PhaseRecord, err error) {
	done := track(ctx, s.observer, "create-record", map[string]any{"project": projectRef, "workflow": string(workflow)})
	defer func() { done(err) }()

	if _, err := domain.ParseWorkflow(string(workflow)); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalid)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		records := repository.NewSQLitePhaseRecordRepo(tx)

		p, err := resolveProject(ctx, projects, projectRef)
		if err != nil {
			return err
		}
		existing, err := records.GetByProject(ctx, p.ID, workflow)
		if err == nil {
			rec = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		rec = &domain.PhaseRecord{
			ID:           uuid.New().String(),
			ProjectID:    p.ID,
			Workflow:     workflow,
			CurrentPhase: 1,
			Phases:       map[int]domain.Draft{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return records.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *phaseService) ListByProject(ctx context.Context, projectRef string) ([]*domain.PhaseRecord, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	return s.records.ListByProject(ctx, p.ID)
}

// SavePhase replaces the data of one phase. The record's current phase
// only ever moves forward.
func (s *phaseService) SavePhase(ctx context.Context, workflow domain.Workflow, recordID string, phase int, data domain.Draft) (rec *domain.PhaseRecord, err error) {
	fields := map[string]any{"workflow": string(workflow), "record": recordID, "phase": phase}
	done := track(ctx, s.observer, "save-phase", fields)
	defer func() { done(err) }()

	if err := checkPhase(workflow, phase); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		records := repository.NewSQLitePhaseRecordRepo(tx)

		current, err := records.GetByID(ctx, recordID)
		if err != nil {
			return err
		}
		if current.Workflow != workflow {
			return fmt.Errorf("%s record %s: %w", workflow, recordID, domain.ErrNotFound)
		}

		now := time.Now().UTC()
		if err := records.SavePhase(ctx, recordID, phase, data, now); err != nil {
			return err
		}
		if phase > current.CurrentPhase {
			if err := records.SetCurrentPhase(ctx, recordID, phase, now); err != nil {
				return err
			}
		}
		rec, err = records.GetByID(ctx, recordID)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["current_phase"] = rec.CurrentPhase
	return rec, nil
}

// checkPhase bounds phase by the workflow's wizard definition. Workflows
// without one accept any positive phase.
func checkPhase(workflow domain.Workflow, phase int) error {
	if _, err := domain.ParseWorkflow(string(workflow)); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalid)
	}
	if phase < 1 {
		return fmt.Errorf("phase %d: %w", phase, domain.ErrInvalid)
	}
	def, err := wizard.ForName(workflow)
	if err != nil {
		return nil
	}
	if phase > def.Len() {
		return fmt.Errorf("%s has %d phases, got %d: %w", workflow, def.Len(), phase, domain.ErrInvalid)
	}
	return nil
}
