package service

import (
	"context"

	"github.com/al211185/edumobile/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	// Get accepts either the project UUID or its short ID.
	Get(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, ref string) error
}

type PhaseService interface {
	Get(ctx context.Context, projectRef string, workflow domain.Workflow) (*domain.PhaseRecord, error)
	// Create returns the existing record when the project already has one
	// for workflow.
	Create(ctx context.Context, projectRef string, workflow domain.Workflow) (*domain.PhaseRecord, error)
	ListByProject(ctx context.Context, projectRef string) ([]*domain.PhaseRecord, error)
	SavePhase(ctx context.Context, workflow domain.Workflow, recordID string, phase int, data domain.Draft) (*domain.PhaseRecord, error)
}

type KanbanService interface {
	List(ctx context.Context, developmentPhaseID string) ([]*domain.KanbanItem, error)
	Create(ctx context.Context, developmentPhaseID string, item *domain.KanbanItem) error
	// Move places one item at a column-local index and renumbers the
	// affected columns.
	Move(ctx context.Context, developmentPhaseID, itemID string, move domain.KanbanMove) (*domain.KanbanItem, error)
}

type FeedbackService interface {
	List(ctx context.Context, projectRef string, workflow domain.Workflow, phase int) ([]*domain.Feedback, error)
	Create(ctx context.Context, f *domain.Feedback) error
	UpdateBody(ctx context.Context, id, body string) (*domain.Feedback, error)
}
