package repository

import (
	"context"
	"time"

	"github.com/al211185/edumobile/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type PhaseRecordRepo interface {
	Create(ctx context.Context, r *domain.PhaseRecord) error
	GetByID(ctx context.Context, id string) (*domain.PhaseRecord, error)
	GetByProject(ctx context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.PhaseRecord, error)
	SavePhase(ctx context.Context, recordID string, phase int, data domain.Draft, at time.Time) error
	SetCurrentPhase(ctx context.Context, recordID string, phase int, at time.Time) error
}

type KanbanRepo interface {
	Create(ctx context.Context, item *domain.KanbanItem) error
	GetByID(ctx context.Context, id string) (*domain.KanbanItem, error)
	ListByPhase(ctx context.Context, developmentPhaseID string) ([]*domain.KanbanItem, error)
	ListColumn(ctx context.Context, developmentPhaseID string, status domain.KanbanStatus) ([]*domain.KanbanItem, error)
	SetPlacement(ctx context.Context, id string, status domain.KanbanStatus, position int, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type FeedbackRepo interface {
	Create(ctx context.Context, f *domain.Feedback) error
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByPhase(ctx context.Context, projectID string, workflow domain.Workflow, phase int) ([]*domain.Feedback, error)
	UpdateBody(ctx context.Context, id, body string, at time.Time) error
}
