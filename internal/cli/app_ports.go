package cli

import (
	"context"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/kanban"
	"github.com/al211185/edumobile/internal/wizard"
)

// ProjectAPI lists and creates projects on the backend.
type ProjectAPI interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, ref string) (*domain.Project, error)
	CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error)
}

// PhaseAPI persists workflow records.
type PhaseAPI interface {
	wizard.PhaseStore
}

// BoardAPI reads, creates and moves development-board items.
type BoardAPI interface {
	kanban.ItemStore
	ListItems(ctx context.Context, developmentPhaseID string) ([]domain.KanbanItem, error)
	CreateItem(ctx context.Context, developmentPhaseID string, item domain.KanbanItem) (*domain.KanbanItem, error)
}

// FeedbackAPI reads and writes professor feedback.
type FeedbackAPI interface {
	wizard.FeedbackStore
	CreateFeedback(ctx context.Context, fb domain.Feedback) (*domain.Feedback, error)
	UpdateFeedback(ctx context.Context, id, body string) (*domain.Feedback, error)
}
