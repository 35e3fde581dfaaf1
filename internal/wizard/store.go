package wizard

import (
	"context"

	"github.com/al211185/edumobile/internal/domain"
)

// PhaseStore is the backend the controller persists through. Each phase
// number maps to its own update endpoint sharing the record ID.
type PhaseStore interface {
	// GetRecord returns domain.ErrNotFound when the project has no record
	// for the workflow yet.
	GetRecord(ctx context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error)
	CreateRecord(ctx context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error)
	// UpdatePhase may return a nil record when the server answers with an
	// empty body, and domain.ErrMalformedResponse when the save succeeded
	// but the body could not be decoded.
	UpdatePhase(ctx context.Context, workflow domain.Workflow, recordID string, phase int, data domain.Draft) (*domain.PhaseRecord, error)
}

// FeedbackStore reads professor feedback for one phase.
type FeedbackStore interface {
	ListFeedback(ctx context.Context, projectID string, workflow domain.Workflow, phase int) ([]domain.Feedback, error)
}
