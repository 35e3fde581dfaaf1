package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/repository"
	"github.com/google/uuid"
)

type feedbackService struct {
	projects repository.ProjectRepo
	feedback repository.FeedbackRepo
	observer UseCaseObserver
}

func NewFeedbackService(projects repository.ProjectRepo, feedback repository.FeedbackRepo, observers ...UseCaseObserver) FeedbackService {
	return &feedbackService{projects: projects, feedback: feedback, observer: useCaseObserverOrNoop(observers)}
}

func (s *feedbackService) List(ctx context.Context, projectRef string, workflow domain.Workflow, phase int) ([]*domain.Feedback, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	return s.feedback.ListByPhase(ctx, p.ID, workflow, phase)
}

func (s *feedbackService) Create(ctx context.Context, f *domain.Feedback) (err error) {
	done := track(ctx, s.observer, "create-feedback", map[string]any{"project": f.ProjectID, "phase": f.Phase})
	defer func() { done(err) }()

	f.Body = strings.TrimSpace(f.Body)
	if f.Body == "" {
		return fmt.Errorf("feedback body is required: %w", domain.ErrInvalid)
	}
	if f.Phase < 1 {
		return fmt.Errorf("phase %d: %w", f.Phase, domain.ErrInvalid)
	}
	if f.Workflow != "" {
		if _, err := domain.ParseWorkflow(string(f.Workflow)); err != nil {
			return fmt.Errorf("%v: %w", err, domain.ErrInvalid)
		}
	}
	p, err := resolveProject(ctx, s.projects, f.ProjectID)
	if err != nil {
		return err
	}

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	f.ProjectID = p.ID
	f.CreatedAt = now
	f.UpdatedAt = now
	return s.feedback.Create(ctx, f)
}

func (s *feedbackService) UpdateBody(ctx context.Context, id, body string) (f *domain.Feedback, err error) {
	done := track(ctx, s.observer, "update-feedback", map[string]any{"feedback": id})
	defer func() { done(err) }()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("feedback body is required: %w", domain.ErrInvalid)
	}
	if err := s.feedback.UpdateBody(ctx, id, body, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.feedback.GetByID(ctx, id)
}
