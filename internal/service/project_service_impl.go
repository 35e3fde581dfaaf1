package service

import (
	"context"
	"errors"
	"time"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	done := track(ctx, s.observer, "create-project", map[string]any{"short_id": p.ShortID})
	defer func() { done(err) }()

	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) Get(ctx context.Context, ref string) (*domain.Project, error) {
	return resolveProject(ctx, s.projects, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Delete(ctx context.Context, ref string) (err error) {
	done := track(ctx, s.observer, "delete-project", map[string]any{"project": ref})
	defer func() { done(err) }()

	p, err := resolveProject(ctx, s.projects, ref)
	if err != nil {
		return err
	}
	return s.projects.Delete(ctx, p.ID)
}

// resolveProject looks ref up as a UUID first, then as a short ID.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	p, err := projects.GetByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return projects.GetByShortID(ctx, ref)
}
