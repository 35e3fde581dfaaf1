package cli

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/al211185/edumobile/internal/config"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/google/uuid"
)

// fakeAPI is an in-memory backend for TUI tests. Every port of App is
// served from the same maps; the fail* fields inject request errors.
type fakeAPI struct {
	mu       sync.Mutex
	projects []domain.Project
	records  map[string]*domain.PhaseRecord
	items    []domain.KanbanItem
	feedback []domain.Feedback

	failUpdatePhase error
	failUpdateItem  error

	phaseWrites int
	itemWrites  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{records: map[string]*domain.PhaseRecord{}}
}

// fakeApp wires api into an App whose timers never fire during a test.
func fakeApp(api *fakeAPI) *App {
	cfg := config.DefaultConfig(".")
	cfg.AutosaveDelayMs = 60000
	return &App{
		Config:   cfg,
		Projects: api,
		Phases:   api,
		Board:    api,
		Feedback: api,
	}
}

func (f *fakeAPI) seedProject(t *testing.T, shortID string) domain.Project {
	t.Helper()
	p, err := f.CreateProject(context.Background(), domain.Project{Name: "Proyecto " + shortID, ShortID: shortID})
	if err != nil {
		t.Fatal(err)
	}
	return *p
}

func recordKey(projectID string, workflow domain.Workflow) string {
	return projectID + "/" + string(workflow)
}

func (f *fakeAPI) record(projectID string, workflow domain.Workflow) *domain.PhaseRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[recordKey(projectID, workflow)].Clone()
}

func (f *fakeAPI) ListProjects(context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Project(nil), f.projects...), nil
}

func (f *fakeAPI) GetProject(_ context.Context, ref string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == ref || p.ShortID == ref {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", ref, domain.ErrNotFound)
}

func (f *fakeAPI) CreateProject(_ context.Context, p domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New().String()
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeAPI) GetRecord(_ context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[recordKey(projectID, workflow)]
	if !ok {
		return nil, fmt.Errorf("%s record: %w", workflow, domain.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (f *fakeAPI) CreateRecord(_ context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(projectID, workflow)
	if rec, ok := f.records[key]; ok {
		return rec.Clone(), nil
	}
	rec := &domain.PhaseRecord{ID: uuid.New().String(), ProjectID: projectID, Workflow: workflow, CurrentPhase: 1}
	f.records[key] = rec
	return rec.Clone(), nil
}

func (f *fakeAPI) UpdatePhase(_ context.Context, workflow domain.Workflow, recordID string, phase int, data domain.Draft) (*domain.PhaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdatePhase != nil {
		return nil, f.failUpdatePhase
	}
	for _, rec := range f.records {
		if rec.ID != recordID || rec.Workflow != workflow {
			continue
		}
		f.phaseWrites++
		if rec.Phases == nil {
			rec.Phases = map[int]domain.Draft{}
		}
		rec.Phases[phase] = data.Clone()
		rec.CurrentPhase = max(rec.CurrentPhase, phase)
		return rec.Clone(), nil
	}
	return nil, fmt.Errorf("record %s: %w", recordID, domain.ErrNotFound)
}

func (f *fakeAPI) ListItems(_ context.Context, devID string) ([]domain.KanbanItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.KanbanItem
	for _, it := range f.items {
		if it.DevelopmentPhaseID == devID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return indexOfColumn(out[i].Status) < indexOfColumn(out[j].Status)
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (f *fakeAPI) CreateItem(_ context.Context, devID string, item domain.KanbanItem) (*domain.KanbanItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item.Status == "" {
		item.Status = domain.KanbanBacklog
	}
	item.ID = uuid.New().String()
	item.DevelopmentPhaseID = devID
	for _, it := range f.items {
		if it.DevelopmentPhaseID == devID && it.Status == item.Status {
			item.Position++
		}
	}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, devID, itemID string, move domain.KanbanMove) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateItem != nil {
		return f.failUpdateItem
	}
	f.itemWrites++
	for i, it := range f.items {
		if it.ID == itemID && it.DevelopmentPhaseID == devID {
			f.items[i].Status = move.Status
			f.items[i].Position = move.Order
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
}

func (f *fakeAPI) ListFeedback(_ context.Context, projectID string, workflow domain.Workflow, phase int) ([]domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Feedback
	for _, fb := range f.feedback {
		if fb.ProjectID == projectID && fb.Workflow == workflow && fb.Phase == phase {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateFeedback(_ context.Context, fb domain.Feedback) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb.ID = uuid.New().String()
	f.feedback = append(f.feedback, fb)
	return &fb, nil
}

func (f *fakeAPI) UpdateFeedback(_ context.Context, id, body string) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.feedback {
		if f.feedback[i].ID == id {
			f.feedback[i].Body = body
			out := f.feedback[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("feedback %s: %w", id, domain.ErrNotFound)
}

func (f *fakeAPI) writes() (phases, items int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phaseWrites, f.itemWrites
}
