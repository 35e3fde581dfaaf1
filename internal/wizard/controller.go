// Package wizard drives a project through the numbered phases of one
// workflow. The rule throughout is persist-then-advance: the phase number
// only moves forward after the current phase's draft is durable.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/al211185/edumobile/internal/domain"
)

// ErrBusy is returned when Advance is called while another Advance is
// still persisting.
var ErrBusy = errors.New("phase transition already in progress")

// PersistOptions tunes a single Persist call.
type PersistOptions struct {
	// ShowAlerts marks failures as user-facing; see ShouldAlert.
	ShowAlerts bool
}

// PersistError wraps a failed save of one phase.
type PersistError struct {
	Phase int
	Alert bool
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("saving phase %d: %v", e.Phase, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ShouldAlert reports whether err should be shown to the user. Validation
// errors always are; persistence errors only when requested.
func ShouldAlert(err error) bool {
	if err == nil {
		return false
	}
	if domain.IsValidation(err) {
		return true
	}
	var pe *PersistError
	if errors.As(err, &pe) {
		return pe.Alert
	}
	return true
}

// AdvanceResult describes the outcome of Advance.
type AdvanceResult struct {
	Phase     int
	Completed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithReadOnly puts the controller in review mode: nothing is persisted,
// navigation still works.
func WithReadOnly(readOnly bool) Option {
	return func(c *Controller) { c.readOnly = readOnly }
}

// WithFeedbackStore enables Feedback.
func WithFeedbackStore(fs FeedbackStore) Option {
	return func(c *Controller) { c.feedback = fs }
}

// Controller holds the wizard state for one project and workflow.
type Controller struct {
	workflow  Workflow
	projectID string
	store     PhaseStore
	feedback  FeedbackStore
	readOnly  bool

	mu        sync.Mutex
	phase     int
	drafts    map[int]domain.Draft
	record    *domain.PhaseRecord
	advancing bool
}

// New creates a controller positioned at phase 1.
func New(workflow Workflow, projectID string, store PhaseStore, opts ...Option) *Controller {
	c := &Controller{
		workflow:  workflow,
		projectID: projectID,
		store:     store,
		phase:     1,
		drafts:    make(map[int]domain.Draft),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the project's record. A missing record is not an error:
// it is created lazily on the first save.
func (c *Controller) Load(ctx context.Context) error {
	rec, err := c.store.GetRecord(ctx, c.projectID, c.workflow.Name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s record: %w", c.workflow.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = rec.Clone()
	for n := 1; n <= c.workflow.Len(); n++ {
		if d := rec.Phase(n); d != nil {
			c.drafts[n] = d
		}
	}
	if rec.CurrentPhase >= 1 && rec.CurrentPhase <= c.workflow.Len() {
		c.phase = rec.CurrentPhase
	}
	return nil
}

// Workflow returns the workflow definition.
func (c *Controller) Workflow() Workflow { return c.workflow }

// ProjectID returns the project being edited.
func (c *Controller) ProjectID() string { return c.projectID }

// ReadOnly reports whether the controller is in review mode.
func (c *Controller) ReadOnly() bool { return c.readOnly }

// Phase returns the current phase number.
func (c *Controller) Phase() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Draft returns a copy of the cached draft for phase n.
func (c *Controller) Draft(n int) domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drafts[n].Clone()
}

// Record returns a copy of the current record, or nil before the first
// load or save.
func (c *Controller) Record() *domain.PhaseRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.Clone()
}

// SetDraftForPhase merges draft into the draft cache and, optimistically,
// into the local record so later phases can read earlier answers.
func (c *Controller) SetDraftForPhase(n int, draft domain.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[n] = c.drafts[n].Merge(draft)
	if c.record == nil {
		c.record = &domain.PhaseRecord{ProjectID: c.projectID, Workflow: c.workflow.Name}
	}
	c.record.MergePhase(n, draft)
}

// Persist saves data as phase n. The server response, when present and
// decodable, supplies the record identity, timestamps and phase n, with
// the local drafts of other phases laid back on top; otherwise the local
// draft is kept as the source of truth. Read-only controllers return nil immediately.
func (c *Controller) Persist(ctx context.Context, n int, data domain.Draft, opts PersistOptions) error {
	if c.readOnly {
		return nil
	}
	if _, ok := c.workflow.Step(n); !ok {
		return fmt.Errorf("%s has no phase %d", c.workflow.Name, n)
	}

	recordID, err := c.ensureRecord(ctx)
	if err != nil {
		return &PersistError{Phase: n, Alert: opts.ShowAlerts, Err: err}
	}

	resp, err := c.store.UpdatePhase(ctx, c.workflow.Name, recordID, n, data)
	if err != nil && !errors.Is(err, domain.ErrMalformedResponse) {
		return &PersistError{Phase: n, Alert: opts.ShowAlerts, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	saved := data.Clone()
	if err == nil && resp != nil {
		merged := resp.Clone()
		for m, d := range c.drafts {
			if m != n && len(d) > 0 {
				// Answers for other phases may not have reached the server yet.
				merged.MergePhase(m, d)
			}
		}
		c.record = merged
		if d := resp.Phase(n); d != nil {
			saved = d
		}
	} else {
		if c.record == nil {
			c.record = &domain.PhaseRecord{ID: recordID, ProjectID: c.projectID, Workflow: c.workflow.Name}
		}
		c.record.MergePhase(n, data)
	}
	c.drafts[n] = saved
	return nil
}

// Advance persists the current phase and moves to the next one. It
// reports completion instead of moving past the last phase. On any
// failure the phase number is left unchanged.
func (c *Controller) Advance(ctx context.Context) (AdvanceResult, error) {
	c.mu.Lock()
	if c.advancing {
		c.mu.Unlock()
		return AdvanceResult{Phase: c.phase}, ErrBusy
	}
	n := c.phase
	draft := c.drafts[n].Clone()
	c.advancing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.advancing = false
		c.mu.Unlock()
	}()

	if !c.readOnly {
		if len(draft) == 0 {
			return AdvanceResult{Phase: n}, &domain.ValidationError{Phase: n}
		}
		if err := c.workflow.Validate(n, draft); err != nil {
			return AdvanceResult{Phase: n}, err
		}
		if err := c.Persist(ctx, n, draft, PersistOptions{ShowAlerts: true}); err != nil {
			return AdvanceResult{Phase: n}, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != n {
		// Navigation happened while saving; leave it where the user put it.
		return AdvanceResult{Phase: c.phase}, nil
	}
	if n >= c.workflow.Len() {
		return AdvanceResult{Phase: n, Completed: true}, nil
	}
	c.phase = n + 1
	return AdvanceResult{Phase: c.phase}, nil
}

// Retreat moves back one phase without persisting. Phase 1 is the floor.
func (c *Controller) Retreat() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase > 1 {
		c.phase--
	}
	return c.phase
}

// Feedback loads professor feedback for the current phase.
func (c *Controller) Feedback(ctx context.Context) ([]domain.Feedback, error) {
	if c.feedback == nil {
		return nil, nil
	}
	return c.feedback.ListFeedback(ctx, c.projectID, c.workflow.Name, c.Phase())
}

func (c *Controller) ensureRecord(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.record != nil && c.record.ID != "" {
		id := c.record.ID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	rec, err := c.store.CreateRecord(ctx, c.projectID, c.workflow.Name)
	if err != nil {
		return "", fmt.Errorf("creating %s record: %w", c.workflow.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record == nil {
		c.record = rec.Clone()
	} else {
		// Keep optimistic local phase data, adopt the server identity.
		c.record.ID = rec.ID
		c.record.CreatedAt = rec.CreatedAt
		c.record.UpdatedAt = rec.UpdatedAt
	}
	return rec.ID, nil
}
