package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/wizard"
	"github.com/spf13/pflag"
)

// resolveProject looks a project up by UUID or short ID. Short IDs are
// matched case-insensitively.
func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	p, err := app.Projects.GetProject(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) && strings.ToUpper(ref) != ref {
		p, err = app.Projects.GetProject(ctx, strings.ToUpper(ref))
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("project not found: %q", ref)
	}
	return p, err
}

// developmentPhase returns the project's development record, creating it
// on first use. Its ID owns the board.
func developmentPhase(ctx context.Context, app *App, projectID string) (*domain.PhaseRecord, error) {
	rec, err := app.Phases.GetRecord(ctx, projectID, domain.WorkflowDevelopment)
	if errors.Is(err, domain.ErrNotFound) {
		return app.Phases.CreateRecord(ctx, projectID, domain.WorkflowDevelopment)
	}
	return rec, err
}

func errorLine(err error) string {
	return formatter.StyleRed.Render("✖ ") + err.Error()
}

// workflowFlag is a pflag.Value accepting workflow names. When stepped is
// set only workflows with a phase wizard are accepted.
type workflowFlag struct {
	value   domain.Workflow
	stepped bool
}

var _ pflag.Value = (*workflowFlag)(nil)

func newWorkflowFlag(def domain.Workflow, stepped bool) *workflowFlag {
	return &workflowFlag{value: def, stepped: stepped}
}

func (f *workflowFlag) String() string { return string(f.value) }
func (f *workflowFlag) Type() string   { return "workflow" }

func (f *workflowFlag) Set(s string) error {
	w, err := domain.ParseWorkflow(s)
	if err != nil {
		return err
	}
	if f.stepped {
		if _, err := wizard.ForName(w); err != nil {
			return err
		}
	}
	f.value = w
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
