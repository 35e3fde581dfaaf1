package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/wizard"
	"github.com/spf13/cobra"
)

func newWizardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Work through the planning and design phases",
	}

	cmd.AddCommand(
		newWizardOpenCmd(app),
		newWizardShowCmd(app),
		newWizardSaveCmd(app),
	)

	return cmd
}

// loadController resolves the project and loads its record for workflow.
func loadController(ctx context.Context, app *App, ref string, wf domain.Workflow, readOnly bool) (*domain.Project, *wizard.Controller, error) {
	p, err := resolveProject(ctx, app, ref)
	if err != nil {
		return nil, nil, err
	}
	def, err := wizard.ForName(wf)
	if err != nil {
		return nil, nil, err
	}
	ctrl := wizard.New(def, p.ID, app.Phases,
		wizard.WithReadOnly(readOnly),
		wizard.WithFeedbackStore(app.Feedback),
	)
	if err := ctrl.Load(ctx); err != nil {
		return nil, nil, err
	}
	return p, ctrl, nil
}

func newWizardOpenCmd(app *App) *cobra.Command {
	workflow := newWorkflowFlag(domain.WorkflowPlanning, true)
	var review bool

	cmd := &cobra.Command{
		Use:   "open PROJECT",
		Short: "Open the phase wizard for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctrl, err := loadController(context.Background(), app, args[0], workflow.value, review)
			if err != nil {
				return err
			}
			if !app.interactive() {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(p, ctrl.Record(), ctrl.Workflow().Len()))
				return nil
			}

			state := &SharedState{App: app, Project: p, ReadOnly: review}
			return app.runProgram(newAppModel(state, newPhaseView(state, ctrl)))
		},
	}

	cmd.Flags().Var(workflow, "workflow", "Workflow to edit (planning, design)")
	cmd.Flags().BoolVar(&review, "review", false, "Open read-only")

	return cmd
}

func newWizardShowCmd(app *App) *cobra.Command {
	workflow := newWorkflowFlag(domain.WorkflowPlanning, true)

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Print the saved phases of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctrl, err := loadController(context.Background(), app, args[0], workflow.value, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(p, ctrl.Record(), ctrl.Workflow().Len()))
			return nil
		},
	}

	cmd.Flags().Var(workflow, "workflow", "Workflow to show (planning, design)")

	return cmd
}

func newWizardSaveCmd(app *App) *cobra.Command {
	workflow := newWorkflowFlag(domain.WorkflowPlanning, true)
	var phase int
	var fields []string
	var advance bool

	cmd := &cobra.Command{
		Use:   "save PROJECT",
		Short: "Save fields of one phase without the TUI",
		Example: `  edumobile wizard save WEB01 --phase 1 --set objective="Sell bread online" --set audience=Locals
  edumobile wizard save WEB01 --workflow design --phase 2 --set responsive=true --advance`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, ctrl, err := loadController(ctx, app, args[0], workflow.value, false)
			if err != nil {
				return err
			}
			if phase == 0 {
				phase = ctrl.Phase()
			}
			step, ok := ctrl.Workflow().Step(phase)
			if !ok {
				return fmt.Errorf("%s has no phase %d", workflow.value, phase)
			}
			draft, err := parseFields(step, fields)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctrl.SetDraftForPhase(phase, draft)
			if !advance {
				if err := ctrl.Persist(ctx, phase, ctrl.Draft(phase), wizard.PersistOptions{ShowAlerts: true}); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved %s phase %d\n", workflow.value, phase)
				return nil
			}

			// Advance works from the controller's current phase. Earlier
			// phases may be walked through only when already complete.
			for ctrl.Phase() > phase {
				ctrl.Retreat()
			}
			for ctrl.Phase() < phase {
				cur := ctrl.Phase()
				if err := ctrl.Workflow().Validate(cur, ctrl.Draft(cur)); err != nil {
					return fmt.Errorf("phase %d is ahead of the saved progress: %w", phase, err)
				}
				if _, err := ctrl.Advance(ctx); err != nil {
					return err
				}
			}
			res, err := ctrl.Advance(ctx)
			if err != nil {
				return err
			}
			if res.Completed {
				fmt.Fprintf(out, "%s complete\n", workflow.value.Label())
				return nil
			}
			fmt.Fprintf(out, "Saved %s phase %d, now on phase %d\n", workflow.value, phase, res.Phase)
			return nil
		},
	}

	cmd.Flags().Var(workflow, "workflow", "Workflow to edit (planning, design)")
	cmd.Flags().IntVar(&phase, "phase", 0, "Phase number (default: current phase)")
	cmd.Flags().StringArrayVar(&fields, "set", nil, "Field value as key=value (repeatable)")
	cmd.Flags().BoolVar(&advance, "advance", false, "Validate and move to the next phase")

	return cmd
}

// parseFields turns key=value pairs into a draft typed by the step's
// field kinds. Checklist values are comma separated.
func parseFields(step wizard.Step, pairs []string) (domain.Draft, error) {
	kinds := make(map[string]wizard.FieldKind, len(step.Fields))
	for _, f := range step.Fields {
		kinds[f.Key] = f.Kind
	}

	draft := domain.Draft{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q (want key=value)", pair)
		}
		kind, known := kinds[k]
		if !known {
			return nil, fmt.Errorf("phase %d (%s) has no field %q", step.Number, step.Title, k)
		}
		switch kind {
		case wizard.FieldCheckbox:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "y", "1":
				draft[k] = true
			case "false", "no", "n", "0", "":
				draft[k] = false
			default:
				return nil, fmt.Errorf("field %q expects yes or no, got %q", k, v)
			}
		case wizard.FieldChecklist:
			var items []string
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			draft[k] = items
		default:
			draft[k] = v
		}
	}
	return draft, nil
}
