package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Read and write professor feedback",
	}

	cmd.AddCommand(
		newFeedbackShowCmd(app),
		newFeedbackAddCmd(app),
		newFeedbackEditCmd(app),
	)

	return cmd
}

func newFeedbackShowCmd(app *App) *cobra.Command {
	workflow := newWorkflowFlag(domain.WorkflowPlanning, false)
	var phase int

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show feedback for one phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			items, err := app.Feedback.ListFeedback(ctx, p.ID, workflow.value, phase)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(fmt.Sprintf("%s · phase %d", workflow.value.Label(), phase)))
			fmt.Fprintln(out, formatter.FormatFeedback(items))
			return nil
		},
	}

	cmd.Flags().Var(workflow, "workflow", "Workflow (planning, design, development, evaluation)")
	cmd.Flags().IntVar(&phase, "phase", 1, "Phase number")

	return cmd
}

func newFeedbackAddCmd(app *App) *cobra.Command {
	workflow := newWorkflowFlag(domain.WorkflowPlanning, false)
	var phase int
	var author, body string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Leave feedback on a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(body) == "" {
				return fmt.Errorf("feedback body is required")
			}

			fb, err := app.Feedback.CreateFeedback(ctx, domain.Feedback{
				ProjectID: p.ID,
				Workflow:  workflow.value,
				Phase:     phase,
				Author:    author,
				Body:      body,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added feedback %s to %s phase %d\n", fb.ID, workflow.value, phase)
			return nil
		},
	}

	cmd.Flags().Var(workflow, "workflow", "Workflow (planning, design, development, evaluation)")
	cmd.Flags().IntVar(&phase, "phase", 1, "Phase number")
	cmd.Flags().StringVar(&author, "author", "", "Author name")
	cmd.Flags().StringVar(&body, "body", "", "Feedback text")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newFeedbackEditCmd(app *App) *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace the text of a feedback entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(body) == "" {
				return fmt.Errorf("feedback body is required")
			}
			fb, err := app.Feedback.UpdateFeedback(context.Background(), args[0], body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated feedback %s\n", fb.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "New feedback text")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}
