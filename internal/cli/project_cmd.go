package cli

import (
	"context"
	"fmt"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var shortID, name, course, student string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.Project{ShortID: shortID, Name: name, Course: course, Student: student}
			p.Normalize()
			if p.ShortID == "" {
				return fmt.Errorf("short ID is required (use --id)")
			}
			if err := p.Validate(); err != nil {
				return err
			}

			created, err := app.Projects.CreateProject(context.Background(), p)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", created.Name, created.Ref())
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (course code, e.g. WEB01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&course, "course", "", "Course name")
	cmd.Flags().StringVar(&student, "student", "", "Student name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.ListProjects(context.Background())
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a project's progress in every workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", formatter.Bold(p.Name), formatter.Dim("["+p.Ref()+"]"))
			rows := make([][]string, 0, len(domain.Workflows))
			for _, w := range domain.Workflows {
				state := formatter.Dim("not started")
				rec, err := app.Phases.GetRecord(ctx, p.ID, w)
				switch {
				case err == nil:
					state = fmt.Sprintf("phase %d", rec.CurrentPhase)
				case !isNotFound(err):
					return err
				}
				rows = append(rows, []string{formatter.WorkflowBadge(w), state})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"WORKFLOW", "PROGRESS"}, rows))
			return nil
		},
	}
}
