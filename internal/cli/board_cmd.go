package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/kanban"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Development-phase task board",
	}

	cmd.AddCommand(
		newBoardOpenCmd(app),
		newBoardAddCmd(app),
		newBoardMoveCmd(app),
	)

	return cmd
}

// loadBoard resolves the project's development phase and fetches its items.
func loadBoard(ctx context.Context, app *App, ref string, readOnly bool) (*domain.Project, *kanban.Board, error) {
	p, err := resolveProject(ctx, app, ref)
	if err != nil {
		return nil, nil, err
	}
	dev, err := developmentPhase(ctx, app, p.ID)
	if err != nil {
		return nil, nil, err
	}
	items, err := app.Board.ListItems(ctx, dev.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, kanban.NewBoard(dev.ID, items, app.Board, kanban.WithReadOnly(readOnly)), nil
}

func boardColumns(b *kanban.Board) [][]domain.KanbanItem {
	out := make([][]domain.KanbanItem, len(domain.KanbanColumns))
	for i, status := range domain.KanbanColumns {
		out[i] = b.Column(status)
	}
	return out
}

func newBoardOpenCmd(app *App) *cobra.Command {
	var review bool

	cmd := &cobra.Command{
		Use:   "open PROJECT",
		Short: "Open the task board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, board, err := loadBoard(context.Background(), app, args[0], review)
			if err != nil {
				return err
			}
			if !app.interactive() {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoardText(boardColumns(board)))
				return nil
			}

			state := &SharedState{App: app, Project: p, ReadOnly: review}
			return app.runProgram(newAppModel(state, newBoardView(state, board)))
		},
	}

	cmd.Flags().BoolVar(&review, "review", false, "Open read-only")

	return cmd
}

func newBoardAddCmd(app *App) *cobra.Command {
	var title, description, status string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a task to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			column, err := parseColumn(status)
			if err != nil {
				return err
			}
			dev, err := developmentPhase(ctx, app, p.ID)
			if err != nil {
				return err
			}

			item, err := app.Board.CreateItem(ctx, dev.ID, domain.KanbanItem{
				Title:       strings.TrimSpace(title),
				Description: description,
				Status:      column,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s [%s]\n", item.Title, item.Status.Label(), item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&status, "status", string(domain.KanbanBacklog), "Column (Backlog, Todo, InProgress, Done)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newBoardMoveCmd(app *App) *cobra.Command {
	var to string
	var order int

	cmd := &cobra.Command{
		Use:   "move PROJECT ITEM",
		Short: "Move a task to a column and position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, board, err := loadBoard(ctx, app, args[0], false)
			if err != nil {
				return err
			}
			itemID, err := resolveItem(board, args[1])
			if err != nil {
				return err
			}
			from, _ := board.Find(itemID)

			dest := kanban.Location{Column: from.Column, Index: order - 1}
			if to != "" {
				if dest.Column, err = parseColumn(to); err != nil {
					return err
				}
			}
			if order <= 0 {
				dest.Index = len(board.Column(dest.Column))
				if dest.Column == from.Column {
					dest.Index--
				}
			}

			moved, err := board.HandleDragEnd(ctx, kanban.DragEvent{ItemID: itemID, Source: from, Destination: &dest})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !moved {
				fmt.Fprintln(out, "Nothing to move.")
				return nil
			}
			fmt.Fprint(out, formatter.FormatBoardText(boardColumns(board)))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination column (default: same column)")
	cmd.Flags().IntVar(&order, "order", 0, "1-based position in the destination column (default: last)")

	return cmd
}

// resolveItem matches an item by ID, ID prefix, or exact title.
func resolveItem(b *kanban.Board, ref string) (string, error) {
	var matches []string
	for _, it := range b.Items() {
		switch {
		case it.ID == ref:
			return it.ID, nil
		case strings.HasPrefix(it.ID, ref), strings.EqualFold(it.Title, ref):
			matches = append(matches, it.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func parseColumn(s string) (domain.KanbanStatus, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	for _, status := range domain.KanbanColumns {
		if strings.ToLower(string(status)) == norm {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown column %q (want Backlog, Todo, InProgress or Done)", s)
}
