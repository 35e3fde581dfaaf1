package cli

import (
	"context"
	"io"

	"github.com/al211185/edumobile/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds the backend ports and settings used by CLI commands.
type App struct {
	Config   config.Config
	Projects ProjectAPI
	Phases   PhaseAPI
	Board    BoardAPI
	Feedback FeedbackAPI

	// Serve runs the reference backend until ctx is cancelled. Wired by
	// main so the CLI does not depend on storage packages.
	Serve func(ctx context.Context, addr string) error

	// IsInteractive reports whether stdin is a terminal. TUI commands fall
	// back to plain output when it returns false.
	IsInteractive func() bool

	// RunProgram starts a bubbletea program. Nil means the real terminal.
	RunProgram func(m tea.Model) error

	// Log receives autosave events when call logging is on.
	Log io.Writer
}

// NewRootCmd creates the top-level "edumobile" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "edumobile",
		Short:         "Student project workflows: planning, design and the development board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newProjectCmd(app),
		newWizardCmd(app),
		newBoardCmd(app),
		newFeedbackCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runProgram(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
