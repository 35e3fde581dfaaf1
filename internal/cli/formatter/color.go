package formatter

import (
	"strings"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette (gruvbox dark).
var (
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	StyleFg     = fg(ColorFg)
	StyleDim    = fg(ColorDim)
	StyleRed    = fg(ColorRed)
	StyleGreen  = fg(ColorGreen)
	StyleYellow = fg(ColorYellow)
	StyleBlue   = fg(ColorBlue)
	StylePurple = fg(ColorPurple)
	StyleHeader = fg(ColorHeader).Bold(true)
	StyleBold   = fg(ColorFg).Bold(true)
)

// A workflow and the board column at the same stage share an accent:
// planning/todo blue, development/in-progress yellow, evaluation/done green.
var (
	workflowAccent = map[domain.Workflow]lipgloss.Style{
		domain.WorkflowPlanning:    StyleBlue,
		domain.WorkflowDesign:      StylePurple,
		domain.WorkflowDevelopment: StyleYellow,
		domain.WorkflowEvaluation:  StyleGreen,
	}
	columnAccent = map[domain.KanbanStatus]lipgloss.Style{
		domain.KanbanTodo:       StyleBlue,
		domain.KanbanInProgress: StyleYellow,
		domain.KanbanDone:       StyleGreen,
	}
)

// ColumnStyle is the heading accent of a board column; backlog is dim.
func ColumnStyle(status domain.KanbanStatus) lipgloss.Style {
	if s, ok := columnAccent[status]; ok {
		return s
	}
	return StyleDim
}

func WorkflowBadge(w domain.Workflow) string {
	if s, ok := workflowAccent[w]; ok {
		return s.Render(w.Label())
	}
	return Dim(string(w))
}

// Header is an upper-cased orange title over a dim rule of equal width.
func Header(text string) string {
	title := strings.ToUpper(text)
	return StyleHeader.Render(title) + "\n" + Dim(strings.Repeat("─", lipgloss.Width(title)))
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
