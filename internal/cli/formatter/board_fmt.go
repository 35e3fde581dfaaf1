package formatter

import (
	"fmt"
	"strings"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// CardCursor selects one card on a rendered board. Column -1 renders no
// cursor.
type CardCursor struct {
	Column  int
	Index   int
	Grabbed bool
}

// columnGap is the blank space between board columns.
const columnGap = 2

// NoCursor renders a board without a selection.
var NoCursor = CardCursor{Column: -1}

// FormatBoard renders the kanban columns side by side. columns must be
// ordered like domain.KanbanColumns.
func FormatBoard(columns [][]domain.KanbanItem, cursor CardCursor, width int) string {
	n := len(domain.KanbanColumns)
	colWidth := 22
	if width > 0 {
		colWidth = max((width-(n-1)*columnGap)/n, 12)
	}

	rendered := make([]string, 0, n)
	for c, status := range domain.KanbanColumns {
		var items []domain.KanbanItem
		if c < len(columns) {
			items = columns[c]
		}
		rendered = append(rendered, renderColumn(status, items, c, cursor, colWidth))
		if c < n-1 {
			rendered = append(rendered, strings.Repeat(" ", columnGap))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(status domain.KanbanStatus, items []domain.KanbanItem, col int, cursor CardCursor, width int) string {
	var b strings.Builder
	title := fmt.Sprintf("%s (%d)", strings.ToUpper(status.Label()), len(items))
	b.WriteString(ColumnStyle(status).Bold(true).Render(Truncate(title, width)))
	b.WriteString("\n")
	b.WriteString(Dim(strings.Repeat("─", width)))
	b.WriteString("\n")

	if len(items) == 0 {
		marker := "  "
		if cursor.Column == col {
			marker = StyleHeader.Render("› ")
		}
		b.WriteString(marker + Dim("empty"))
	}
	for i, it := range items {
		selected := cursor.Column == col && cursor.Index == i
		text := Truncate(it.Title, width-2)
		switch {
		case selected && cursor.Grabbed:
			b.WriteString(StyleYellow.Render("» " + text))
		case selected:
			b.WriteString(StyleHeader.Render("› ") + StyleBold.Render(text))
		default:
			b.WriteString("  " + StyleFg.Render(text))
		}
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// FormatBoardText renders a plain, column-by-column listing for
// non-interactive output.
func FormatBoardText(columns [][]domain.KanbanItem) string {
	var b strings.Builder
	for c, status := range domain.KanbanColumns {
		var items []domain.KanbanItem
		if c < len(columns) {
			items = columns[c]
		}
		b.WriteString(ColumnStyle(status).Bold(true).Render(status.Label()))
		b.WriteString(Dim(fmt.Sprintf(" (%d)", len(items))))
		b.WriteString("\n")
		for _, it := range items {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", Dim(fmt.Sprintf("%d.", it.Position+1)), it.Title, TruncID(it.ID)))
		}
	}
	return b.String()
}
