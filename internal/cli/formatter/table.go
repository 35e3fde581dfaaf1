package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// gutter separates table columns.
const gutter = "  "

// RenderTable lays out rows under orange headers and a dim rule. Cells may
// already carry ANSI styling; widths are measured as displayed. Rows
// shorter than headers are padded with blanks.
func RenderTable(headers []string, rows [][]string) string {
	n := len(headers)
	if n == 0 {
		return ""
	}

	grid := make([][]string, 0, len(rows)+2)
	head := make([]string, n)
	for i, h := range headers {
		head[i] = StyleHeader.Render(h)
	}
	grid = append(grid, head, nil)
	for _, row := range rows {
		cells := make([]string, n)
		copy(cells, row)
		grid = append(grid, cells)
	}

	widths := make([]int, n)
	for _, cells := range grid {
		for i, c := range cells {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	rule := make([]string, n)
	for i, w := range widths {
		rule[i] = Dim(strings.Repeat("─", w))
	}
	grid[1] = rule

	var b strings.Builder
	for _, cells := range grid {
		for i, c := range cells {
			b.WriteString(c)
			if i < n-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)) + gutter)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
