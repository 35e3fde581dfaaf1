package formatter

import (
	"strings"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var projectHeaders = []string{"ID", "NAME", "COURSE", "STUDENT", "UPDATED"}

// FormatProjectList boxes one row per project, keyed by the ref the
// student types back into commands.
func FormatProjectList(projects []domain.Project) string {
	rows := make([][]string, len(projects))
	for i := range projects {
		p := &projects[i]
		rows[i] = []string{
			cell(p.Ref(), StyleGreen),
			Bold(p.Name),
			cell(p.Course, StyleFg),
			cell(p.Student, StyleFg),
			Dim(HumanTimestamp(p.UpdatedAt)),
		}
	}
	return RenderBox("Projects", RenderTable(projectHeaders, rows))
}

func cell(s string, style lipgloss.Style) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return style.Render(s)
}
