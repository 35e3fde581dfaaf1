package formatter

import (
	"fmt"
	"strings"
)

// RenderProgress renders a bar like [████░░░░] 2/4. Green once complete.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	filled := 0
	if total > 0 {
		filled = min(done*width/total, width)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleYellow
	switch {
	case total > 0 && done >= total:
		style = StyleGreen
	case done == 0:
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}

// RenderSteps renders a numbered stepper such as " 1 ─[2]─ 3 ". The
// current step is bracketed and earlier steps are green.
func RenderSteps(current, total int) string {
	parts := make([]string, 0, total)
	for n := 1; n <= total; n++ {
		label := fmt.Sprintf("%d", n)
		switch {
		case n == current:
			parts = append(parts, StyleHeader.Render("["+label+"]"))
		case n < current:
			parts = append(parts, StyleGreen.Render(" "+label+" "))
		default:
			parts = append(parts, StyleDim.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, Dim("─"))
}
