package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/al211185/edumobile/internal/domain"
)

// FormatRecord summarises a workflow record: current phase and the saved
// fields of each phase in key order.
func FormatRecord(project *domain.Project, rec *domain.PhaseRecord, phases int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(project.Name), Dim("["+project.Ref()+"]")))
	if rec == nil {
		b.WriteString(Dim("Not started."))
		return RenderBox("", b.String())
	}

	b.WriteString(fmt.Sprintf("%s  %s\n", WorkflowBadge(rec.Workflow), RenderSteps(rec.CurrentPhase, phases)))
	b.WriteString(Dim("Updated "+HumanTimestamp(rec.UpdatedAt)) + "\n")

	nums := make([]int, 0, len(rec.Phases))
	for n := range rec.Phases {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		b.WriteString("\n" + StyleHeader.Render(fmt.Sprintf("Phase %d", n)) + "\n")
		b.WriteString(FormatDraft(rec.Phases[n]))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatDraft renders draft fields as "key: value" lines in key order.
func FormatDraft(d domain.Draft) string {
	if len(d) == 0 {
		return Dim("  (empty)") + "\n"
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render(k+":"), draftValue(d[k])))
	}
	return b.String()
}

func draftValue(v any) string {
	switch t := v.(type) {
	case nil:
		return Dim("--")
	case string:
		if t == "" {
			return Dim("--")
		}
		return StyleFg.Render(strings.ReplaceAll(t, "\n", " "))
	case bool:
		if t {
			return StyleGreen.Render("yes")
		}
		return Dim("no")
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return StyleFg.Render(strings.Join(parts, ", "))
	case []string:
		return StyleFg.Render(strings.Join(t, ", "))
	default:
		return StyleFg.Render(fmt.Sprint(t))
	}
}

// FormatFeedback renders professor feedback entries oldest first.
func FormatFeedback(items []domain.Feedback) string {
	if len(items) == 0 {
		return Dim("No feedback yet.")
	}
	var b strings.Builder
	for i, fb := range items {
		author := fb.Author
		if author == "" {
			author = "professor"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", StylePurple.Render(author), Dim(HumanTimestamp(fb.CreatedAt)), TruncID(fb.ID)))
		b.WriteString(StyleFg.Render(fb.Body))
		if i < len(items)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
