package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(1, 2)

// RenderBox frames content, with title upper-cased above it when given.
func RenderBox(title, content string) string {
	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// HumanTimestamp is HumanTimestampFrom against the wall clock.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom renders t relative to now: "Just now", "5m ago" and
// "3h ago" within a day, then a calendar label. Zero times show "--".
func HumanTimestampFrom(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	switch age := now.Sub(t); {
	case age < 0 || age >= 24*time.Hour:
		return HumanDateFrom(t, now)
	case age < time.Minute:
		return "Just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age/time.Minute))
	default:
		return fmt.Sprintf("%dh ago", int(age/time.Hour))
	}
}

// HumanDateFrom is "Today", "Yesterday" or "Jan 2, 2006", in now's zone.
func HumanDateFrom(t, now time.Time) string {
	t = t.In(now.Location())
	day := t.Format(time.DateOnly)
	switch day {
	case now.Format(time.DateOnly):
		return "Today"
	case now.AddDate(0, 0, -1).Format(time.DateOnly):
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// TruncID dims the first block of a UUID.
func TruncID(id string) string {
	return Dim(id[:min(len(id), 8)])
}

// Truncate cuts s to width runes, the last one an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	switch {
	case width <= 0:
		return ""
	case len(r) <= width:
		return s
	}
	return string(r[:width-1]) + "…"
}
