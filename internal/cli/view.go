package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewPhase ViewID = iota
	ViewBoard
	ViewForm
	ViewFeedback
)

// View is a screen on the stack. Title is its breadcrumb; ShortHelp feeds
// the hint line.
type View interface {
	tea.Model
	ID() ViewID
	Title() string
	ShortHelp() []key.Binding
}

// Optional view capabilities, checked with type assertions.
type (
	// inputCapturer views get every key, q and esc included, while a
	// text field is focused.
	inputCapturer interface{ CapturesInput() bool }
	// closer views release timers when they leave the stack.
	closer interface{ Close() }
)

func viewCapturesInput(v View) bool {
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}

func closeView(v View) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

// viewStack is the breadcrumb trail; the root view is never popped.
type viewStack []View

func (s viewStack) top() View {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (s viewStack) replaceTop(v View) {
	if len(s) > 0 {
		s[len(s)-1] = v
	}
}

// pop closes and drops the top view unless it is the root.
func (s viewStack) pop() viewStack {
	if len(s) <= 1 {
		return s
	}
	closeView(s.top())
	return s[:len(s)-1]
}

func (s viewStack) closeAll() {
	for i := len(s) - 1; i >= 0; i-- {
		closeView(s[i])
	}
}

// Messages views send to the app model.
type (
	pushViewMsg struct{ view View }
	popViewMsg  struct{}
	// cmdOutputMsg sets the status line until the next key press.
	cmdOutputMsg struct{ output string }
	// formDoneMsg pops the top form, then runs nextCmd.
	formDoneMsg struct{ nextCmd tea.Cmd }
	quitMsg     struct{}
)

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func outputCmd(s string) tea.Cmd {
	if s == "" {
		return nil
	}
	return func() tea.Msg { return cmdOutputMsg{output: s} }
}

func finishForm(next tea.Cmd) tea.Cmd {
	return func() tea.Msg { return formDoneMsg{nextCmd: next} }
}
