package cli

import (
	"fmt"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// feedbackView shows the professor's notes for one phase in a scrollable
// viewport.
type feedbackView struct {
	state    *SharedState
	workflow domain.Workflow
	phase    int
	vp       viewport.Model
}

func newFeedbackView(state *SharedState, workflow domain.Workflow, phase int, items []domain.Feedback) *feedbackView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight())
	vp.SetContent(formatter.FormatFeedback(items))
	return &feedbackView{state: state, workflow: workflow, phase: phase, vp: vp}
}

func (v *feedbackView) Init() tea.Cmd { return nil }

func (v *feedbackView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, popView()
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *feedbackView) View() string { return v.vp.View() }

func (v *feedbackView) ID() ViewID { return ViewFeedback }
func (v *feedbackView) Title() string {
	return fmt.Sprintf("%s feedback · phase %d", v.workflow.Label(), v.phase)
}
func (v *feedbackView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}
