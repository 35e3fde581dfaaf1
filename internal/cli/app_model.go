package cli

import (
	"context"
	"strings"
	"time"

	"github.com/al211185/edumobile/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
)

// shutdownTimeout bounds the final flush of unsaved drafts on quit.
const shutdownTimeout = 3 * time.Second

// appModel owns the view stack and the status line. Quitting is two-step:
// closing is set while drafts flush, quitting once they have.
type appModel struct {
	state    *SharedState
	views    viewStack
	status   string
	closing  bool
	quitting bool
}

func newAppModel(state *SharedState, root View) appModel {
	return appModel{state: state, views: viewStack{root}}
}

func (m appModel) activeView() View { return m.views.top() }

func (m appModel) Init() tea.Cmd {
	if v := m.views.top(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width, m.state.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.key(msg)
	case pushViewMsg:
		m.status = ""
		m.views = append(m.views, msg.view)
		return m, msg.view.Init()
	case popViewMsg:
		m.views = m.views.pop()
		return m, nil
	case formDoneMsg:
		m.views = m.views.pop()
		m.status = ""
		return m, msg.nextCmd
	case cmdOutputMsg:
		m.status = msg.output
		return m, nil
	case quitMsg:
		m.views.closeAll()
		m.quitting = true
		return m, tea.Quit
	}
	return m.toTop(msg)
}

func (m appModel) toTop(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.views.top()
	if v == nil {
		return m, nil
	}
	next, cmd := v.Update(msg)
	m.views.replaceTop(next.(View))
	return m, cmd
}

func (m appModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.closing:
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m.shutdown()
	}
	m.status = ""

	if viewCapturesInput(m.views.top()) {
		return m.toTop(msg)
	}
	root := len(m.views) == 1
	if msg.String() == "q" || (msg.Type == tea.KeyEsc && root) {
		return m.shutdown()
	}
	return m.toTop(msg)
}

// flusher views hold drafts that must reach the backend before exit.
type flusher interface {
	Flush(ctx context.Context) error
}

// shutdown flushes every flusher on the stack, bottom first, then quits.
// Flush errors are dropped; the program is exiting either way.
func (m appModel) shutdown() (tea.Model, tea.Cmd) {
	m.closing = true
	pending := append(viewStack(nil), m.views...)
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, v := range pending {
			if f, ok := v.(flusher); ok {
				_ = f.Flush(ctx)
			}
		}
		return quitMsg{}
	}
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	if v := m.views.top(); v != nil {
		b.WriteString(v.View())
		b.WriteByte('\n')
	}
	b.WriteString(m.footer())

	// alt-screen diffing leaves stale rows unless every frame is full height
	out := b.String()
	if rows := strings.Count(out, "\n") + 1; rows < m.state.Height {
		out += strings.Repeat("\n", m.state.Height-rows)
	}
	return out
}

func (m appModel) rule() string {
	return formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
}

// header is "edumobile › Planning › Feedback  [WEB01]  review".
func (m appModel) header() string {
	parts := []string{formatter.StylePurple.Render("edumobile")}
	for _, v := range m.views {
		if t := v.Title(); t != "" {
			parts = append(parts, formatter.Dim(t))
		}
	}
	line := strings.Join(parts, formatter.Dim(" › "))

	if p := m.state.Project; p != nil {
		line += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(p.Ref()) + formatter.Dim("]")
	}
	if m.state.ReadOnly {
		line += "  " + formatter.StyleYellow.Render("review")
	}
	return line + "\n" + m.rule()
}

func (m appModel) footer() string {
	var hints []string
	if v := m.views.top(); v != nil {
		for _, b := range v.ShortHelp() {
			h := b.Help()
			hints = append(hints, formatter.Dim(h.Key+": "+h.Desc))
		}
	}
	if len(m.views) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	} else {
		hints = append(hints, formatter.Dim("q: quit"))
	}

	status := m.status
	if m.closing {
		status = formatter.Dim("Saving…")
	}
	return m.rule() + "\n" + status + "\n" + strings.Join(hints, "  ")
}
