package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/al211185/edumobile/internal/autosave"
	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/propagate"
	"github.com/al211185/edumobile/internal/wizard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// autosaveTick re-renders while a save is pending so the status line
// catches up with timer-driven saves.
const autosaveTick = 500 * time.Millisecond

var phaseKeys = struct {
	Next, Prev, Feedback key.Binding
}{
	Next:     key.NewBinding(key.WithKeys("ctrl+n", "pgdown"), key.WithHelp("→/ctrl+n", "next phase")),
	Prev:     key.NewBinding(key.WithKeys("ctrl+p", "pgup"), key.WithHelp("←/ctrl+p", "previous")),
	Feedback: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "feedback")),
}

type phaseNavMsg struct {
	result wizard.AdvanceResult
	dir    wizard.Direction
	err    error
}

type phaseFeedbackMsg struct {
	phase int
	items []domain.Feedback
	err   error
}

type autosaveTickMsg struct{}

// phaseView edits one workflow phase at a time. Edits flow from the form
// through a propagator into the controller and the phase's autosave
// scheduler; navigation flushes the scheduler before moving.
type phaseView struct {
	state *SharedState
	ctrl  *wizard.Controller
	ctx   context.Context
	stop  context.CancelFunc

	bus    *wizard.KeyBus
	detach func()
	prop   *propagate.Propagator[domain.Draft]

	phase     int
	form      *phaseForm
	saver     *autosave.Scheduler[domain.Draft, domain.Draft]
	feedback  []domain.Feedback
	busy      bool
	completed bool
	status    string
	requested *wizard.Direction
}

func newPhaseView(state *SharedState, ctrl *wizard.Controller) *phaseView {
	ctx, stop := context.WithCancel(context.Background())
	v := &phaseView{
		state: state,
		ctrl:  ctrl,
		ctx:   ctx,
		stop:  stop,
		bus:   wizard.NewKeyBus(),
	}
	v.prop = propagate.New(func(d domain.Draft) {
		v.ctrl.SetDraftForPhase(v.phase, d)
		if v.saver != nil {
			if err := v.saver.Schedule(d); err != nil {
				v.status = errorLine(err)
			}
		}
	})
	v.detach = wizard.Attach(v.bus, v.focus, func(dir wizard.Direction) {
		v.requested = &dir
	})
	v.mount(ctrl.Phase())
	return v
}

// mount swaps in the form and autosave scheduler for phase n, tearing down
// the previous phase's scheduler.
func (v *phaseView) mount(n int) {
	if v.saver != nil {
		v.saver.Close()
	}
	v.phase = n
	v.form = nil

	draft := v.ctrl.Draft(n)
	if draft == nil {
		draft = domain.Draft{}
	}
	step, _ := v.ctrl.Workflow().Step(n)
	if !v.ctrl.ReadOnly() {
		v.form = newPhaseForm(step, draft)
	}

	phase := n
	opts := []autosave.Option{
		autosave.WithName(fmt.Sprintf("%s-phase-%d", v.ctrl.Workflow().Name, n)),
		autosave.WithEnabled(!v.ctrl.ReadOnly()),
		autosave.WithContext(v.ctx),
	}
	if cfg := v.state.App.Config; cfg.AutosaveDelayMs > 0 {
		opts = append(opts, autosave.WithDelay(cfg.AutosaveDelay()))
	}
	if !v.state.App.Config.AutosaveEnabled {
		opts = append(opts, autosave.WithEnabled(false))
	}
	if v.state.App.Config.LogCalls && v.state.App.Log != nil {
		opts = append(opts, autosave.WithObserver(autosave.NewLogObserver(v.state.App.Log)))
	}
	v.saver = autosave.New(func(ctx context.Context, d domain.Draft) error {
		return v.ctrl.Persist(ctx, phase, d, wizard.PersistOptions{})
	}, autosave.Identity[domain.Draft], opts...)
	if err := v.saver.SetBaseline(draft); err != nil {
		v.status = errorLine(fmt.Errorf("autosave baseline: %w", err))
	}
}

func (v *phaseView) focus() wizard.Focus {
	if v.form == nil {
		return wizard.FocusNone
	}
	switch v.form.form.GetFocusedField().(type) {
	case *huh.Input:
		return wizard.FocusTextInput
	case *huh.Text:
		return wizard.FocusTextArea
	case nil:
		return wizard.FocusNone
	default:
		return wizard.FocusControl
	}
}

func (v *phaseView) Init() tea.Cmd {
	cmds := []tea.Cmd{v.loadFeedback()}
	if v.form != nil {
		cmds = append(cmds, v.form.form.Init())
	}
	return tea.Batch(cmds...)
}

func (v *phaseView) loadFeedback() tea.Cmd {
	ctrl, ctx, phase := v.ctrl, v.ctx, v.phase
	return func() tea.Msg {
		items, err := ctrl.Feedback(ctx)
		return phaseFeedbackMsg{phase: phase, items: items, err: err}
	}
}

// navigate flushes pending edits and then moves in dir. Navigation is
// refused when the flush fails.
func (v *phaseView) navigate(dir wizard.Direction) tea.Cmd {
	if v.busy {
		return nil
	}
	v.busy = true
	v.status = formatter.Dim("Saving…")
	saver, ctrl, ctx := v.saver, v.ctrl, v.ctx
	return func() tea.Msg {
		if ok, err := saver.Flush(ctx, false); !ok {
			if err == nil {
				err = fmt.Errorf("unsaved changes")
			}
			return phaseNavMsg{dir: dir, result: wizard.AdvanceResult{Phase: ctrl.Phase()}, err: err}
		}
		var out phaseNavMsg
		ctrl.Navigator(ctx, func(res wizard.AdvanceResult, err error) {
			out = phaseNavMsg{dir: dir, result: res, err: err}
		})(dir)
		return out
	}
}

func (v *phaseView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case phaseNavMsg:
		return v, v.handleNav(msg)

	case phaseFeedbackMsg:
		if msg.phase == v.phase {
			v.feedback = msg.items
			if msg.err != nil {
				v.status = errorLine(fmt.Errorf("loading feedback: %w", msg.err))
			}
		}
		return v, nil

	case autosaveTickMsg:
		return v, v.tickIfBusy()

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch {
		case msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight:
			k := wizard.KeyLeft
			if msg.Type == tea.KeyRight {
				k = wizard.KeyRight
			}
			v.requested = nil
			v.bus.Publish(wizard.KeyEvent{Key: k})
			if v.requested != nil {
				dir := *v.requested
				v.requested = nil
				return v, v.navigate(dir)
			}
		case key.Matches(msg, phaseKeys.Next):
			return v, v.navigate(wizard.Forward)
		case key.Matches(msg, phaseKeys.Prev):
			return v, v.navigate(wizard.Back)
		case key.Matches(msg, phaseKeys.Feedback):
			return v, pushView(newFeedbackView(v.state, v.ctrl.Workflow().Name, v.phase, v.feedback))
		}
	}

	if v.form == nil {
		return v, nil
	}
	return v, v.updateForm(msg)
}

func (v *phaseView) updateForm(msg tea.Msg) tea.Cmd {
	model, cmd := v.form.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form.form = f
	}

	var tick tea.Cmd
	if v.prop.Propagate(v.form.Draft(), strconv.Itoa(v.phase)) {
		tick = v.tickIfBusy()
	}

	if v.form.form.State == huh.StateCompleted {
		return tea.Batch(cmd, v.navigate(wizard.Forward))
	}
	return tea.Batch(cmd, tick)
}

func (v *phaseView) tickIfBusy() tea.Cmd {
	switch v.saver.State() {
	case autosave.PendingSave, autosave.Saving:
		return tea.Tick(autosaveTick, func(time.Time) tea.Msg { return autosaveTickMsg{} })
	}
	return nil
}

func (v *phaseView) handleNav(msg phaseNavMsg) tea.Cmd {
	v.busy = false
	v.status = ""

	if msg.err != nil {
		if wizard.ShouldAlert(msg.err) {
			v.status = errorLine(msg.err)
		}
		// A completed huh form cannot take more input; rebuild it.
		if v.form != nil && v.form.form.State != huh.StateNormal {
			v.mount(v.phase)
			return v.form.form.Init()
		}
		return nil
	}

	if msg.result.Completed {
		v.completed = true
		v.status = formatter.StyleGreen.Render("✔ ") + v.ctrl.Workflow().Name.Label() + " complete"
		if v.form != nil && v.form.form.State != huh.StateNormal {
			v.mount(v.phase)
			return v.form.form.Init()
		}
		return nil
	}

	if msg.result.Phase == v.phase && (v.form == nil || v.form.form.State == huh.StateNormal) {
		return nil
	}
	v.mount(msg.result.Phase)
	cmds := []tea.Cmd{v.loadFeedback()}
	if v.form != nil {
		cmds = append(cmds, v.form.form.Init())
	}
	return tea.Batch(cmds...)
}

// Flush saves pending edits; called by the app before exiting.
func (v *phaseView) Flush(ctx context.Context) error {
	if v.saver == nil {
		return nil
	}
	_, err := v.saver.Flush(ctx, false)
	return err
}

// Close releases the key subscription and the active scheduler.
func (v *phaseView) Close() {
	if v.detach != nil {
		v.detach()
		v.detach = nil
	}
	if v.saver != nil {
		v.saver.Close()
	}
	v.stop()
}

// CapturesInput routes q and esc to the form while a text field is focused.
func (v *phaseView) CapturesInput() bool { return v.focus().Typing() }

func (v *phaseView) View() string {
	wf := v.ctrl.Workflow()
	step, _ := wf.Step(v.phase)

	var b strings.Builder
	b.WriteString(formatter.WorkflowBadge(wf.Name) + "  " + formatter.RenderSteps(v.phase, wf.Len()) + "\n")
	b.WriteString(formatter.StyleHeader.Render(fmt.Sprintf("Phase %d · %s", v.phase, step.Title)))
	if n := len(v.feedback); n > 0 {
		b.WriteString("  " + formatter.StylePurple.Render(fmt.Sprintf("%d feedback note(s)", n)))
	}
	b.WriteString("\n\n")

	if v.form != nil {
		b.WriteString(v.form.form.View())
	} else {
		b.WriteString(formatter.FormatDraft(v.ctrl.Draft(v.phase)))
	}
	b.WriteString("\n")
	b.WriteString(v.saveStatus())
	if v.status != "" {
		b.WriteString("\n" + v.status)
	}
	return b.String()
}

func (v *phaseView) saveStatus() string {
	if v.ctrl.ReadOnly() {
		return formatter.StyleYellow.Render("Read-only review")
	}
	state, err := v.saver.Status()
	switch state {
	case autosave.PendingSave:
		return formatter.StyleYellow.Render("● Unsaved changes")
	case autosave.Saving:
		return formatter.Dim("Saving…")
	case autosave.Error:
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		return formatter.StyleRed.Render("✖ Autosave failed: ") + formatter.Dim(msg)
	default:
		if v.saver.Dirty() {
			return formatter.StyleYellow.Render("● Unsaved changes")
		}
		return formatter.StyleGreen.Render("✔ Saved")
	}
}

func (v *phaseView) ID() ViewID { return ViewPhase }
func (v *phaseView) Title() string {
	return v.ctrl.Workflow().Name.Label()
}
func (v *phaseView) ShortHelp() []key.Binding {
	return []key.Binding{phaseKeys.Next, phaseKeys.Prev, phaseKeys.Feedback}
}
