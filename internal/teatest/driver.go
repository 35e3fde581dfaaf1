// Package teatest steps bubbletea models by hand in tests.
//
// A Driver never starts a tea.Program. It calls Update itself, runs each
// returned Cmd on the spot and feeds the resulting message back, depth
// first, until nothing is pending. A Cmd still running after the command
// timeout is abandoned, which is how timers and cursor blinks stay out of
// a test.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxSteps caps the Cmds run for a single Send.
const MaxSteps = 500

// DefaultCmdTimeout is well under a cursor blink (about 530ms) and well
// over any in-memory request.
const DefaultCmdTimeout = 50 * time.Millisecond

type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.Quit Cmd has run; later sends are ignored.
	Quitting bool

	timeout time.Duration
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// New wraps model. Init is not run until DrainInit.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init())
}

// Send delivers msg and runs everything it triggers.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd)
}

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Press sends a special key such as tea.KeyEnter or tea.KeyCtrlN.
func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) PressEnter() { d.T.Helper(); d.Press(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.Press(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.Press(tea.KeyCtrlC) }

// Type sends s rune by rune. A space goes out as tea.KeySpace, the way a
// terminal reports it.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		if r != ' ' {
			d.PressKey(r)
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}})
	}
}

func (d *Driver) View() string { return d.Model.View() }

// run works through cmd and its follow-ups with an explicit stack. Batch
// members are pushed in reverse so the first one, and everything it
// leads to, runs before the second.
func (d *Driver) run(cmd tea.Cmd) {
	d.T.Helper()
	pending := []tea.Cmd{cmd}
	for steps := 0; len(pending) > 0; steps++ {
		if steps == MaxSteps {
			d.T.Logf("teatest: gave up after %d cmds", MaxSteps)
			return
		}
		next := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if next == nil {
			continue
		}

		switch msg := d.call(next).(type) {
		case nil:
		case tea.BatchMsg:
			for i := len(msg) - 1; i >= 0; i-- {
				pending = append(pending, msg[i])
			}
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
			return
		default:
			if isBlink(msg) {
				continue
			}
			var follow tea.Cmd
			d.Model, follow = d.Model.Update(msg)
			pending = append(pending, follow)
		}
	}
}

// call runs cmd, giving up after the timeout.
func (d *Driver) call(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()
	select {
	case msg := <-done:
		return msg
	case <-timer.C:
		return nil
	}
}

// isBlink spots bubbles/cursor's unexported blink messages, which would
// otherwise schedule blinks forever.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
