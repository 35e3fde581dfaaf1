package cli

import (
	"testing"

	"github.com/al211185/edumobile/internal/teatest"
)

// TestDriver is a teatest.Driver that can also read the appModel's stack
// and status line.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver starts root in a 120x40 terminal with Init already run.
func NewTestDriver(t *testing.T, state *SharedState, root View) *TestDriver {
	t.Helper()
	d := teatest.New(t, newAppModel(state, root), teatest.WithSize(120, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) app() appModel { return d.Model.(appModel) }

func (d *TestDriver) ActiveView() View { return d.app().activeView() }

// ActiveViewID is -1 when the stack is empty.
func (d *TestDriver) ActiveViewID() ViewID {
	if v := d.ActiveView(); v != nil {
		return v.ID()
	}
	return -1
}

func (d *TestDriver) ViewStackLen() int { return len(d.app().views) }

func (d *TestDriver) IsQuitting() bool { return d.Quitting || d.app().quitting }

// LastOutput is the status line under the active view.
func (d *TestDriver) LastOutput() string { return d.app().status }
