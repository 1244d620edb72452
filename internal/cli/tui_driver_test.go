package cli

import (
	"testing"

	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/teatest"
	"github.com/charmbracelet/x/ansi"
)

// TestDriver wraps teatest.Driver with access to appModel internals (view
// stack, notice, board) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	rt *Runtime
}

// NewTestDriver builds the appModel over rt at 120x40 and drains Init().
func NewTestDriver(t *testing.T, rt *Runtime, opts ...teatest.Option) *TestDriver {
	t.Helper()

	m := newAppModel(rt)
	opts = append(opts, teatest.WithSize(120, 40))
	d := teatest.New(t, m, opts...)
	d.DrainInit()

	return &TestDriver{Driver: d, rt: rt}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Timeline returns the home view at the bottom of the stack.
func (d *TestDriver) Timeline() *timelineView {
	return d.appModel().viewStack[0].(*timelineView)
}

// Chat returns the active chat view. It fails the test if the top view is
// something else.
func (d *TestDriver) Chat() *chatView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.activeView().(*chatView)
	if !ok {
		d.T.Fatalf("active view is %v, not chat", d.ActiveViewID())
	}
	return v
}

func (d *TestDriver) Board() *dashboard.Board {
	return d.rt.Board
}

// Notice returns the status bar notice without styling.
func (d *TestDriver) Notice() string {
	return ansi.Strip(d.appModel().notice)
}

// PlainView returns the rendered screen without styling.
func (d *TestDriver) PlainView() string {
	return ansi.Strip(d.View())
}

// IsQuitting reports whether the model asked the program to exit.
func (d *TestDriver) IsQuitting() bool {
	return d.Quitting || d.appModel().quitting
}
