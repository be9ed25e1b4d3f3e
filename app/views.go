package app

import (
	"fmt"
	"sync/atomic"

	"dualjoy/gfx"
	"dualjoy/gui"
	"dualjoy/input"
	"dualjoy/transport"
)

// statusView shows the boot title and the log console. It is active while
// the controller initializes and after a setup failure or a task fault.
type statusView struct {
	gui.Group
	a *App

	title   TextDisplay
	console *Console
}

func newStatusView(a *App, console *Console) *statusView {
	v := &statusView{a: a, console: console}
	v.title.Text = a.statusTitle
	return v
}

func (v *statusView) AssignRegions(root *gfx.Surface) {
	lh := int(root.Font().LineHeight)
	title, err := root.Region().Carve(root.Width(), lh, 0, 0)
	if err != nil {
		return
	}
	body, err := root.Region().Carve(root.Width(), root.Height()-lh, 0, lh)
	if err != nil {
		return
	}
	v.title.Bind(root.Sub(title))
	v.console.Bind(root.Sub(body))
	v.Register(&v.title)
	v.Register(v.console)
}

func (v *statusView) OnActivate() {
	v.a.right.Handle(func() { v.a.modes.Activate(v.a.flight) })
	v.a.left.Handle(nil)
	v.a.rightStick.Handle(nil)
}

func (v *statusView) OnTick() {}

// flightView is the control screen: both sticks on top, the toggle and
// armed flags along the bottom. Each tick forwards the latest sample.
type flightView struct {
	gui.Group
	a *App

	leftJoy, rightJoy JoyWidget
	toggle, armed     FlagDisplay
}

func newFlightView(a *App) *flightView {
	v := &flightView{a: a}
	v.leftJoy.Read = a.state.Left
	v.rightJoy.Read = a.state.Right
	v.toggle = FlagDisplay{Label: "Toggle", Flag: a.state.Toggle}
	v.armed = FlagDisplay{Label: "Armed", Flag: a.state.Armed}
	return v
}

func (v *flightView) AssignRegions(root *gfx.Surface) {
	rows, err := root.SplitRows(7, 1)
	if err != nil {
		return
	}
	joys, err := rows[0].Columns(2)
	if err != nil {
		return
	}
	flags, err := rows[1].Columns(2)
	if err != nil {
		return
	}
	v.leftJoy.Bind(joys[0])
	v.rightJoy.Bind(joys[1])
	v.toggle.Bind(flags[0])
	v.armed.Bind(flags[1])

	v.Register(&v.leftJoy)
	v.Register(&v.rightJoy)
	v.Register(&v.toggle)
	v.Register(&v.armed)
}

func (v *flightView) OnActivate() {
	v.a.left.Handle(func() { v.a.state.FlipToggle() })
	v.a.right.Handle(func() { v.a.modes.Activate(v.a.menu) })
	v.a.rightStick.Handle(nil)
}

func (v *flightView) OnTick() {
	if snap, ok := v.a.handoff.TryTake(); ok {
		_ = v.a.link.SendSample(snap)
	}
}

// menuView is the remote menu: a list of commands picked with right-stick
// flicks and sent with the left button.
type menuView struct {
	gui.Group
	a *App

	selected atomic.Int32

	title TextDisplay
	list  MenuList
	last  TextDisplay
}

func newMenuView(a *App) *menuView {
	v := &menuView{a: a}
	v.title.Text = func() string { return "Remote " + v.a.linkState() }
	v.list.Items = a.cfg.Menu
	v.list.Selected = v.Selected
	v.last.Text = func() string { return "> " + v.a.LastMessage() }
	return v
}

func (v *menuView) Selected() int { return int(v.selected.Load()) }

func (v *menuView) AssignRegions(root *gfx.Surface) {
	lh := int(root.Font().LineHeight)
	w, h := root.Width(), root.Height()
	title, err := root.Region().Carve(w, lh, 0, 0)
	if err != nil {
		return
	}
	list, err := root.Region().Carve(w, h-2*lh-2, 0, lh+1)
	if err != nil {
		return
	}
	last, err := root.Region().Carve(w, lh, 0, h-lh)
	if err != nil {
		return
	}
	v.title.Bind(root.Sub(title))
	v.list.Bind(root.Sub(list))
	v.last.Bind(root.Sub(last))

	v.Register(&v.title)
	v.Register(&v.list)
	v.Register(&v.last)
}

func (v *menuView) OnActivate() {
	v.a.left.Handle(v.run)
	v.a.right.Handle(func() { v.a.modes.Activate(v.a.flight) })
	v.a.rightStick.Handle(v.move)
	_ = v.a.link.SendHello(v.a.cfg.Name)
}

func (v *menuView) OnTick() {}

func (v *menuView) move(d input.Direction) {
	n := int32(len(v.list.Items))
	if n == 0 {
		return
	}
	sel := v.selected.Load()
	switch d {
	case input.Up:
		sel = (sel + n - 1) % n
	case input.Down:
		sel = (sel + 1) % n
	default:
		return
	}
	v.selected.Store(sel)
}

func (v *menuView) run() {
	items := v.list.Items
	sel := v.Selected()
	if sel < 0 || sel >= len(items) {
		return
	}
	cmd := items[sel]
	switch cmd {
	case CmdArm:
		v.a.state.SetArmed(true)
	case CmdDisarm:
		v.a.state.SetArmed(false)
	case CmdStatus:
		v.a.modes.Activate(v.a.status)
		return
	}
	v.a.logf("menu: %s", cmd)
	_ = v.a.link.SendCommand(cmd)
}

func (a *App) linkState() string {
	if a.link.Up() {
		return fmt.Sprintf("(%d peer)", len(a.link.Peers()))
	}
	if err := a.link.SetupErr(); err != nil {
		return "(" + transport.Kind(err).String() + ")"
	}
	return "(no link)"
}
