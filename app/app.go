// Package app wires the controller together: the HAL, the shared sample
// state, the link and the three screen modes (status, flight, menu), plus
// the input and display tasks that drive them.
package app

import (
	"fmt"
	"sync/atomic"

	"dualjoy/gfx"
	"dualjoy/gui"
	"dualjoy/hal"
	"dualjoy/input"
	"dualjoy/internal/buildinfo"
	"dualjoy/sample"
	"dualjoy/transport"

	"tinygo.org/x/tinyfont"
)

// App is the composition root. It owns the screen buffer (through the HAL
// display), the root surface and every composite, so everything bound to a
// region outlives nothing it points at.
type App struct {
	h   hal.HAL
	cfg Config
	log hal.Logger

	disp hal.Display
	root *gfx.Surface

	state   sample.State
	handoff *sample.Handoff
	link    *transport.Link

	left, right           *input.Button
	leftStick, rightStick *input.Stick

	modes  gui.ModeSwitch
	status *statusView
	flight *flightView
	menu   *menuView

	booted  atomic.Bool
	faults  atomic.Uint32
	lastMsg atomic.Pointer[string]
	pending atomic.Pointer[Config]
}

// New builds the controller on h. Nothing runs until Run (or the task
// methods) is called; the status view is active.
func New(h hal.HAL, cfg Config) (*App, error) {
	if h == nil {
		return nil, fmt.Errorf("app: %w", hal.ErrNotInitialized)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	peers, err := cfg.peerAddrs()
	if err != nil {
		return nil, err
	}

	disp := h.Display()
	if disp == nil {
		return nil, fmt.Errorf("app: display: %w", hal.ErrNotInitialized)
	}
	region, err := gfx.Root(disp.Buffer(), disp.Stride(), disp.Width(), disp.Height())
	if err != nil {
		return nil, fmt.Errorf("app: display: %w", err)
	}

	console := NewConsole(&tinyfont.TomThumb)
	a := &App{
		h:       h,
		cfg:     cfg,
		log:     consoleLogger{base: h.Logger(), console: console},
		disp:    disp,
		root:    gfx.NewSurface(region, gfx.DefaultFont()),
		handoff: sample.NewHandoff(),
	}
	a.link = transport.NewLink(h.Transport(), a.log, peers...)

	var in hal.Input
	if in = h.Input(); in == nil {
		return nil, fmt.Errorf("app: input: %w", hal.ErrNotInitialized)
	}
	a.left = input.NewButton("left", in.Button(hal.ButtonLeft))
	a.right = input.NewButton("right", in.Button(hal.ButtonRight))
	a.leftStick = input.NewStick(in.Axis(hal.AxisLeftX), in.Axis(hal.AxisLeftY))
	a.rightStick = input.NewStick(in.Axis(hal.AxisRightX), in.Axis(hal.AxisRightY))
	a.leftStick.SetThresholds(cfg.Flick, cfg.Rest)
	a.rightStick.SetThresholds(cfg.Flick, cfg.Rest)

	a.status = newStatusView(a, console)
	a.flight = newFlightView(a)
	a.menu = newMenuView(a)
	if err := a.modes.Install(a.root, a.status, a.flight, a.menu); err != nil {
		return nil, err
	}
	a.modes.Activate(a.status)
	return a, nil
}

func (a *App) logf(format string, args ...any) {
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}

// Config returns the effective configuration. Reloaded fields change on the
// input task.
func (a *App) Config() Config { return a.cfg }

// Reload queues a new configuration. The input task applies its stick
// thresholds on its next iteration; rates, peers and menu items need a
// restart.
func (a *App) Reload(cfg Config) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		a.logf("config: reload: %v", err)
		return
	}
	a.pending.Store(&cfg)
}

func (a *App) applyReload() {
	cfg := a.pending.Swap(nil)
	if cfg == nil {
		return
	}
	a.cfg.Flick, a.cfg.Rest = cfg.Flick, cfg.Rest
	a.leftStick.SetThresholds(cfg.Flick, cfg.Rest)
	a.rightStick.SetThresholds(cfg.Flick, cfg.Rest)
	a.logf("config: reloaded, flick %.2f rest %.2f", cfg.Flick, cfg.Rest)
}

// State returns the shared sample state.
func (a *App) State() *sample.State { return &a.state }

// Link returns the controller's link.
func (a *App) Link() *transport.Link { return a.link }

// Modes returns the mode switch.
func (a *App) Modes() *gui.ModeSwitch { return &a.modes }

// Root returns the surface covering the whole display.
func (a *App) Root() *gfx.Surface { return a.root }

// Logger returns the logger that also feeds the status console.
func (a *App) Logger() hal.Logger { return a.log }

// LastMessage returns the text of the last non-sample packet received.
func (a *App) LastMessage() string {
	if p := a.lastMsg.Load(); p != nil {
		return *p
	}
	return ""
}

func (a *App) statusTitle() string {
	switch {
	case a.faults.Load() > 0:
		return fmt.Sprintf("Fault x%d", a.faults.Load())
	case a.booted.Load():
		return "Status " + buildinfo.Short()
	default:
		return "Initializing"
	}
}

// setup brings up buttons and the link. Failures are logged; the status
// view stays active so they can be read, and the right button moves on.
func (a *App) setup() {
	a.logf("app: dualjoy %s", buildinfo.Short())

	ok := true
	for _, b := range []*input.Button{a.left, a.right} {
		if err := b.Configure(); err != nil {
			a.logf("app: %v", err)
			ok = false
		}
	}
	if err := a.link.Setup(); err != nil {
		ok = false
	}

	a.booted.Store(true)
	if ok {
		a.modes.Activate(a.flight)
		return
	}
	a.modes.Activate(a.status)
}
