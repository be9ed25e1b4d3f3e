package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"dualjoy/hal"
	"dualjoy/transport"
)

func period(hz int) time.Duration {
	if hz <= 0 {
		hz = 1
	}
	return time.Second / time.Duration(hz)
}

// Run starts the input and display tasks and blocks until ctx is done or a
// task returns an error.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.DisplayTask(ctx) })
	g.Go(func() error { return a.InputTask(ctx) })
	return g.Wait()
}

// InputTask runs setup, then samples input at the configured rate until ctx
// is done.
func (a *App) InputTask(ctx context.Context) error {
	a.guard("input", a.setup)

	t := time.NewTicker(period(a.cfg.InputHz))
	defer t.Stop()
	for {
		a.guard("input", a.inputStep)
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// DisplayTask renders the active mode and flushes the display at the
// configured frame rate until ctx is done.
func (a *App) DisplayTask(ctx context.Context) error {
	t := time.NewTicker(period(a.cfg.FrameHz))
	defer t.Stop()
	for {
		a.guard("display", a.displayStep)
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// inputStep is one input iteration: sticks and buttons, publish, inbox,
// then the active mode's tick.
func (a *App) inputStep() {
	a.applyReload()

	lx, ly, _ := a.leftStick.Poll()
	rx, ry, _ := a.rightStick.Poll()

	for _, b := range [...]struct {
		name string
		poll func() (bool, error)
	}{
		{"left", a.left.Poll},
		{"right", a.right.Poll},
	} {
		if _, err := b.poll(); err != nil {
			a.logf("input: %v", err)
		}
	}

	a.state.SetLeft(lx, ly)
	a.state.SetRight(rx, ry)
	a.state.Commit()
	a.handoff.Publish(a.state.Load())

	a.link.Poll(a.receive)
	a.modes.Tick()
}

func (a *App) receive(from hal.Address, p transport.Packet) {
	if p.Type == transport.TypeSample {
		return
	}
	msg := from.String()[12:] + " " + p.Text
	a.lastMsg.Store(&msg)
}

func (a *App) displayStep() {
	a.modes.Render(a.root)
	if err := a.disp.Update(); err != nil {
		a.logf("display: update: %v", err)
	}
}
