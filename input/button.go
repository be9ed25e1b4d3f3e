// Package input turns raw HAL levels and axis readings into the events the
// GUI reacts to: button presses and stick flicks.
package input

import (
	"fmt"
	"sync/atomic"

	"dualjoy/hal"
)

// Button detects presses on an active-low pin and dispatches them to one
// handler slot.
//
// Handle replaces the slot's handler. Mode changes rely on that: the newly
// active mode installs its handler and the previous mode stops receiving
// presses. There is no other way to unregister.
type Button struct {
	name    string
	pin     hal.GPIOPin
	handler atomic.Pointer[func()]

	down    bool
	presses uint32
}

func NewButton(name string, pin hal.GPIOPin) *Button {
	return &Button{name: name, pin: pin}
}

func (b *Button) Name() string { return b.name }

// Configure puts the pin in input mode, with the pull-up when the pin has one.
func (b *Button) Configure() error {
	if b.pin == nil {
		return fmt.Errorf("button %s: %w", b.name, hal.ErrNotImplemented)
	}
	pull := hal.GPIOPullNone
	if b.pin.Caps()&hal.GPIOCapPullUp != 0 {
		pull = hal.GPIOPullUp
	}
	if err := b.pin.Configure(hal.GPIOModeInput, pull); err != nil {
		return fmt.Errorf("button %s: %w", b.name, err)
	}
	return nil
}

// Handle installs fn as the press handler, replacing any previous one. A nil
// fn clears the slot.
func (b *Button) Handle(fn func()) {
	if fn == nil {
		b.handler.Store(nil)
		return
	}
	b.handler.Store(&fn)
}

// Poll samples the pin and calls the handler on a press edge. It reports
// whether a press edge was seen. Poll must be called from one goroutine.
func (b *Button) Poll() (bool, error) {
	if b.pin == nil {
		return false, nil
	}
	level, err := b.pin.Read()
	if err != nil {
		return false, fmt.Errorf("button %s: %w", b.name, err)
	}
	down := !level
	edge := down && !b.down
	b.down = down
	if !edge {
		return false, nil
	}
	b.presses++
	if fn := b.handler.Load(); fn != nil {
		(*fn)()
	}
	return true, nil
}

// Down reports the level seen by the last Poll.
func (b *Button) Down() bool { return b.down }

// Presses counts press edges seen by Poll.
func (b *Button) Presses() uint32 { return b.presses }
