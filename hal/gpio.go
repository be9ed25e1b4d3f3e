package hal

import (
	"fmt"
	"sync/atomic"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// checkButtonConfig accepts input mode with pull-up or no pull, the only
// configurations a ground-switched push button supports.
func checkButtonConfig(name string, mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: %s: button is input only", name)
	}
	if pull != GPIOPullNone && pull != GPIOPullUp {
		return fmt.Errorf("gpio: %s: button needs pull-up", name)
	}
	return nil
}

// buttonPin is a simulated push button. It reads high until press(true) is
// called from the UI goroutine.
type buttonPin struct {
	name       string
	configured atomic.Bool
	down       atomic.Bool
}

func newButtonPin(name string) *buttonPin {
	return &buttonPin{name: name}
}

func (p *buttonPin) press(down bool) { p.down.Store(down) }

func (p *buttonPin) Name() string   { return p.name }
func (p *buttonPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *buttonPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkButtonConfig(p.name, mode, pull); err != nil {
		return err
	}
	p.configured.Store(true)
	return nil
}

func (p *buttonPin) Read() (bool, error) {
	if !p.configured.Load() {
		return false, fmt.Errorf("gpio: %s: %w", p.name, ErrNotInitialized)
	}
	return !p.down.Load(), nil
}

func (p *buttonPin) Write(bool) error {
	return fmt.Errorf("gpio: %s: %w", p.name, ErrNotImplemented)
}

// pulsePin is a button that presses itself for hold at the end of every
// period. The demo input uses it to walk through the views unattended.
type pulsePin struct {
	name       string
	configured atomic.Bool

	now          func() time.Time
	t0           time.Time
	period, hold time.Duration
}

func newPulsePin(name string, period, hold time.Duration, now func() time.Time) *pulsePin {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = time.Second
	}
	hold = min(max(hold, 0), period)
	return &pulsePin{name: name, now: now, t0: now(), period: period, hold: hold}
}

func (p *pulsePin) Name() string   { return p.name }
func (p *pulsePin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *pulsePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkButtonConfig(p.name, mode, pull); err != nil {
		return err
	}
	p.configured.Store(true)
	return nil
}

func (p *pulsePin) Read() (bool, error) {
	if !p.configured.Load() {
		return false, fmt.Errorf("gpio: %s: %w", p.name, ErrNotInitialized)
	}
	phase := p.now().Sub(p.t0) % p.period
	if phase < 0 {
		phase += p.period
	}
	return phase < p.period-p.hold, nil
}

func (p *pulsePin) Write(bool) error {
	return fmt.Errorf("gpio: %s: %w", p.name, ErrNotImplemented)
}
