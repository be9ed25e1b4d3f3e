//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// HostConfig describes the simulated board.
type HostConfig struct {
	Width  int
	Height int

	// Self is this controller's link address.
	Self Address
	// Listen is the local UDP address; empty disables the link.
	Listen string
	// Target is where datagrams are sent.
	Target string

	// Demo replaces keyboard input with synthetic stick sweeps and
	// periodic button presses.
	Demo bool
}

// DefaultHostConfig matches the 128x64 SSD1306 board.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		Width:  128,
		Height: 64,
		Self:   Address{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		Listen: "127.0.0.1:4210",
		Target: "127.0.0.1:4211",
	}
}

func (c HostConfig) withDefaults() HostConfig {
	d := DefaultHostConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Self == (Address{}) {
		c.Self = d.Self
	}
	return c
}

type hostHAL struct {
	logger *hostLogger
	disp   *hostDisplay
	in     *hostInput
	net    Transport
}

// New returns a host HAL implementation with default settings.
func New() HAL {
	return newHost(DefaultHostConfig())
}

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	cfg = cfg.withDefaults()
	logger := &hostLogger{w: os.Stdout}

	var net Transport = nullTransport{}
	if cfg.Listen != "" {
		net = newUDPTransport(cfg.Self, cfg.Listen, cfg.Target)
	}

	in := newHostInput()
	if cfg.Demo {
		in = newDemoInput(time.Now)
	}

	return &hostHAL{
		logger: logger,
		disp:   newHostDisplay(cfg.Width, cfg.Height),
		in:     in,
		net:    net,
	}
}

func (h *hostHAL) Logger() Logger       { return h.logger }
func (h *hostHAL) Display() Display     { return h.disp }
func (h *hostHAL) Input() Input         { return h.in }
func (h *hostHAL) Transport() Transport { return h.net }

func (h *hostHAL) close() {
	if c, ok := h.net.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger returns a line logger writing to w.
func NewLogger(w io.Writer) Logger {
	return &hostLogger{w: w}
}

// redirect swaps the log destination, e.g. while the terminal owns stdout.
func (l *hostLogger) redirect(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = w
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// hostDisplay is an in-memory page-layout framebuffer.
//
// Update publishes the drawn frame to viewers (window, terminal).
type hostDisplay struct {
	width  int
	height int
	stride int
	buf    []byte

	mu     sync.Mutex
	shown  []byte
	frames uint64
}

func newHostDisplay(width, height int) *hostDisplay {
	n := pageBytes(width, height)
	return &hostDisplay{
		width:  width,
		height: height,
		stride: width,
		buf:    make([]byte, n),
		shown:  make([]byte, n),
	}
}

func (d *hostDisplay) Width() int     { return d.width }
func (d *hostDisplay) Height() int    { return d.height }
func (d *hostDisplay) Stride() int    { return d.stride }
func (d *hostDisplay) Buffer() []byte { return d.buf }

func (d *hostDisplay) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.shown, d.buf)
	d.frames++
	return nil
}

// snapshot copies the last presented frame and returns its sequence number.
func (d *hostDisplay) snapshot(dst []byte) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(dst, d.shown)
	return d.frames
}

type hostInput struct {
	axes    [AxisCount]Axis
	buttons [ButtonCount]GPIOPin

	keyAxes    [AxisCount]*keyAxis
	keyButtons [ButtonCount]*buttonPin
}

func newHostInput() *hostInput {
	in := &hostInput{}
	for i := range in.keyAxes {
		a := &keyAxis{}
		in.keyAxes[i] = a
		in.axes[i] = a
	}
	names := [ButtonCount]string{"BTN_L", "BTN_R"}
	for i := range in.keyButtons {
		p := newButtonPin(names[i])
		in.keyButtons[i] = p
		in.buttons[i] = p
	}
	return in
}

// newDemoInput sweeps the sticks and presses the right button every few
// seconds, so the headless runner cycles through views.
func newDemoInput(now func() time.Time) *hostInput {
	in := newHostInput()
	t0 := now()
	periods := [AxisCount]time.Duration{3 * time.Second, 5 * time.Second, 4 * time.Second, 7 * time.Second}
	for i := range in.axes {
		in.axes[i] = &waveAxis{now: now, t0: t0, period: periods[i]}
	}
	in.buttons[ButtonLeft] = newPulsePin("DEMO_L", 2*time.Second, 100*time.Millisecond, now)
	in.buttons[ButtonRight] = newPulsePin("DEMO_R", 6*time.Second, 100*time.Millisecond, now)
	return in
}

func (in *hostInput) Axis(id AxisID) Axis {
	if id >= AxisCount {
		return nil
	}
	return in.axes[id]
}

func (in *hostInput) Button(id ButtonID) GPIOPin {
	if id >= ButtonCount {
		return nil
	}
	return in.buttons[id]
}

// setAxis drives a keyboard axis; demo axes ignore it.
func (in *hostInput) setAxis(id AxisID, v float32) {
	if id < AxisCount && in.axes[id] == Axis(in.keyAxes[id]) {
		in.keyAxes[id].set(v)
	}
}

func (in *hostInput) setButton(id ButtonID, down bool) {
	if id < ButtonCount && in.buttons[id] == GPIOPin(in.keyButtons[id]) {
		in.keyButtons[id].press(down)
	}
}

// keyAxis holds a value written by the UI goroutine and read by the input task.
type keyAxis struct {
	bits atomic.Uint32
}

func (a *keyAxis) set(v float32) {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	a.bits.Store(math.Float32bits(v))
}

func (a *keyAxis) Read() float32 { return math.Float32frombits(a.bits.Load()) }

type waveAxis struct {
	now    func() time.Time
	t0     time.Time
	period time.Duration
}

func (a *waveAxis) Read() float32 {
	if a.period <= 0 || a.now == nil {
		return 0
	}
	phase := float64(a.now().Sub(a.t0)%a.period) / float64(a.period)
	return float32(math.Sin(2 * math.Pi * phase))
}
