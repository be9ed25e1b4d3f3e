package input

import (
	"errors"
	"testing"

	"dualjoy/hal"
)

type fakePin struct {
	level   bool
	readErr error
	mode    hal.GPIOMode
	pull    hal.GPIOPull
	caps    hal.GPIOCaps
}

func (p *fakePin) Name() string       { return "fake" }
func (p *fakePin) Caps() hal.GPIOCaps { return p.caps }

func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	p.mode, p.pull = mode, pull
	return nil
}

func (p *fakePin) Read() (bool, error) { return p.level, p.readErr }
func (p *fakePin) Write(bool) error    { return hal.ErrNotImplemented }

type fakeAxis struct{ v float32 }

func (a *fakeAxis) Read() float32 { return a.v }

func TestButtonConfigurePullUp(t *testing.T) {
	p := &fakePin{caps: hal.GPIOCapInput | hal.GPIOCapPullUp}
	b := NewButton("left", p)
	if err := b.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if p.mode != hal.GPIOModeInput || p.pull != hal.GPIOPullUp {
		t.Fatalf("mode/pull = %v/%v", p.mode, p.pull)
	}

	if err := NewButton("none", nil).Configure(); !errors.Is(err, hal.ErrNotImplemented) {
		t.Fatalf("Configure(nil pin) err = %v", err)
	}
}

func TestButtonPressEdge(t *testing.T) {
	p := &fakePin{level: true}
	b := NewButton("left", p)

	calls := 0
	b.Handle(func() { calls++ })

	levels := []bool{true, false, false, true, false, true}
	wantEdges := []bool{false, true, false, false, true, false}
	for i, lv := range levels {
		p.level = lv
		edge, err := b.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if edge != wantEdges[i] {
			t.Fatalf("step %d: edge = %v, want %v", i, edge, wantEdges[i])
		}
	}
	if calls != 2 || b.Presses() != 2 {
		t.Fatalf("calls = %d, presses = %d, want 2", calls, b.Presses())
	}
}

func TestButtonHandlerReplaced(t *testing.T) {
	p := &fakePin{level: true}
	b := NewButton("right", p)

	var got []string
	b.Handle(func() { got = append(got, "flight") })
	b.Handle(func() { got = append(got, "menu") })

	p.level = false
	if _, err := b.Poll(); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(got) != 1 || got[0] != "menu" {
		t.Fatalf("handlers run = %v, want [menu]", got)
	}

	b.Handle(nil)
	p.level = true
	b.Poll()
	p.level = false
	if edge, _ := b.Poll(); !edge || len(got) != 1 {
		t.Fatalf("cleared slot still dispatched: %v", got)
	}
}

func TestButtonReadError(t *testing.T) {
	p := &fakePin{readErr: hal.ErrDriverFailure}
	if _, err := NewButton("x", p).Poll(); !errors.Is(err, hal.ErrDriverFailure) {
		t.Fatalf("Poll err = %v", err)
	}
}

func TestStickFlicks(t *testing.T) {
	x, y := &fakeAxis{}, &fakeAxis{}
	s := NewStick(x, y)

	var got []Direction
	s.Handle(func(d Direction) { got = append(got, d) })

	// up, held, still outside rest, not re-armed, rest, down, rest,
	// left dominates, rest, clamped right.
	steps := []struct{ x, y float32 }{
		{0, 0},
		{0, 0.9},
		{0, 1},
		{0, 0.4},
		{0.8, 0},
		{0, 0},
		{0.2, -0.7},
		{0, 0},
		{-0.9, 0.5},
		{0, 0},
		{2, 0},
	}
	for _, st := range steps {
		x.v, y.v = st.x, st.y
		s.Poll()
	}
	want := []Direction{Up, Down, Left, Right}
	if len(got) != len(want) {
		t.Fatalf("flicks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flicks = %v, want %v", got, want)
		}
	}
}

func TestStickReadClampsAndNilAxes(t *testing.T) {
	s := NewStick(&fakeAxis{v: -4}, nil)
	x, y := s.Read()
	if x != -1 || y != 0 {
		t.Fatalf("Read() = (%v, %v), want (-1, 0)", x, y)
	}
}

func TestStickThresholds(t *testing.T) {
	x := &fakeAxis{v: 0.5}
	s := NewStick(x, nil)
	if _, _, d := s.Poll(); d != None {
		t.Fatalf("default thresholds fired %v", d)
	}
	s.SetThresholds(0.4, 0.1)
	x.v = 0.05
	s.Poll()
	x.v = 0.5
	if _, _, d := s.Poll(); d != Right {
		t.Fatalf("Poll() = %v, want right", d)
	}
	s.SetThresholds(0.2, 0.5)
	if s.flick != 0.4 {
		t.Fatalf("invalid thresholds applied")
	}
}
