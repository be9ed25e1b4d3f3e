package input

import (
	"sync/atomic"

	"dualjoy/hal"
	"dualjoy/sample"
)

// Direction is a stick flick.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

const (
	// DefaultFlick is how far an axis must travel to count as a flick.
	DefaultFlick = 0.6
	// DefaultRest is how close to center both axes must return before the
	// next flick.
	DefaultRest = 0.3
)

// Stick reads a pair of axes and turns excursions into flicks.
//
// Positive Y is up. A flick fires once when the stick leaves the rest zone
// past the flick threshold, along the dominant axis, and re-arms when the
// stick comes back to rest. Like Button, Stick has a single handler slot.
type Stick struct {
	x, y    hal.Axis
	flick   float32
	rest    float32
	handler atomic.Pointer[func(Direction)]

	fired bool
}

func NewStick(x, y hal.Axis) *Stick {
	return &Stick{x: x, y: y, flick: DefaultFlick, rest: DefaultRest}
}

// SetThresholds overrides the flick and rest thresholds. Values out of
// order are ignored.
func (s *Stick) SetThresholds(flick, rest float32) {
	if rest <= 0 || flick <= rest || flick > 1 {
		return
	}
	s.flick, s.rest = flick, rest
}

// Thresholds returns the flick and rest thresholds in use.
func (s *Stick) Thresholds() (flick, rest float32) { return s.flick, s.rest }

// Handle installs fn as the flick handler, replacing any previous one.
func (s *Stick) Handle(fn func(Direction)) {
	if fn == nil {
		s.handler.Store(nil)
		return
	}
	s.handler.Store(&fn)
}

// Read returns both axes clamped to [-1, 1]. Missing axes read 0.
func (s *Stick) Read() (x, y float32) {
	if s.x != nil {
		x = sample.Clamp(s.x.Read())
	}
	if s.y != nil {
		y = sample.Clamp(s.y.Read())
	}
	return x, y
}

// Poll reads the stick, runs flick detection and calls the handler for a
// new flick. Poll must be called from one goroutine.
func (s *Stick) Poll() (x, y float32, d Direction) {
	x, y = s.Read()
	d = s.detect(x, y)
	if d != None {
		if fn := s.handler.Load(); fn != nil {
			(*fn)(d)
		}
	}
	return x, y, d
}

func (s *Stick) detect(x, y float32) Direction {
	ax, ay := abs32(x), abs32(y)
	if s.fired {
		if ax < s.rest && ay < s.rest {
			s.fired = false
		}
		return None
	}
	if ax < s.flick && ay < s.flick {
		return None
	}
	s.fired = true
	if ax >= ay {
		if x > 0 {
			return Right
		}
		return Left
	}
	if y > 0 {
		return Up
	}
	return Down
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
