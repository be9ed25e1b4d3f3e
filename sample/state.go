// Package sample holds the live control state shared between the input,
// display and transport tasks.
package sample

import (
	"math"
	"sync/atomic"
)

// Snapshot is a plain copy of the control state.
type Snapshot struct {
	LeftX, LeftY   float32
	RightX, RightY float32
	Toggle         bool
	Armed          bool
	Generation     uint32
}

// State is the shared control aggregate.
//
// Every field is individually atomic, and there is no lock across fields: a
// reader running alongside the writer may see some fields from one update and
// some from the next. Each field is always a valid value on its own. Readers
// that need whole generations use a Handoff instead.
//
// State has a single writer (the input task). The zero value is ready to use.
type State struct {
	leftX, leftY   atomic.Uint32
	rightX, rightY atomic.Uint32
	toggle         atomic.Bool
	armed          atomic.Bool
	gen            atomic.Uint32
}

// Clamp limits v to [-1, 1]. NaN becomes 0.
func Clamp(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}

func storeAxis(a *atomic.Uint32, v float32) { a.Store(math.Float32bits(Clamp(v))) }
func loadAxis(a *atomic.Uint32) float32     { return math.Float32frombits(a.Load()) }

func (s *State) SetLeft(x, y float32) {
	storeAxis(&s.leftX, x)
	storeAxis(&s.leftY, y)
}

func (s *State) SetRight(x, y float32) {
	storeAxis(&s.rightX, x)
	storeAxis(&s.rightY, y)
}

func (s *State) Left() (x, y float32)  { return loadAxis(&s.leftX), loadAxis(&s.leftY) }
func (s *State) Right() (x, y float32) { return loadAxis(&s.rightX), loadAxis(&s.rightY) }

func (s *State) SetToggle(on bool) { s.toggle.Store(on) }
func (s *State) Toggle() bool      { return s.toggle.Load() }

// FlipToggle inverts Toggle and returns the new value. Only the writer may
// call it.
func (s *State) FlipToggle() bool {
	on := !s.toggle.Load()
	s.toggle.Store(on)
	return on
}

func (s *State) SetArmed(on bool) { s.armed.Store(on) }
func (s *State) Armed() bool      { return s.armed.Load() }

// Commit marks the end of one writer update and returns its generation.
func (s *State) Commit() uint32 { return s.gen.Add(1) }

// Generation returns the number of committed updates.
func (s *State) Generation() uint32 { return s.gen.Load() }

// Load copies every field. The copy may be torn across fields.
func (s *State) Load() Snapshot {
	var out Snapshot
	out.Generation = s.gen.Load()
	out.LeftX, out.LeftY = s.Left()
	out.RightX, out.RightY = s.Right()
	out.Toggle = s.Toggle()
	out.Armed = s.Armed()
	return out
}

// Store writes every field of snap, in declaration order, and commits.
// snap.Generation is ignored; the returned value is the new generation.
func (s *State) Store(snap Snapshot) uint32 {
	s.SetLeft(snap.LeftX, snap.LeftY)
	s.SetRight(snap.RightX, snap.RightY)
	s.SetToggle(snap.Toggle)
	s.SetArmed(snap.Armed)
	return s.Commit()
}
