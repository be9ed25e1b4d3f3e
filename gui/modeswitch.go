package gui

import (
	"errors"
	"sync"
	"sync/atomic"

	"dualjoy/gfx"
)

var ErrAlreadyInstalled = errors.New("gui: composite already installed")

// ModeSwitch holds the single active composite.
//
// Activate and Tick run on the input task; Render runs on the display task.
// The active composite is published atomically, so a render observes either
// the old or the new mode, never a mix of the two pointers.
type ModeSwitch struct {
	active atomic.Pointer[activeRef]

	mu        sync.Mutex
	installed []Composite
}

type activeRef struct {
	c Composite
}

// Install calls AssignRegions on each composite exactly once.
func (m *ModeSwitch) Install(root *gfx.Surface, composites ...Composite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range composites {
		if c == nil {
			continue
		}
		for _, have := range m.installed {
			if have == c {
				return ErrAlreadyInstalled
			}
		}
		c.AssignRegions(root)
		m.installed = append(m.installed, c)
	}
	return nil
}

// Installed reports whether c went through Install.
func (m *ModeSwitch) Installed(c Composite) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.installed {
		if have == c {
			return true
		}
	}
	return false
}

// Activate makes c the active composite and then calls c.OnActivate.
//
// It is unconditional: re-activating the active composite runs OnActivate
// again. A nil c deactivates everything.
func (m *ModeSwitch) Activate(c Composite) {
	if c == nil {
		m.active.Store(nil)
		return
	}
	m.active.Store(&activeRef{c: c})
	c.OnActivate()
}

// Active returns the active composite, or nil.
func (m *ModeSwitch) Active() Composite {
	ref := m.active.Load()
	if ref == nil {
		return nil
	}
	return ref.c
}

// IsActive reports whether c is the active composite (identity comparison).
func (m *ModeSwitch) IsActive(c Composite) bool {
	a := m.Active()
	return a != nil && a == c
}

// Render clears root and draws the active composite. With nothing active it
// leaves root untouched.
func (m *ModeSwitch) Render(root *gfx.Surface) {
	c := m.Active()
	if c == nil || root == nil {
		return
	}
	root.Fill(false)
	c.Render()
}

// Tick forwards to the active composite's OnTick.
func (m *ModeSwitch) Tick() {
	if c := m.Active(); c != nil {
		c.OnTick()
	}
}
