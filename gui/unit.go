// Package gui is a small retained-mode layer over gfx: units draw into
// surfaces, composites group units, and a ModeSwitch picks the composite
// that is currently on screen.
package gui

import "dualjoy/gfx"

// RenderUnit is one widget bound to one surface.
//
// Render must be a no-op while the unit is unbound. Units read their domain
// data at draw time and tolerate it being nil.
type RenderUnit interface {
	Bind(s *gfx.Surface)
	Render()
}

// Binding holds a unit's surface. Embed it to get Bind.
type Binding struct {
	surface *gfx.Surface
}

// Bind replaces any previously bound surface.
func (b *Binding) Bind(s *gfx.Surface) { b.surface = s }

// Surface returns the bound surface, or nil.
func (b *Binding) Surface() *gfx.Surface { return b.surface }

// Bound reports whether a surface is bound.
func (b *Binding) Bound() bool { return b.surface != nil }
