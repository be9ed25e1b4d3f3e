package gui

import "dualjoy/gfx"

// Composite is one screen mode: a set of units plus the input handling that
// goes with them.
type Composite interface {
	// AssignRegions carves root and binds the composite's units. It runs
	// once, from ModeSwitch.Install.
	AssignRegions(root *gfx.Surface)

	// OnActivate installs the composite's input handlers. Installing a
	// handler replaces the previous mode's handler on the same slot; that
	// replacement is the only way the previous mode stops reacting to input.
	OnActivate()

	// OnTick runs once per input iteration while the composite is active.
	OnTick()

	// Render draws every registered unit once, in registration order.
	Render()
}

// Group is the unit list shared by composites. Embed it and call Register
// from AssignRegions.
type Group struct {
	units []RenderUnit
}

// Register appends u. Later units draw over earlier ones.
func (g *Group) Register(u RenderUnit) {
	if u == nil {
		return
	}
	g.units = append(g.units, u)
}

// Units returns the registered units in draw order.
func (g *Group) Units() []RenderUnit { return g.units }

// Render draws every unit once, in order. It never clears.
func (g *Group) Render() {
	for _, u := range g.units {
		u.Render()
	}
}
