package hal

// memDisplay is a RAM-only framebuffer for boards without a panel.
type memDisplay struct {
	width  int
	height int
	buf    []byte
}

func newMemDisplay(width, height int) *memDisplay {
	return &memDisplay{width: width, height: height, buf: make([]byte, pageBytes(width, height))}
}

func (d *memDisplay) Width() int     { return d.width }
func (d *memDisplay) Height() int    { return d.height }
func (d *memDisplay) Stride() int    { return d.width }
func (d *memDisplay) Buffer() []byte { return d.buf }
func (d *memDisplay) Update() error  { return nil }

type restAxis struct{}

func (restAxis) Read() float32 { return 0 }

// idleInput has centered sticks and released buttons.
type idleInput struct {
	buttons [ButtonCount]*buttonPin
}

func newIdleInput() *idleInput {
	in := &idleInput{}
	for i := range in.buttons {
		in.buttons[i] = newButtonPin("BTN")
	}
	return in
}

func (in *idleInput) Axis(id AxisID) Axis {
	if id >= AxisCount {
		return nil
	}
	return restAxis{}
}

func (in *idleInput) Button(id ButtonID) GPIOPin {
	if id >= ButtonCount {
		return nil
	}
	return in.buttons[id]
}
