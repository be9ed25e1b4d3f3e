package app

import (
	"sync"

	"dualjoy/gfx"
	"dualjoy/gui"
	"dualjoy/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"
)

const consoleBacklog = 32

// Console is a log view: a tinyterm terminal drawing into an offscreen
// buffer that is copied into the bound region on every render.
//
// Lines may be added from any goroutine. They reach the terminal on the next
// Render, which runs on the display task.
type Console struct {
	gui.Binding
	face *tinyfont.Font

	mu      sync.Mutex
	pending []string
	dropped int

	off  *scrollBuffer
	term *tinyterm.Terminal
}

func NewConsole(face *tinyfont.Font) *Console {
	return &Console{face: face}
}

// Println queues one line for the terminal.
func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) >= consoleBacklog {
		copy(c.pending, c.pending[1:])
		c.pending = c.pending[:len(c.pending)-1]
		c.dropped++
	}
	c.pending = append(c.pending, line)
}

func (c *Console) take() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, dropped := c.pending, c.dropped
	c.pending, c.dropped = nil, 0
	return lines, dropped
}

// Bind binds the console and sizes its terminal to s.
func (c *Console) Bind(s *gfx.Surface) {
	c.Binding.Bind(s)
	c.off, c.term = nil, nil
	if s == nil || c.face == nil {
		return
	}
	font := gfx.NewFont(c.face)
	lh := int(font.LineHeight)
	if lh <= 0 {
		return
	}
	rows := s.Height() / lh
	if rows <= 0 {
		return
	}
	off, err := newScrollBuffer(s.Width(), rows*lh, font)
	if err != nil {
		return
	}
	c.off = off
	c.term = tinyterm.NewTerminal(off)
	c.term.Configure(&tinyterm.Config{
		Font:       c.face,
		FontHeight: font.LineHeight,
		FontOffset: font.Ascent,
	})
}

func (c *Console) Render() {
	s := c.Surface()
	if s == nil || c.term == nil {
		return
	}
	lines, dropped := c.take()
	if dropped > 0 {
		c.write("...")
	}
	for _, l := range lines {
		c.write(l)
	}
	c.off.blit(s)
}

func (c *Console) write(line string) {
	_, _ = c.term.Write([]byte("\r\n"))
	_, _ = c.term.Write([]byte(line))
}

// scrollBuffer is an offscreen surface that emulates a panel's vertical
// scroll register: SetScroll moves the row shown at the top.
type scrollBuffer struct {
	*gfx.Surface
	scroll int
}

func newScrollBuffer(width, height int, font gfx.Font) (*scrollBuffer, error) {
	r, err := gfx.Root(make([]byte, width*((height+7)/8)), width, width, height)
	if err != nil {
		return nil, err
	}
	return &scrollBuffer{Surface: gfx.NewSurface(r, font)}, nil
}

func (b *scrollBuffer) SetScroll(line int16) {
	h := b.Height()
	if h <= 0 {
		return
	}
	b.scroll = ((int(line) % h) + h) % h
}

// blit copies the buffer into dst starting at the scroll row.
func (b *scrollBuffer) blit(dst *gfx.Surface) {
	src := b.Region()
	out := dst.Region()
	h := b.Height()
	w := min(b.Width(), dst.Width())
	for y := 0; y < h && y < dst.Height(); y++ {
		sy := (y + b.scroll) % h
		for x := 0; x < w; x++ {
			out.Set(x, y, src.Get(x, sy))
		}
	}
}

// consoleLogger copies every log line to a console.
type consoleLogger struct {
	base    hal.Logger
	console *Console
}

func (l consoleLogger) WriteLineString(s string) {
	if l.base != nil {
		l.base.WriteLineString(s)
	}
	l.console.Println(s)
}

func (l consoleLogger) WriteLineBytes(b []byte) {
	if l.base != nil {
		l.base.WriteLineBytes(b)
	}
	l.console.Println(string(b))
}
