package app

import (
	"fmt"

	"dualjoy/gfx"
	"dualjoy/gui"
)

// JoyWidget draws one stick: a bordered frame, lines from the center along
// each axis, and the axis readouts.
type JoyWidget struct {
	gui.Binding
	Read func() (x, y float32)
}

const joyTextOffset = 2

func (w *JoyWidget) Render() {
	s := w.Surface()
	if s == nil {
		return
	}
	maxX, maxY := s.Width()-1, s.Height()-1
	s.SetInk(true)
	s.Rect(0, 0, maxX, maxY, gfx.FillBorder)

	if w.Read == nil {
		s.TextAt(joyTextOffset, joyTextOffset, "null")
		return
	}
	x, y := w.Read()
	cx, cy := maxX/2, maxY/2

	s.Line(cx, cy, cx+int(x*float32(cx)), cy)
	s.TextAt(joyTextOffset, joyTextOffset, fmt.Sprintf("%+1.2f X", x))

	// Screen y grows downward; stick y is positive up.
	s.Line(cx, cy, cx, cy-int(y*float32(cx)))
	s.TextAt(joyTextOffset, cy+joyTextOffset, fmt.Sprintf("%+1.2f Y", y))
}

// FlagDisplay fills its region when the flag is set and prints the label in
// the opposite ink.
type FlagDisplay struct {
	gui.Binding
	Label string
	Flag  func() bool
}

func (w *FlagDisplay) Render() {
	s := w.Surface()
	if s == nil {
		return
	}
	lit := w.Flag != nil && w.Flag()
	s.Fill(lit)
	s.SetInk(!lit)
	label := w.Label
	if label == "" {
		label = "null"
	}
	s.TextAt(1, 0, label)
	s.SetInk(true)
}

// TextDisplay prints one line from the top-left corner.
type TextDisplay struct {
	gui.Binding
	Text func() string
}

func (w *TextDisplay) Render() {
	s := w.Surface()
	if s == nil {
		return
	}
	text := "null"
	if w.Text != nil {
		text = w.Text()
	}
	s.SetInk(true)
	s.TextAt(0, 0, text)
}

// MenuList draws items one per line with the selected item inverted. The
// list scrolls to keep the selection visible.
type MenuList struct {
	gui.Binding
	Items    []string
	Selected func() int
}

func (w *MenuList) Render() {
	s := w.Surface()
	if s == nil {
		return
	}
	lh := int(s.Font().LineHeight)
	if lh <= 0 || len(w.Items) == 0 {
		s.TextAt(0, 0, "(empty)")
		return
	}
	sel := 0
	if w.Selected != nil {
		sel = w.Selected()
	}
	rows := max(s.Height()/lh, 1)
	first := 0
	if sel >= rows {
		first = sel - rows + 1
	}

	for row := 0; row < rows && first+row < len(w.Items); row++ {
		i := first + row
		y := row * lh
		if i == sel {
			s.SetInk(true)
			s.Rect(0, y, s.Width()-1, y+lh-1, gfx.Fill)
			s.SetInk(false)
			s.TextAt(2, y, w.Items[i])
			s.SetInk(true)
			continue
		}
		s.TextAt(2, y, w.Items[i])
	}
}
