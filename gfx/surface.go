package gfx

import (
	"image/color"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Mode selects how closed shapes are drawn.
type Mode uint8

const (
	// Stroke draws the outline in the ink value.
	Stroke Mode = iota
	// Fill draws the interior and the outline in the ink value.
	Fill
	// FillBorder fills the interior with the inverse of the ink value and
	// draws a 1px outline in the ink value.
	FillBorder
)

func (m Mode) String() string {
	switch m {
	case Stroke:
		return "stroke"
	case Fill:
		return "fill"
	case FillBorder:
		return "fill-border"
	default:
		return "unknown"
	}
}

var (
	colorOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorOff = color.RGBA{A: 0xFF}
)

// Surface is the drawing API bound to one Region.
//
// It keeps a text cursor, an ink value and a font. All coordinates are
// region-local and every primitive clips to the region.
//
// Surface also satisfies drivers.Displayer (and tinyterm's Displayer), so
// tinyfont glyphs and terminals draw through the same clipping path. For
// those callers any non-black color is ink-on.
type Surface struct {
	region Region
	font   Font
	cx, cy int
	ink    bool
}

// NewSurface binds a surface to r. Ink starts on.
func NewSurface(r Region, f Font) *Surface {
	return &Surface{region: r, font: f, ink: true}
}

func (s *Surface) Region() Region     { return s.region }
func (s *Surface) Font() Font         { return s.font }
func (s *Surface) SetFont(f Font)     { s.font = f }
func (s *Surface) Width() int         { return s.region.width }
func (s *Surface) Height() int        { return s.region.height }
func (s *Surface) SetInk(on bool)     { s.ink = on }
func (s *Surface) Ink() bool          { return s.ink }
func (s *Surface) SetCursor(x, y int) { s.cx, s.cy = x, y }

// Cursor returns the current text cursor (top-left of the next glyph cell).
func (s *Surface) Cursor() (x, y int) { return s.cx, s.cy }

// Sub returns a surface over r that shares this surface's font.
func (s *Surface) Sub(r Region) *Surface {
	return NewSurface(r, s.font)
}

// SplitColumns splits the surface's region (see Region.SplitColumns) and
// returns one surface per column.
func (s *Surface) SplitColumns(weights ...int) ([]*Surface, error) {
	rs, err := s.region.SplitColumns(weights...)
	if err != nil {
		return nil, err
	}
	return s.subs(rs), nil
}

// SplitRows is the row counterpart of SplitColumns.
func (s *Surface) SplitRows(weights ...int) ([]*Surface, error) {
	rs, err := s.region.SplitRows(weights...)
	if err != nil {
		return nil, err
	}
	return s.subs(rs), nil
}

// Columns splits the surface into n equal columns.
func (s *Surface) Columns(n int) ([]*Surface, error) { return s.SplitColumns(ones(n)...) }

// Rows splits the surface into n equal rows.
func (s *Surface) Rows(n int) ([]*Surface, error) { return s.SplitRows(ones(n)...) }

func (s *Surface) subs(rs []Region) []*Surface {
	out := make([]*Surface, len(rs))
	for i, r := range rs {
		out[i] = s.Sub(r)
	}
	return out
}

// Fill sets every pixel of the region to on.
func (s *Surface) Fill(on bool) {
	s.region.Fill(on)
}

// Pixel draws one pixel in the ink value.
func (s *Surface) Pixel(x, y int) {
	s.region.Set(x, y, s.ink)
}

// Line draws a 1px line between two inclusive end points.
func (s *Surface) Line(x0, y0, x1, y1 int) {
	s.line(x0, y0, x1, y1, s.ink)
}

func (s *Surface) line(x0, y0, x1, y1 int, on bool) {
	x0, y0, x1, y1, ok := s.clipLine(x0, y0, x1, y1)
	if !ok {
		return
	}
	switch {
	case y0 == y1:
		s.region.FillRect(min(x0, x1), y0, abs(x1-x0)+1, 1, on)
		return
	case x0 == x1:
		s.region.FillRect(x0, min(y0, y1), 1, abs(y1-y0)+1, on)
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		s.region.Set(x0, y0, on)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine trims the segment to the region (Liang-Barsky) so the plotting
// loop never walks more than width+height steps. Segments already inside are
// returned unchanged; ok is false when nothing of the segment is visible.
func (s *Surface) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	if s.region.Empty() {
		return 0, 0, 0, 0, false
	}
	w, h := s.region.width, s.region.height
	inside := func(x, y int) bool { return x >= 0 && y >= 0 && x < w && y < h }
	if inside(x0, y0) && inside(x1, y1) {
		return x0, y0, x1, y1, true
	}

	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1)-fx, float64(y1)-fy
	t0, t1 := 0.0, 1.0
	edge := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
		return true
	}
	if !edge(-dx, fx) || !edge(dx, float64(w-1)-fx) || !edge(-dy, fy) || !edge(dy, float64(h-1)-fy) {
		return 0, 0, 0, 0, false
	}
	at := func(t float64) (int, int) {
		x := min(max(int(math.Round(fx+t*dx)), 0), w-1)
		y := min(max(int(math.Round(fy+t*dy)), 0), h-1)
		return x, y
	}
	cx0, cy0 := at(t0)
	cx1, cy1 := at(t1)
	return cx0, cy0, cx1, cy1, true
}

// Rect draws the rectangle spanned by two inclusive corners.
func (s *Surface) Rect(x0, y0, x1, y1 int, mode Mode) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	w, h := x1-x0+1, y1-y0+1

	switch mode {
	case Fill:
		s.region.FillRect(x0, y0, w, h, s.ink)
		return
	case FillBorder:
		s.region.FillRect(x0+1, y0+1, w-2, h-2, !s.ink)
	}

	s.region.FillRect(x0, y0, w, 1, s.ink)
	s.region.FillRect(x0, y1, w, 1, s.ink)
	s.region.FillRect(x0, y0, 1, h, s.ink)
	s.region.FillRect(x1, y0, 1, h, s.ink)
}

// Circle draws a circle of radius r around (cx, cy).
//
// The circle is rasterized row by row over the rows it shares with the
// region, so the cost is bounded by the region height whatever r is.
func (s *Surface) Circle(cx, cy, r int, mode Mode) {
	if r < 0 || s.region.Empty() {
		return
	}
	if r == 0 {
		s.region.Set(cx, cy, s.ink)
		return
	}
	w, h := int64(s.region.width), int64(s.region.height)
	x, y, rr := int64(cx), int64(cy), int64(r)
	if x+rr < 0 || y+rr < 0 || x-rr >= w || y-rr >= h {
		return
	}

	for row := max(y-rr, 0); row <= min(y+rr, h-1); row++ {
		dy := row - y
		if dy < 0 {
			dy = -dy
		}
		half := circleHalf(rr, dy)
		switch mode {
		case Fill:
			s.span(x-half, x+half, row, s.ink)
			continue
		case FillBorder:
			s.span(x-half, x+half, row, !s.ink)
		}
		// Outline pixels are the inside ones with an outside neighbour
		// further from the center, horizontally or vertically.
		lo := min(half, circleHalf(rr, dy+1)+1)
		s.span(x+lo, x+half, row, s.ink)
		s.span(x-half, x-lo, row, s.ink)
	}
}

// circleHalf returns the half width of the row dy away from the center of a
// circle of radius r: the largest x with x*x + dy*dy <= r*r + r, or -1 past
// the top of the circle.
func circleHalf(r, dy int64) int64 {
	if dy > r {
		return -1
	}
	fr, fd := float64(r), float64(dy)
	v := fr*fr + fr - fd*fd
	x := int64(math.Sqrt(v))
	if r > 1<<30 {
		return x
	}
	lim := r*r + r - dy*dy
	for x*x > lim {
		x--
	}
	for (x+1)*(x+1) <= lim {
		x++
	}
	return x
}

// span fills row y of the region from x0 to x1 inclusive, clipped.
func (s *Surface) span(x0, x1, y int64, on bool) {
	x0 = max(x0, 0)
	x1 = min(x1, int64(s.region.width)-1)
	if x0 > x1 {
		return
	}
	s.region.FillRect(int(x0), int(y), int(x1-x0+1), 1, on)
}

// Text draws str from the cursor in the ink value and advances the cursor by
// each glyph's advance. It never wraps; control characters are skipped.
// Glyphs whose box misses the region are not drawn, but still advance.
func (s *Surface) Text(str string) {
	face := s.font.Face
	if face == nil {
		return
	}
	if s.region.Empty() {
		for _, r := range str {
			s.cx += s.font.Advance(r)
		}
		return
	}
	c := colorOff
	if s.ink {
		c = colorOn
	}
	base := s.cy + int(s.font.Ascent)
	for _, r := range str {
		if r < 0x20 {
			continue
		}
		if s.cx >= s.region.width {
			s.cx += s.font.Advance(r)
			continue
		}
		g := face.GetGlyph(r)
		info := g.Info()
		if s.glyphVisible(info, base) {
			g.Draw(s, int16(s.cx), int16(base), c)
		}
		s.cx += int(info.XAdvance)
	}
}

// glyphVisible reports whether a glyph drawn at the cursor on baseline base
// can touch the region. Only then do the coordinates fit tinyfont's int16.
func (s *Surface) glyphVisible(info tinyfont.GlyphInfo, base int) bool {
	left := s.cx + min(int(info.XOffset), 0)
	right := s.cx + max(int(info.XOffset)+int(info.Width), int(info.XAdvance))
	top := base + int(info.YOffset)
	bottom := top + int(info.Height)
	return right > 0 && left < s.region.width && bottom > 0 && top < s.region.height
}

// TextAt moves the cursor to (x, y) and draws str.
func (s *Surface) TextAt(x, y int, str string) {
	s.SetCursor(x, y)
	s.Text(str)
}

// Size implements drivers.Displayer.
func (s *Surface) Size() (x, y int16) {
	return int16(s.region.width), int16(s.region.height)
}

// SetPixel implements drivers.Displayer.
func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	s.region.Set(int(x), int(y), c.R != 0 || c.G != 0 || c.B != 0)
}

// Display implements drivers.Displayer. Flushing is the display task's job,
// so this is a no-op.
func (s *Surface) Display() error { return nil }

// FillRectangle implements tinyterm's Displayer.
func (s *Surface) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	s.region.FillRect(int(x), int(y), int(width), int(height), c.R != 0 || c.G != 0 || c.B != 0)
	return nil
}

// SetScroll implements tinyterm's Displayer. Regions do not scroll.
func (s *Surface) SetScroll(line int16) {
	_ = line
}

// SetRotation implements tinyterm's Displayer. Regions are not rotated.
func (s *Surface) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

var _ drivers.Displayer = (*Surface)(nil)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
