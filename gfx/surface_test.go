package gfx

import (
	"image/color"
	"testing"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// blockFont draws every printable rune as a solid 3x5 block with a 4px advance.
type blockFont struct{}

type blockGlyph struct{ r rune }

func (blockFont) GetGlyph(r rune) tinyfont.Glypher { return blockGlyph{r: r} }
func (blockFont) GetYAdvance() uint8               { return 6 }

func (g blockGlyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{Rune: g.r, Width: 3, Height: 5, XAdvance: 4, YOffset: -5}
}

func (g blockGlyph) Draw(d drivers.Displayer, x, y int16, c color.RGBA) {
	for dy := int16(-5); dy < 0; dy++ {
		for dx := int16(0); dx < 3; dx++ {
			d.SetPixel(x+dx, y+dy, c)
		}
	}
}

func newSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	r, _ := newRoot(t, w, h)
	return NewSurface(r, NewFont(blockFont{}))
}

func lit(s *Surface) int {
	n := 0
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Region().Get(x, y) {
				n++
			}
		}
	}
	return n
}

func TestNewFontMetrics(t *testing.T) {
	f := NewFont(blockFont{})
	if f.Ascent != 5 || f.LineHeight != 6 {
		t.Fatalf("metrics = ascent %d line %d, want 5 and 6", f.Ascent, f.LineHeight)
	}
	if got := f.Width("ab\ncd"); got != 16 {
		t.Fatalf("Width() = %d, want 16", got)
	}
}

func TestTextAdvancesCursorWithoutWrap(t *testing.T) {
	s := newSurface(t, 16, 16)
	s.TextAt(2, 1, "abcdef")

	x, y := s.Cursor()
	if x != 2+6*4 || y != 1 {
		t.Fatalf("Cursor() = (%d, %d), want (26, 1)", x, y)
	}
	// First glyph occupies x 2..4, y 1..5.
	for yy := 1; yy <= 5; yy++ {
		for xx := 2; xx <= 4; xx++ {
			if !s.Region().Get(xx, yy) {
				t.Fatalf("glyph pixel (%d, %d) not set", xx, yy)
			}
		}
	}
	// Nothing wrapped onto the next line.
	for yy := 6; yy < 16; yy++ {
		for xx := 0; xx < 16; xx++ {
			if s.Region().Get(xx, yy) {
				t.Fatalf("pixel (%d, %d) set below the text line", xx, yy)
			}
		}
	}
}

func TestTextOutsideRegionClips(t *testing.T) {
	cases := []struct {
		name string
		x, y int
	}{
		{"far right", 65540, 0},
		{"past int16", 32768 + 2, 0},
		{"far left", -65536, 0},
		{"far below", 0, 65540},
		{"above", 0, -6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSurface(t, 128, 64)
			s.TextAt(tc.x, tc.y, "AAAA")
			if got := lit(s); got != 0 {
				t.Fatalf("text at (%d, %d) lit %d pixels, want 0", tc.x, tc.y, got)
			}
			if x, _ := s.Cursor(); x != tc.x+16 {
				t.Fatalf("cursor x = %d, want %d", x, tc.x+16)
			}
		})
	}
}

func TestEmptyRegionDrawsNothing(t *testing.T) {
	root := newSurface(t, 16, 16)
	r, err := root.Region().Carve(0, 4, 2, 2)
	if err != nil {
		t.Fatalf("Carve: %v", err)
	}
	if !r.Empty() {
		t.Fatalf("zero-width region not empty")
	}
	s := root.Sub(r)
	s.TextAt(0, 0, "ab")
	s.Line(-5, -5, 5, 5)
	s.Circle(0, 0, 4, Fill)
	if got := lit(root); got != 0 {
		t.Fatalf("drawing into an empty region lit %d pixels", got)
	}
	if x, _ := s.Cursor(); x != 8 {
		t.Fatalf("cursor x = %d, want 8", x)
	}
}

func TestTextPartlyVisible(t *testing.T) {
	s := newSurface(t, 16, 8)
	s.TextAt(-2, 0, "ab")
	// First glyph shows its right column, second glyph is whole.
	if !s.Region().Get(0, 2) || !s.Region().Get(2, 2) || !s.Region().Get(4, 2) {
		t.Fatalf("partly visible text not drawn")
	}
	if s.Region().Get(1, 2) {
		t.Fatalf("gap between glyphs lit")
	}
}

func TestTextSkipsControlRunes(t *testing.T) {
	s := newSurface(t, 32, 8)
	s.TextAt(0, 0, "a\nb")
	if x, _ := s.Cursor(); x != 8 {
		t.Fatalf("cursor x = %d, want 8", x)
	}
}

func TestTextInkOff(t *testing.T) {
	s := newSurface(t, 8, 8)
	s.Fill(true)
	s.SetInk(false)
	s.TextAt(0, 0, "a")
	if s.Region().Get(1, 2) {
		t.Fatalf("ink-off text left pixel lit")
	}
	if !s.Region().Get(4, 2) {
		t.Fatalf("pixel outside glyph cleared")
	}
}

func TestRectModes(t *testing.T) {
	cases := []struct {
		name   string
		mode   Mode
		fill   bool
		inside bool
		lit    int
	}{
		{name: "stroke", mode: Stroke, inside: false, lit: 16},
		{name: "fill", mode: Fill, inside: true, lit: 25},
		{name: "fill-border on lit background", mode: FillBorder, fill: true, inside: false, lit: 16 + (64 - 25)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSurface(t, 8, 8)
			s.Fill(tc.fill)
			s.Rect(5, 5, 1, 1, tc.mode)

			if !s.Region().Get(1, 1) || !s.Region().Get(5, 3) {
				t.Fatalf("border not drawn")
			}
			if got := s.Region().Get(3, 3); got != tc.inside {
				t.Fatalf("interior = %v, want %v", got, tc.inside)
			}
			if got := lit(s); got != tc.lit {
				t.Fatalf("lit = %d, want %d", got, tc.lit)
			}
		})
	}
}

func TestFillBorderInvertedInk(t *testing.T) {
	s := newSurface(t, 8, 8)
	s.SetInk(false)
	s.Rect(0, 0, 7, 7, FillBorder)
	// Border off, interior on.
	if s.Region().Get(0, 0) || s.Region().Get(7, 4) {
		t.Fatalf("border lit with ink off")
	}
	if got := lit(s); got != 36 {
		t.Fatalf("lit = %d, want 36", got)
	}
}

func TestLineEndpointsAndClip(t *testing.T) {
	s := newSurface(t, 16, 16)
	s.Line(0, 0, 15, 15)
	for i := 0; i < 16; i++ {
		if !s.Region().Get(i, i) {
			t.Fatalf("diagonal pixel %d missing", i)
		}
	}
	if got := lit(s); got != 16 {
		t.Fatalf("lit = %d, want 16", got)
	}

	s.Fill(false)
	s.Line(-10, 3, 40, 3)
	if got := lit(s); got != 16 {
		t.Fatalf("clipped horizontal lit = %d, want 16", got)
	}

	s.Fill(false)
	s.Line(20, 20, 30, 25)
	if got := lit(s); got != 0 {
		t.Fatalf("offscreen line lit = %d, want 0", got)
	}
}

func TestLineFarEndpointsClip(t *testing.T) {
	s := newSurface(t, 128, 64)
	start := time.Now()
	s.Line(-1<<30, 0, 1<<30, 5)
	if d := time.Since(start); d > time.Second {
		t.Fatalf("Line took %v", d)
	}
	if got := lit(s); got != 128 {
		t.Fatalf("lit = %d, want one pixel per column", got)
	}

	s.Fill(false)
	s.Line(-1<<30, -1<<30, 1<<30, 1<<30)
	for i := 0; i < 64; i++ {
		if !s.Region().Get(i, i) {
			t.Fatalf("diagonal pixel %d missing", i)
		}
	}
}

func TestCircleCostBoundedByRegion(t *testing.T) {
	s := newSurface(t, 128, 64)
	start := time.Now()
	s.Circle(0, 0, 1<<28, Stroke)
	if got := lit(s); got != 0 {
		t.Fatalf("huge stroke circle lit %d pixels inside it, want 0", got)
	}
	s.Circle(0, 0, 1<<28, Fill)
	if got := lit(s); got != 128*64 {
		t.Fatalf("huge filled circle lit %d pixels, want %d", got, 128*64)
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("Circle took %v", d)
	}

	s.Fill(false)
	s.Circle(1000, 1000, 10, Fill)
	if got := lit(s); got != 0 {
		t.Fatalf("off-region circle lit %d pixels", got)
	}
}

func TestCircle(t *testing.T) {
	s := newSurface(t, 16, 16)
	s.Circle(8, 8, 3, Stroke)
	for _, p := range [][2]int{{11, 8}, {5, 8}, {8, 11}, {8, 5}} {
		if !s.Region().Get(p[0], p[1]) {
			t.Fatalf("outline point %v missing", p)
		}
	}
	if s.Region().Get(8, 8) {
		t.Fatalf("stroke circle filled its center")
	}

	s.Circle(8, 8, 3, Fill)
	if !s.Region().Get(8, 8) {
		t.Fatalf("filled circle center missing")
	}
}

func TestSurfaceSplitSharesFont(t *testing.T) {
	s := newSurface(t, 128, 64)
	rows, err := s.SplitRows(7, 1)
	if err != nil {
		t.Fatalf("SplitRows: %v", err)
	}
	if rows[0].Height() != 56 || rows[1].Height() != 8 {
		t.Fatalf("heights = %d, %d", rows[0].Height(), rows[1].Height())
	}
	if rows[1].Font().Ascent != s.Font().Ascent {
		t.Fatalf("split surface lost the font")
	}

	rows[1].TextAt(0, 0, "x")
	if !s.Region().Get(0, 56) {
		t.Fatalf("text in bottom row not translated to y=56")
	}
}

func TestDisplayerContract(t *testing.T) {
	s := newSurface(t, 20, 10)
	if w, h := s.Size(); w != 20 || h != 10 {
		t.Fatalf("Size() = (%d, %d)", w, h)
	}
	s.SetPixel(2, 2, color.RGBA{G: 1})
	if !s.Region().Get(2, 2) {
		t.Fatalf("non-black SetPixel did not light")
	}
	s.SetPixel(2, 2, color.RGBA{A: 0xFF})
	if s.Region().Get(2, 2) {
		t.Fatalf("black SetPixel did not clear")
	}
	if err := s.FillRectangle(18, 8, 5, 5, colorOn); err != nil {
		t.Fatalf("FillRectangle: %v", err)
	}
	if got := lit(s); got != 4 {
		t.Fatalf("lit = %d, want 4", got)
	}
	if err := s.Display(); err != nil {
		t.Fatalf("Display: %v", err)
	}
}
