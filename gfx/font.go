package gfx

import "tinygo.org/x/tinyfont"

// Font is a tinyfont face plus the metrics needed to place text by the top
// edge of its line.
type Font struct {
	Face tinyfont.Fonter
	// Ascent is the distance from the line top to the baseline.
	Ascent int16
	// LineHeight is the distance between consecutive baselines.
	LineHeight int16
}

// NewFont measures face.
func NewFont(face tinyfont.Fonter) Font {
	f := Font{Face: face}
	if face == nil {
		return f
	}
	for _, r := range "0AHMbdfhklt|" {
		info := face.GetGlyph(r).Info()
		if a := -int16(info.YOffset); a > f.Ascent {
			f.Ascent = a
		}
	}
	f.LineHeight = int16(face.GetYAdvance())
	if f.LineHeight <= f.Ascent {
		f.LineHeight = f.Ascent + 1
	}
	return f
}

// DefaultFont is a 3x5 face with a 4-pixel advance, which fits ~32 columns on a 128px panel.
func DefaultFont() Font {
	return NewFont(&tinyfont.TomThumb)
}

// Advance returns the horizontal advance of r in pixels.
func (f Font) Advance(r rune) int {
	if f.Face == nil || r < 0x20 {
		return 0
	}
	return int(f.Face.GetGlyph(r).Info().XAdvance)
}

// Width returns the pixel width of s drawn on one line.
func (f Font) Width(s string) int {
	w := 0
	for _, r := range s {
		w += f.Advance(r)
	}
	return w
}
