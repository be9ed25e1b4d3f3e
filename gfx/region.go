// Package gfx composes a monochrome screen out of rectangular regions of one
// shared pixel buffer and draws into them.
//
// The pixel store uses the SSD1306 page layout: pixel (x, y) is bit y%8 of
// byte x + (y/8)*stride. A Region is a value that borrows the buffer; the
// buffer's owner (the display driver) must outlive every Region carved from it.
package gfx

import (
	"errors"
	"image"
)

var (
	ErrOutOfBounds    = errors.New("gfx: rectangle not contained in parent")
	ErrBufferTooSmall = errors.New("gfx: buffer too small")
	ErrBadWeights     = errors.New("gfx: split weights must be non-negative with a positive sum")
)

// Region is a non-owning rectangular window into a page-layout pixel buffer.
//
// Coordinates passed to Region methods are local: (0, 0) is the region's
// top-left corner. Writes outside [0, Width) x [0, Height) are dropped.
type Region struct {
	buf    []byte
	stride int
	width  int
	height int
	x      int
	y      int
}

// Root returns the region covering a whole buffer.
func Root(buf []byte, stride, width, height int) (Region, error) {
	if stride < 0 || width < 0 || height < 0 || width > stride {
		return Region{}, ErrOutOfBounds
	}
	if len(buf) < stride*((height+7)/8) {
		return Region{}, ErrBufferTooSmall
	}
	return Region{buf: buf, stride: stride, width: width, height: height}, nil
}

func (r Region) Width() int  { return r.width }
func (r Region) Height() int { return r.height }

// Offset returns the region's top-left corner in buffer coordinates.
func (r Region) Offset() (x, y int) { return r.x, r.y }

// Stride returns the buffer's row pitch in bytes per page row.
func (r Region) Stride() int { return r.stride }

// Bounds returns the region in buffer coordinates.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.x, r.y, r.x+r.width, r.y+r.height)
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool { return r.width <= 0 || r.height <= 0 }

// Carve returns the child region of size width x height at local (x, y).
//
// The rectangle must lie entirely inside r; otherwise Carve returns
// ErrOutOfBounds and never clamps.
func (r Region) Carve(width, height, x, y int) (Region, error) {
	if width < 0 || height < 0 || x < 0 || y < 0 {
		return Region{}, ErrOutOfBounds
	}
	if x+width > r.width || y+height > r.height {
		return Region{}, ErrOutOfBounds
	}
	return Region{
		buf:    r.buf,
		stride: r.stride,
		width:  width,
		height: height,
		x:      r.x + x,
		y:      r.y + y,
	}, nil
}

// SplitColumns partitions r left to right into len(weights) regions.
//
// Each column is floor(Width*w/sum) wide; the rounding leftover goes to the
// last column, so the columns tile r exactly.
func (r Region) SplitColumns(weights ...int) ([]Region, error) {
	sizes, err := splitSizes(r.width, weights)
	if err != nil {
		return nil, err
	}
	out := make([]Region, len(sizes))
	pos := 0
	for i, s := range sizes {
		out[i] = Region{buf: r.buf, stride: r.stride, width: s, height: r.height, x: r.x + pos, y: r.y}
		pos += s
	}
	return out, nil
}

// SplitRows partitions r top to bottom into len(weights) regions, with the
// same rounding rule as SplitColumns.
func (r Region) SplitRows(weights ...int) ([]Region, error) {
	sizes, err := splitSizes(r.height, weights)
	if err != nil {
		return nil, err
	}
	out := make([]Region, len(sizes))
	pos := 0
	for i, s := range sizes {
		out[i] = Region{buf: r.buf, stride: r.stride, width: r.width, height: s, x: r.x, y: r.y + pos}
		pos += s
	}
	return out, nil
}

// Columns splits r into n equal-weight columns.
func (r Region) Columns(n int) ([]Region, error) { return r.SplitColumns(ones(n)...) }

// Rows splits r into n equal-weight rows.
func (r Region) Rows(n int) ([]Region, error) { return r.SplitRows(ones(n)...) }

func ones(n int) []int {
	if n <= 0 {
		return nil
	}
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func splitSizes(extent int, weights []int) ([]int, error) {
	if len(weights) == 0 {
		return nil, ErrBadWeights
	}
	sum := 0
	for _, w := range weights {
		if w < 0 {
			return nil, ErrBadWeights
		}
		sum += w
	}
	if sum <= 0 {
		return nil, ErrBadWeights
	}

	sizes := make([]int, len(weights))
	used := 0
	for i, w := range weights {
		sizes[i] = extent * w / sum
		used += sizes[i]
	}
	sizes[len(sizes)-1] += extent - used
	return sizes, nil
}

func (r Region) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}

// index translates local (x, y) to a byte index and bit mask.
func (r Region) index(x, y int) (int, byte) {
	gx := r.x + x
	gy := r.y + y
	return gx + (gy/8)*r.stride, 1 << uint(gy%8)
}

// Set writes one pixel. Out-of-region coordinates are ignored.
func (r Region) Set(x, y int, on bool) {
	if !r.contains(x, y) {
		return
	}
	i, m := r.index(x, y)
	if i >= len(r.buf) {
		return
	}
	if on {
		r.buf[i] |= m
	} else {
		r.buf[i] &^= m
	}
}

// Get reads one pixel. Out-of-region coordinates read as off.
func (r Region) Get(x, y int) bool {
	if !r.contains(x, y) {
		return false
	}
	i, m := r.index(x, y)
	if i >= len(r.buf) {
		return false
	}
	return r.buf[i]&m != 0
}

// Fill sets every pixel of the region.
func (r Region) Fill(on bool) {
	r.FillRect(0, 0, r.width, r.height, on)
}

// FillRect sets a width x height block at local (x, y), clipped to r.
//
// Whole bytes are written where a column covers a full page.
func (r Region) FillRect(x, y, width, height int, on bool) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+width, r.width), min(y+height, r.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	gy0, gy1 := r.y+y0, r.y+y1
	for page := gy0 / 8; page*8 < gy1; page++ {
		lo := max(gy0, page*8) - page*8
		hi := min(gy1, page*8+8) - page*8
		mask := byte(0xFF<<uint(lo)) & byte(0xFF>>uint(8-hi))
		row := page * r.stride
		for gx := r.x + x0; gx < r.x+x1; gx++ {
			i := row + gx
			if i >= len(r.buf) {
				return
			}
			if on {
				r.buf[i] |= mask
			} else {
				r.buf[i] &^= mask
			}
		}
	}
}
