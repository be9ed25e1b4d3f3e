package gfx

import (
	"errors"
	"image"
	"testing"
)

func newRoot(t *testing.T, w, h int) (Region, []byte) {
	t.Helper()
	buf := make([]byte, w*((h+7)/8))
	r, err := Root(buf, w, w, h)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	return r, buf
}

func TestRootRejectsShortBuffer(t *testing.T) {
	if _, err := Root(make([]byte, 127), 128, 128, 8); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("Root(short) err = %v, want %v", err, ErrBufferTooSmall)
	}
	if _, err := Root(make([]byte, 1024), 64, 128, 64); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Root(width > stride) err = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestSplitColumnsHalves(t *testing.T) {
	root, _ := newRoot(t, 128, 64)
	cols, err := root.Columns(2)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	want := []image.Rectangle{
		image.Rect(0, 0, 64, 64),
		image.Rect(64, 0, 128, 64),
	}
	if len(cols) != len(want) {
		t.Fatalf("len(cols) = %d, want %d", len(cols), len(want))
	}
	for i, c := range cols {
		if c.Bounds() != want[i] {
			t.Fatalf("cols[%d].Bounds() = %v, want %v", i, c.Bounds(), want[i])
		}
	}
}

func TestSplitPartitions(t *testing.T) {
	cases := []struct {
		name    string
		extent  int
		weights []int
		want    []int
	}{
		{name: "thirds", extent: 128, weights: []int{1, 1, 1}, want: []int{42, 42, 44}},
		{name: "seven-one", extent: 64, weights: []int{7, 1}, want: []int{56, 8}},
		{name: "zero weight", extent: 10, weights: []int{1, 0, 1}, want: []int{5, 0, 5}},
		{name: "leftover", extent: 7, weights: []int{1, 1}, want: []int{3, 4}},
		{name: "single", extent: 33, weights: []int{5}, want: []int{33}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, _ := newRoot(t, tc.extent, tc.extent)

			cols, err := root.SplitColumns(tc.weights...)
			if err != nil {
				t.Fatalf("SplitColumns: %v", err)
			}
			rows, err := root.SplitRows(tc.weights...)
			if err != nil {
				t.Fatalf("SplitRows: %v", err)
			}

			x, y := 0, 0
			for i := range tc.want {
				if got := cols[i].Width(); got != tc.want[i] {
					t.Fatalf("cols[%d].Width() = %d, want %d", i, got, tc.want[i])
				}
				if got := rows[i].Height(); got != tc.want[i] {
					t.Fatalf("rows[%d].Height() = %d, want %d", i, got, tc.want[i])
				}
				if cx, _ := cols[i].Offset(); cx != x {
					t.Fatalf("cols[%d] x = %d, want %d", i, cx, x)
				}
				if _, ry := rows[i].Offset(); ry != y {
					t.Fatalf("rows[%d] y = %d, want %d", i, ry, y)
				}
				x += cols[i].Width()
				y += rows[i].Height()
			}
			if x != tc.extent || y != tc.extent {
				t.Fatalf("split covers (%d, %d), want %d", x, y, tc.extent)
			}
		})
	}
}

func TestSplitBadWeights(t *testing.T) {
	root, _ := newRoot(t, 16, 16)
	for _, w := range [][]int{nil, {0, 0}, {1, -1}} {
		if _, err := root.SplitColumns(w...); !errors.Is(err, ErrBadWeights) {
			t.Fatalf("SplitColumns(%v) err = %v, want %v", w, err, ErrBadWeights)
		}
	}
	if _, err := root.Rows(0); !errors.Is(err, ErrBadWeights) {
		t.Fatalf("Rows(0) err = %v, want %v", err, ErrBadWeights)
	}
}

func TestCarveFailsInsteadOfClamping(t *testing.T) {
	root, _ := newRoot(t, 32, 16)
	cases := []struct {
		name       string
		w, h, x, y int
	}{
		{name: "too wide", w: 33, h: 1},
		{name: "spills right", w: 10, h: 1, x: 23},
		{name: "spills bottom", w: 1, h: 10, y: 7},
		{name: "negative x", w: 1, h: 1, x: -1},
		{name: "negative size", w: -1, h: 1},
	}
	for _, tc := range cases {
		if _, err := root.Carve(tc.w, tc.h, tc.x, tc.y); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("%s: Carve err = %v, want %v", tc.name, err, ErrOutOfBounds)
		}
	}

	c, err := root.Carve(10, 4, 22, 12)
	if err != nil {
		t.Fatalf("Carve(edge fit): %v", err)
	}
	if c.Bounds() != image.Rect(22, 12, 32, 16) {
		t.Fatalf("Bounds() = %v", c.Bounds())
	}
	if _, err := root.Carve(0, 0, 32, 16); err != nil {
		t.Fatalf("Carve(empty at corner): %v", err)
	}
}

func TestLocalToGlobalTranslation(t *testing.T) {
	root, buf := newRoot(t, 128, 64)
	child, err := root.Carve(20, 20, 30, 10)
	if err != nil {
		t.Fatalf("Carve: %v", err)
	}
	grand, err := child.Carve(5, 5, 3, 4)
	if err != nil {
		t.Fatalf("Carve: %v", err)
	}

	grand.Set(1, 2, true)

	gx, gy := 30+3+1, 10+4+2
	if !root.Get(gx, gy) {
		t.Fatalf("root pixel (%d, %d) not set", gx, gy)
	}
	if buf[gx+(gy/8)*128] != 1<<uint(gy%8) {
		t.Fatalf("buf byte = %#x, want bit %d", buf[gx+(gy/8)*128], gy%8)
	}
	set := 0
	for _, b := range buf {
		for ; b != 0; b &= b - 1 {
			set++
		}
	}
	if set != 1 {
		t.Fatalf("set bits = %d, want 1", set)
	}
}

func TestClippingStaysInsideRegion(t *testing.T) {
	root, _ := newRoot(t, 64, 32)
	cols, err := root.Columns(2)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	left := cols[0]

	left.Set(-1, 0, true)
	left.Set(32, 0, true)
	left.Set(0, 32, true)
	left.FillRect(20, -5, 100, 100, true)

	for y := 0; y < 32; y++ {
		for x := 32; x < 64; x++ {
			if root.Get(x, y) {
				t.Fatalf("pixel (%d, %d) leaked into sibling", x, y)
			}
		}
	}
	if !root.Get(31, 31) || !root.Get(20, 0) {
		t.Fatalf("clipped fill missing inside pixels")
	}
	if root.Get(19, 0) {
		t.Fatalf("fill started left of its origin")
	}
}

func TestFillRectAcrossPages(t *testing.T) {
	root, buf := newRoot(t, 8, 24)
	sub, err := root.Carve(2, 13, 3, 5)
	if err != nil {
		t.Fatalf("Carve: %v", err)
	}
	sub.Fill(true)

	for y := 0; y < 24; y++ {
		for x := 0; x < 8; x++ {
			want := x >= 3 && x < 5 && y >= 5 && y < 18
			if got := root.Get(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if buf[3] != 0xE0 || buf[8+3] != 0xFF || buf[16+3] != 0x03 {
		t.Fatalf("page bytes = %#x %#x %#x", buf[3], buf[8+3], buf[16+3])
	}

	sub.Fill(false)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %#x after clear", i, b)
		}
	}
}
