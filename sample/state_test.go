package sample

import (
	"math"
	"runtime"
	"sync"
	"testing"
)

func TestClamp(t *testing.T) {
	nan := float32(math.NaN())
	cases := []struct {
		in, want float32
	}{
		{0.5, 0.5},
		{-3, -1},
		{2, 1},
		{nan, 0},
	}
	for _, tc := range cases {
		if got := Clamp(tc.in); got != tc.want {
			t.Fatalf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStoreLoad(t *testing.T) {
	var s State
	gen := s.Store(Snapshot{LeftX: 0.25, LeftY: -2, RightX: 1, RightY: -0.5, Toggle: true})
	if gen != 1 {
		t.Fatalf("Store() generation = %d, want 1", gen)
	}
	got := s.Load()
	want := Snapshot{LeftX: 0.25, LeftY: -1, RightX: 1, RightY: -0.5, Toggle: true, Generation: 1}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestFlipToggle(t *testing.T) {
	var s State
	if !s.FlipToggle() || s.FlipToggle() {
		t.Fatalf("FlipToggle did not alternate")
	}
}

// The writer stores x then y as two separate updates; a reader racing with it
// may see any old/new mix but never a value outside the written set.
func TestTornReadStaysInDomain(t *testing.T) {
	var s State
	const rounds = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			v := float32(i%2)*2 - 1 // alternates -1, 1
			s.SetLeft(v, -v)
			s.Commit()
		}
	}()

	seen := 0
	for seen < rounds {
		snap := s.Load()
		for _, v := range []float32{snap.LeftX, snap.LeftY} {
			if v != 0 && v != 1 && v != -1 {
				t.Fatalf("read %v outside the written domain", v)
			}
		}
		seen++
	}
	wg.Wait()

	x, y := s.Left()
	if x != -y || x == 0 {
		t.Fatalf("final state = (%v, %v), want a completed update", x, y)
	}
}

func TestHandoffLatestWins(t *testing.T) {
	h := NewHandoff()
	if _, ok := h.TryTake(); ok {
		t.Fatalf("TryTake on empty handoff returned a snapshot")
	}

	h.Publish(Snapshot{Generation: 1})
	h.Publish(Snapshot{Generation: 2})
	h.Publish(Snapshot{Generation: 3})

	got, ok := h.TryTake()
	if !ok || got.Generation != 3 {
		t.Fatalf("TryTake() = %+v, %v, want generation 3", got, ok)
	}
	if _, ok := h.TryTake(); ok {
		t.Fatalf("handoff held more than one snapshot")
	}
}

func TestHandoffWholeGenerations(t *testing.T) {
	h := NewHandoff()
	const last = 2000

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := uint32(1); i <= last; i++ {
			v := float32(i%3) - 1
			h.Publish(Snapshot{LeftX: v, LeftY: v, RightX: v, RightY: v, Generation: i})
		}
	}()

	var prev uint32
	for prev < last {
		snap, ok := h.TryTake()
		if !ok {
			runtime.Gosched()
			continue
		}
		if snap.LeftX != snap.LeftY || snap.RightX != snap.LeftX || snap.RightY != snap.LeftX {
			t.Fatalf("torn snapshot %+v", snap)
		}
		if snap.Generation <= prev {
			t.Fatalf("generation went from %d to %d", prev, snap.Generation)
		}
		prev = snap.Generation
	}
	<-done
}
