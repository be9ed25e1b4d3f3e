//go:build !tinygo

package hal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig
	// Hz is the rate the app step is polled at.
	Hz int
	// Ticks stops the runner after that many polls; 0 runs until ctx is done.
	Ticks uint64

	// Dump, when set, receives the last presented frame as half-block text
	// every DumpEvery polls and once more on exit.
	Dump      io.Writer
	DumpEvery uint64
}

// RunHeadless runs the firmware without a window or terminal UI.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("headless: invalid hz %d", cfg.Hz)
	}

	h := newHost(cfg.Host)
	defer h.close()
	step := newApp(h)

	frame := make([]byte, len(h.disp.buf))
	var dumped uint64
	dump := func() {
		if cfg.Dump == nil {
			return
		}
		seq := h.disp.snapshot(frame)
		if seq == dumped {
			return
		}
		dumped = seq
		_ = writeFrameText(cfg.Dump, frame, h.disp.width, h.disp.height, h.disp.stride, seq)
	}
	defer dump()

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}
		tick++
		if cfg.DumpEvery > 0 && tick%cfg.DumpEvery == 0 {
			dump()
		}
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}
	}
}

// writeFrameText renders a page-layout frame two pixel rows per text line.
func writeFrameText(w io.Writer, frame []byte, width, height, stride int, seq uint64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "frame %d\n", seq)
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := pixelOn(frame, stride, x, y)
			bottom := y+1 < height && pixelOn(frame, stride, x, y+1)
			bw.WriteRune(halfBlock(top, bottom))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
