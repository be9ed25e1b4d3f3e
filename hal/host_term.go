//go:build !tinygo

package hal

import (
	"context"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Terminals report key presses only, so a press holds its axis or button for
// a short window and then releases.
const termHold = 150 * time.Millisecond

type termKeys struct {
	axis    [AxisCount]float32
	axisAt  [AxisCount]time.Time
	button  [ButtonCount]time.Time
	release time.Duration
}

func (k *termKeys) handle(ev *tcell.EventKey, now time.Time) {
	setAxis := func(id AxisID, v float32) {
		k.axis[id] = v
		k.axisAt[id] = now
	}

	switch ev.Key() {
	case tcell.KeyUp:
		setAxis(AxisRightY, 1)
	case tcell.KeyDown:
		setAxis(AxisRightY, -1)
	case tcell.KeyLeft:
		setAxis(AxisRightX, -1)
	case tcell.KeyRight:
		setAxis(AxisRightX, 1)
	case tcell.KeyEnter:
		k.button[ButtonRight] = now
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w':
			setAxis(AxisLeftY, 1)
		case 's':
			setAxis(AxisLeftY, -1)
		case 'a':
			setAxis(AxisLeftX, -1)
		case 'd':
			setAxis(AxisLeftX, 1)
		case 'z', ' ':
			k.button[ButtonLeft] = now
		case 'x':
			k.button[ButtonRight] = now
		}
	}
}

func (k *termKeys) apply(in *hostInput, now time.Time) {
	hold := k.release
	if hold <= 0 {
		hold = termHold
	}
	for id := AxisID(0); id < AxisCount; id++ {
		v := k.axis[id]
		if now.Sub(k.axisAt[id]) > hold {
			v = 0
		}
		in.setAxis(id, v)
	}
	for id := ButtonID(0); id < ButtonCount; id++ {
		in.setButton(id, !k.button[id].IsZero() && now.Sub(k.button[id]) <= hold)
	}
}

// RunTerminal renders the framebuffer into the terminal with half-block
// characters (two pixel rows per cell). Esc or Ctrl-C quits.
func RunTerminal(ctx context.Context, cfg HostConfig, newApp func(HAL) func() error) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	h := newHost(cfg)
	defer h.close()
	// The screen owns stdout; log lines still reach the status console.
	h.logger.redirect(io.Discard)
	step := newApp(h)

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	t := time.NewTicker(33 * time.Millisecond)
	defer t.Stop()

	var keys termKeys
	frame := make([]byte, len(h.disp.buf))
	var seen uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				keys.handle(ev, time.Now())
			case *tcell.EventResize:
				screen.Sync()
				seen = 0
			}
		case <-t.C:
			keys.apply(h.in, time.Now())
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if seq := h.disp.snapshot(frame); seq != seen {
				seen = seq
				drawHalfBlocks(screen, frame, h.disp.width, h.disp.height, h.disp.stride)
				screen.Show()
			}
		}
	}
}

// halfBlock picks the glyph for a cell whose top and bottom pixels are given.
func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

func drawHalfBlocks(screen tcell.Screen, frame []byte, width, height, stride int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := pixelOn(frame, stride, x, y)
			bottom := y+1 < height && pixelOn(frame, stride, x, y+1)
			screen.SetContent(x, y/2, halfBlock(top, bottom), nil, style)
		}
	}
}
