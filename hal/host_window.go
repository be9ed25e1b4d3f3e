//go:build !tinygo && cgo

package hal

import (
	"errors"

	"dualjoy/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

var errWindowClosed = errors.New("window closed")

// RunWindow starts a desktop window that displays the framebuffer and forwards keyboard input.
// It blocks until the window closes or the app step fails.
func RunWindow(cfg HostConfig, newApp func(HAL) func() error) error {
	h := newHost(cfg)
	defer h.close()
	step := newApp(h)

	scale := 4
	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("DualJoy (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.disp.width*scale, h.disp.height*scale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, errWindowClosed) {
		return nil
	}
	return err
}

type hostGame struct {
	h       *hostHAL
	rgba    []byte
	fbImg   *ebiten.Image
	scratch []byte
	seen    uint64
	step    func() error
}

func (g *hostGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return errWindowClosed
	}
	g.h.in.pollKeyboard()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	d := g.h.disp
	if g.fbImg == nil {
		g.rgba = make([]byte, d.width*d.height*4)
		g.scratch = make([]byte, len(d.buf))
		g.fbImg = ebiten.NewImage(d.width, d.height)
	}

	if seq := d.snapshot(g.scratch); seq != g.seen {
		g.seen = seq
		expandRGBA(g.rgba, g.scratch, d.width, d.height, d.stride)
		g.fbImg.WritePixels(g.rgba)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.disp.width, g.h.disp.height
}
