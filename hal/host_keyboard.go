//go:build !tinygo && cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

func pressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func keyAxisValue(neg, pos bool) float32 {
	var v float32
	if neg {
		v--
	}
	if pos {
		v++
	}
	return v
}

// Key map: WASD drives the left stick, arrows (or IJKL) the right stick,
// Z/Space the left button, X/Enter the right button.
func (in *hostInput) pollKeyboard() {
	in.setAxis(AxisLeftX, keyAxisValue(pressed(ebiten.KeyA), pressed(ebiten.KeyD)))
	in.setAxis(AxisLeftY, keyAxisValue(pressed(ebiten.KeyS), pressed(ebiten.KeyW)))
	in.setAxis(AxisRightX, keyAxisValue(pressed(ebiten.KeyArrowLeft, ebiten.KeyJ), pressed(ebiten.KeyArrowRight, ebiten.KeyL)))
	in.setAxis(AxisRightY, keyAxisValue(pressed(ebiten.KeyArrowDown, ebiten.KeyK), pressed(ebiten.KeyArrowUp, ebiten.KeyI)))

	in.setButton(ButtonLeft, pressed(ebiten.KeyZ, ebiten.KeySpace))
	in.setButton(ButtonRight, pressed(ebiten.KeyX, ebiten.KeyEnter))
}
