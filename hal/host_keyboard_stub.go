//go:build !tinygo && !cgo

package hal

func (in *hostInput) pollKeyboard() {
	// No keyboard support without the window backend.
}
