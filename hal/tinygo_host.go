//go:build tinygo && !baremetal

package hal

import "fmt"

type tinyGoHostHAL struct {
	logger tinyGoHostLogger
	disp   *memDisplay
	in     *idleInput
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU pin mapping.
// The display is memory-only and the sticks rest at center.
func New() HAL {
	return &tinyGoHostHAL{
		disp: newMemDisplay(128, 64),
		in:   newIdleInput(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHostHAL) Display() Display     { return h.disp }
func (h *tinyGoHostHAL) Input() Input         { return h.in }
func (h *tinyGoHostHAL) Transport() Transport { return nullTransport{} }

type tinyGoHostLogger struct{}

func (tinyGoHostLogger) WriteLineString(s string) { fmt.Println(s) }
func (tinyGoHostLogger) WriteLineBytes(b []byte)  { fmt.Println(string(b)) }
