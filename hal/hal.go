package hal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented  = errors.New("not implemented")
	ErrNotInitialized  = errors.New("not initialized")
	ErrPeerUnavailable = errors.New("peer unavailable")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrDriverFailure   = errors.New("driver failure")
)

// Display is a monochrome framebuffer plus a flush hook.
//
// The buffer uses the SSD1306 page layout: pixel (x, y) is bit y%8 of byte
// x + (y/8)*Stride(). Stride is the number of bytes per 8-pixel page row.
type Display interface {
	Width() int
	Height() int
	Stride() int
	Buffer() []byte
	Update() error
}

// AxisID names one analog stick axis.
type AxisID uint8

const (
	AxisLeftX AxisID = iota
	AxisLeftY
	AxisRightX
	AxisRightY

	AxisCount
)

// ButtonID names one push button.
type ButtonID uint8

const (
	ButtonLeft ButtonID = iota
	ButtonRight

	ButtonCount
)

// Axis is a calibrated analog input.
//
// Read returns a value in [-1, 1]; 0 is the rest position.
type Axis interface {
	Read() float32
}

// Input provides access to the sticks and buttons.
//
// Button pins read true while released (pull-up wiring).
type Input interface {
	Axis(id AxisID) Axis
	Button(id ButtonID) GPIOPin
}

// Address is a link-layer peer address.
type Address [6]byte

// Broadcast reaches every listening peer.
var Broadcast = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func (a Address) String() string {
	var b strings.Builder
	for i, v := range a {
		if i > 0 {
			b.WriteByte(':')
		}
		if v < 0x10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatUint(uint64(v), 16))
	}
	return b.String()
}

// ParseAddress parses "aa:bb:cc:dd:ee:ff".
func ParseAddress(s string) (Address, error) {
	var a Address
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != len(a) {
		return Address{}, fmt.Errorf("address %q: want %d octets", s, len(a))
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return Address{}, fmt.Errorf("address %q: %w", s, err)
		}
		a[i] = byte(v)
	}
	return a, nil
}

// MaxPayloadBytes is the largest payload a single Send may carry.
const MaxPayloadBytes = 250

// ReceiveHandler is called for every inbound payload.
//
// It may run on a goroutine other than the caller's and must not block.
// The payload slice is only valid for the duration of the call.
type ReceiveHandler func(from Address, payload []byte)

// Transport is an addressed datagram link (optional).
type Transport interface {
	Init() error
	AddPeer(addr Address) error
	Send(addr Address, payload []byte) error
	SetReceiveHandler(h ReceiveHandler) error
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Transport() Transport
}
