// Package transport is the controller's use of the wireless link: one-time
// setup, fire-and-forget sends of control packets, and an inbox for
// whatever peers send back.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"dualjoy/hal"
	"dualjoy/sample"
)

// Type tags a packet on the wire.
type Type uint8

const (
	TypeSample Type = iota + 1
	TypeHello
	TypeCommand
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeSample:
		return "sample"
	case TypeHello:
		return "hello"
	case TypeCommand:
		return "command"
	case TypeText:
		return "text"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

const (
	magic      = 0xD7
	headerSize = 2

	sampleSize = 4 + 4*4 + 1

	flagToggle = 1 << 0
	flagArmed  = 1 << 1
)

// MaxText is the longest string a hello, command or text packet can carry.
const MaxText = hal.MaxPayloadBytes - headerSize

var (
	ErrShortPacket = errors.New("transport: short packet")
	ErrBadMagic    = errors.New("transport: bad magic")
	ErrUnknownType = errors.New("transport: unknown packet type")
)

// Packet is one decoded link message.
//
// Sample is set for TypeSample; Text carries the body of every other type.
type Packet struct {
	Type   Type
	Sample sample.Snapshot
	Text   string
}

// Encode appends p's wire form to dst.
//
// Layout: magic, type, then for samples the generation (u32 LE), four axes
// (float32 LE: left x/y, right x/y) and a flag byte; other types carry raw
// text. Text longer than MaxText is an error.
func Encode(dst []byte, p Packet) ([]byte, error) {
	dst = append(dst, magic, byte(p.Type))
	switch p.Type {
	case TypeSample:
		s := p.Sample
		dst = binary.LittleEndian.AppendUint32(dst, s.Generation)
		for _, v := range [4]float32{s.LeftX, s.LeftY, s.RightX, s.RightY} {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
		var flags byte
		if s.Toggle {
			flags |= flagToggle
		}
		if s.Armed {
			flags |= flagArmed
		}
		return append(dst, flags), nil
	case TypeHello, TypeCommand, TypeText:
		if len(p.Text) > MaxText {
			return dst, fmt.Errorf("transport: %s text: %w", p.Type, hal.ErrPayloadTooLarge)
		}
		return append(dst, p.Text...), nil
	default:
		return dst, fmt.Errorf("%w: %d", ErrUnknownType, uint8(p.Type))
	}
}

// Decode parses one packet.
func Decode(b []byte) (Packet, error) {
	if len(b) < headerSize {
		return Packet{}, ErrShortPacket
	}
	if b[0] != magic {
		return Packet{}, ErrBadMagic
	}
	p := Packet{Type: Type(b[1])}
	body := b[headerSize:]
	switch p.Type {
	case TypeSample:
		if len(body) < sampleSize {
			return Packet{}, ErrShortPacket
		}
		s := &p.Sample
		s.Generation = binary.LittleEndian.Uint32(body)
		axes := [4]*float32{&s.LeftX, &s.LeftY, &s.RightX, &s.RightY}
		for i, a := range axes {
			*a = sample.Clamp(math.Float32frombits(binary.LittleEndian.Uint32(body[4+4*i:])))
		}
		flags := body[20]
		s.Toggle = flags&flagToggle != 0
		s.Armed = flags&flagArmed != 0
	case TypeHello, TypeCommand, TypeText:
		p.Text = string(body)
	default:
		return Packet{}, fmt.Errorf("%w: %d", ErrUnknownType, b[1])
	}
	return p, nil
}
