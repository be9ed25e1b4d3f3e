package hal

// Link frames carry one payload between two addresses over a datagram
// network: 6-byte destination, 6-byte source, payload.
const (
	frameHeaderBytes = 12
	maxFrameBytes    = frameHeaderBytes + MaxPayloadBytes
)

// putFrame writes a frame into buf and returns its length. payload must
// already be checked against MaxPayloadBytes.
func putFrame(buf *[maxFrameBytes]byte, to, from Address, payload []byte) int {
	copy(buf[0:6], to[:])
	copy(buf[6:12], from[:])
	return frameHeaderBytes + copy(buf[frameHeaderBytes:], payload)
}

// parseFrame splits a received frame. ok is false for runts and for frames
// addressed to neither self nor Broadcast.
func parseFrame(frame []byte, self Address) (from Address, payload []byte, ok bool) {
	if len(frame) < frameHeaderBytes {
		return Address{}, nil, false
	}
	var to Address
	copy(to[:], frame[0:6])
	if to != self && to != Broadcast {
		return Address{}, nil, false
	}
	copy(from[:], frame[6:12])
	return from, frame[frameHeaderBytes:], true
}
