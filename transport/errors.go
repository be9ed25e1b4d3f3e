package transport

import (
	"errors"

	"dualjoy/hal"
)

// ErrorKind classifies a transport error.
type ErrorKind uint8

const (
	KindOK ErrorKind = iota
	KindNotInitialized
	KindPeerUnavailable
	KindPayloadTooLarge
	KindDriverFailure
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotInitialized:
		return "not initialized"
	case KindPeerUnavailable:
		return "peer unavailable"
	case KindPayloadTooLarge:
		return "payload too large"
	case KindDriverFailure:
		return "driver failure"
	default:
		return "unknown"
	}
}

// Kind maps err onto the hal error taxonomy.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, hal.ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, hal.ErrPeerUnavailable):
		return KindPeerUnavailable
	case errors.Is(err, hal.ErrPayloadTooLarge):
		return KindPayloadTooLarge
	case errors.Is(err, hal.ErrDriverFailure):
		return KindDriverFailure
	default:
		return KindUnknown
	}
}
