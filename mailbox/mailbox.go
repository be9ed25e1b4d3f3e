// Package mailbox is a fixed-size, allocation-free message queue for handing
// inbound link traffic from a driver callback to a task loop.
package mailbox

import (
	"sync/atomic"

	"dualjoy/hal"
)

// Message is a fixed-size envelope for one inbound payload.
type Message struct {
	From hal.Address
	Len  uint16
	Data [hal.MaxPayloadBytes]byte
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte { return m.Data[:m.Len] }

// NewMessage copies payload into a Message, truncating to MaxPayloadBytes.
func NewMessage(from hal.Address, payload []byte) Message {
	msg := Message{From: from}
	msg.Len = uint16(copy(msg.Data[:], payload))
	return msg
}

const Slots = 8

// Mailbox is a bounded multi-producer, single-consumer queue.
//
// Each slot carries a sequence number so a consumer never reads a slot whose
// producer has reserved it but not finished writing it. Neither side ever
// blocks and nothing allocates.
type Mailbox struct {
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [Slots]slot
}

// slot.seq is stored relative to the slot index so the zero value starts
// with slot i expecting position i.
type slot struct {
	seq atomic.Uint32
	msg Message
}

func (mb *Mailbox) at(pos uint32) (*slot, uint32) {
	i := pos % Slots
	return &mb.slots[i], i
}

// TrySend enqueues msg, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		head := mb.head.Load()
		s, i := mb.at(head)
		seq := s.seq.Load() + i
		switch diff := int32(seq - head); {
		case diff == 0:
			if !mb.head.CompareAndSwap(head, head+1) {
				continue
			}
			s.msg = msg
			s.seq.Store(head + 1 - i)
			return true
		case diff < 0:
			return false
		default:
			// Another producer moved head; reload.
		}
	}
}

// TryRecv dequeues one message, returning false if empty. Only one goroutine
// may receive.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	s, i := mb.at(tail)
	if s.seq.Load()+i != tail+1 {
		return Message{}, false
	}
	msg := s.msg
	s.seq.Store(tail + Slots - i)
	mb.tail.Store(tail + 1)
	return msg, true
}

// Drain calls fn for every queued message and returns how many it saw.
func (mb *Mailbox) Drain(fn func(*Message)) int {
	n := 0
	for {
		msg, ok := mb.TryRecv()
		if !ok {
			return n
		}
		n++
		fn(&msg)
	}
}
