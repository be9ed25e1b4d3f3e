package sample

// Handoff passes whole snapshots from one producer to one consumer.
//
// It holds at most one pending snapshot. Publish never blocks: a snapshot the
// consumer has not taken yet is replaced by the newer one.
type Handoff struct {
	ch chan Snapshot
}

func NewHandoff() *Handoff {
	return &Handoff{ch: make(chan Snapshot, 1)}
}

// Publish offers snap to the consumer, dropping any older pending snapshot.
// Only one goroutine may publish.
func (h *Handoff) Publish(snap Snapshot) {
	for {
		select {
		case h.ch <- snap:
			return
		default:
		}
		select {
		case <-h.ch:
		default:
		}
	}
}

// TryTake returns the pending snapshot, if any.
func (h *Handoff) TryTake() (Snapshot, bool) {
	select {
	case snap := <-h.ch:
		return snap, true
	default:
		return Snapshot{}, false
	}
}
