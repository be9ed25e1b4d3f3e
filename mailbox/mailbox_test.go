package mailbox

import (
	"encoding/binary"
	"runtime"
	"sync"
	"testing"

	"dualjoy/hal"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	var mb Mailbox

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	var mb Mailbox
	var msg Message

	for round := 0; round < 3; round++ {
		for i := 0; i < Slots; i++ {
			if ok := mb.TrySend(msg); !ok {
				t.Fatalf("TrySend() ok = false at slot %d, want true", i)
			}
		}
		if ok := mb.TrySend(msg); ok {
			t.Fatalf("TrySend() ok = true when full, want false")
		}

		for i := 0; i < Slots; i++ {
			if _, ok := mb.TryRecv(); !ok {
				t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
			}
		}
		if _, ok := mb.TryRecv(); ok {
			t.Fatalf("TryRecv() ok = true when drained, want false")
		}
	}
}

func TestNewMessageTruncates(t *testing.T) {
	from := hal.Address{1, 2, 3, 4, 5, 6}
	big := make([]byte, hal.MaxPayloadBytes+10)
	big[0] = 0x42

	msg := NewMessage(from, big)
	if int(msg.Len) != hal.MaxPayloadBytes {
		t.Fatalf("Len = %d, want %d", msg.Len, hal.MaxPayloadBytes)
	}
	if msg.From != from || msg.Payload()[0] != 0x42 {
		t.Fatalf("message = %v %#x", msg.From, msg.Payload()[0])
	}
}

func TestMailboxDrainOrder(t *testing.T) {
	var mb Mailbox
	for i := byte(0); i < 5; i++ {
		if !mb.TrySend(NewMessage(hal.Address{}, []byte{i})) {
			t.Fatalf("TrySend(%d) = false", i)
		}
	}

	var got []byte
	n := mb.Drain(func(m *Message) { got = append(got, m.Payload()[0]) })
	if n != 5 {
		t.Fatalf("Drain() = %d, want 5", n)
	}
	for i, v := range got {
		if int(v) != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(2)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 5_000
		total     = producers * perProd
	)

	var mb Mailbox

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				id := uint32(producerID*perProd + i)
				var msg Message
				msg.Len = 4
				binary.LittleEndian.PutUint32(msg.Data[:4], id)
				for !mb.TrySend(msg) {
					runtime.Gosched()
				}
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	for i := 0; i < total; i++ {
		msg, ok := mb.TryRecv()
		if !ok {
			runtime.Gosched()
			i--
			continue
		}
		if msg.Len != 4 {
			t.Fatalf("TryRecv() msg.Len = %d, want 4", msg.Len)
		}
		id := binary.LittleEndian.Uint32(msg.Data[:4])
		if int(id) >= total {
			t.Fatalf("TryRecv() id = %d, want < %d", id, total)
		}
		if seen[id] {
			t.Fatalf("TryRecv() duplicate id %d", id)
		}
		seen[id] = true
	}
	wg.Wait()
}
