package transport

import (
	"fmt"
	"sync/atomic"

	"dualjoy/hal"
	"dualjoy/mailbox"
	"dualjoy/sample"
)

// Link wraps a hal.Transport for the controller.
//
// Setup failures are logged and leave the link down for the rest of the
// session; sends on a down link are skipped. Send failures are logged and
// dropped: there is no retry.
//
// Sends happen on the input task. Inbound payloads are queued by the
// transport's receive callback and drained by Poll.
type Link struct {
	log   hal.Logger
	tr    hal.Transport
	peers []hal.Address

	up       atomic.Bool
	setupErr atomic.Pointer[error]
	inbox    mailbox.Mailbox

	sent    atomic.Uint32
	failed  atomic.Uint32
	dropped atomic.Uint32
	streak  uint32
}

// Stats are link counters since Setup.
type Stats struct {
	Sent    uint32
	Failed  uint32
	Dropped uint32
}

// failLogEvery limits logging during a run of consecutive send failures.
const failLogEvery = 100

func NewLink(tr hal.Transport, log hal.Logger, peers ...hal.Address) *Link {
	if len(peers) == 0 {
		peers = []hal.Address{hal.Broadcast}
	}
	return &Link{log: log, tr: tr, peers: peers}
}

func (l *Link) logf(format string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.WriteLineString(fmt.Sprintf("link: "+format, args...))
}

// Setup initializes the transport, registers peers and installs the receive
// handler. On failure it logs, keeps the link down and returns the error.
func (l *Link) Setup() error {
	if l.tr == nil {
		err := fmt.Errorf("transport: %w", hal.ErrNotInitialized)
		l.setupErr.Store(&err)
		l.logf("no transport; running without link")
		return err
	}
	if err := l.tr.Init(); err != nil {
		return l.fail("init", err)
	}
	for _, p := range l.peers {
		if err := l.tr.AddPeer(p); err != nil {
			return l.fail("add peer "+p.String(), err)
		}
	}
	if err := l.tr.SetReceiveHandler(l.receive); err != nil {
		return l.fail("receive handler", err)
	}
	l.setupErr.Store(nil)
	l.up.Store(true)
	l.logf("up, %d peer(s)", len(l.peers))
	return nil
}

func (l *Link) fail(step string, err error) error {
	wrapped := fmt.Errorf("transport: %s: %w", step, err)
	l.setupErr.Store(&wrapped)
	l.up.Store(false)
	l.logf("%s failed (%s): %v; running without link", step, Kind(err), err)
	return wrapped
}

// Up reports whether Setup succeeded.
func (l *Link) Up() bool { return l.up.Load() }

// SetupErr returns the error that took the link down, or nil. It is safe to
// call from any goroutine.
func (l *Link) SetupErr() error {
	if p := l.setupErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Peers returns the configured peer addresses.
func (l *Link) Peers() []hal.Address { return l.peers }

func (l *Link) Stats() Stats {
	return Stats{Sent: l.sent.Load(), Failed: l.failed.Load(), Dropped: l.dropped.Load()}
}

// Send encodes p and sends it to every peer. It returns the first error,
// which the caller is free to ignore: failures are already logged.
func (l *Link) Send(p Packet) error {
	if !l.up.Load() {
		return hal.ErrNotInitialized
	}

	var buf [hal.MaxPayloadBytes]byte
	payload, err := Encode(buf[:0], p)
	if err != nil {
		l.failed.Add(1)
		l.logf("encode %s: %v", p.Type, err)
		return err
	}

	var first error
	for _, peer := range l.peers {
		err := l.tr.Send(peer, payload)
		if err == nil {
			l.sent.Add(1)
			if l.streak > 0 {
				l.logf("send to %s recovered after %d failure(s)", peer, l.streak)
				l.streak = 0
			}
			continue
		}
		l.failed.Add(1)
		if l.streak%failLogEvery == 0 {
			l.logf("send %s to %s (%s): %v", p.Type, peer, Kind(err), err)
		}
		l.streak++
		if first == nil {
			first = err
		}
	}
	return first
}

func (l *Link) SendSample(s sample.Snapshot) error {
	return l.Send(Packet{Type: TypeSample, Sample: s})
}

func (l *Link) SendHello(name string) error {
	return l.Send(Packet{Type: TypeHello, Text: name})
}

func (l *Link) SendCommand(cmd string) error {
	return l.Send(Packet{Type: TypeCommand, Text: cmd})
}

// receive runs on the transport's goroutine; it only queues.
func (l *Link) receive(from hal.Address, payload []byte) {
	if !l.inbox.TrySend(mailbox.NewMessage(from, payload)) {
		l.dropped.Add(1)
	}
}

// Poll decodes every queued inbound payload and hands it to fn. Undecodable
// payloads are logged and skipped. It returns the number of packets
// delivered.
func (l *Link) Poll(fn func(from hal.Address, p Packet)) int {
	n := 0
	l.inbox.Drain(func(m *mailbox.Message) {
		p, err := Decode(m.Payload())
		if err != nil {
			l.logf("from %s: %v", m.From, err)
			return
		}
		if p.Type != TypeSample {
			l.logf("from %s: %s %q", m.From, p.Type, p.Text)
		}
		n++
		if fn != nil {
			fn(m.From, p)
		}
	})
	return n
}
