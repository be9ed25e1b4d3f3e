//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
)

// udpTransport emulates a peer-to-peer radio link over UDP. Each datagram
// is one link frame (see putFrame).
type udpTransport struct {
	self   Address
	listen string
	target string

	mu    sync.Mutex
	in    *net.UDPConn
	out   *net.UDPConn
	peers map[Address]struct{}

	handler atomic.Pointer[ReceiveHandler]
}

// UDPTransport is the host's datagram link; Close releases its sockets.
type UDPTransport interface {
	Transport
	Close() error
}

// NewUDPTransport returns a UDP link that receives on listen and sends to
// target, answering to self.
func NewUDPTransport(self Address, listen, target string) UDPTransport {
	return newUDPTransport(self, listen, target)
}

func newUDPTransport(self Address, listen, target string) *udpTransport {
	return &udpTransport{
		self:   self,
		listen: listen,
		target: target,
		peers:  make(map[Address]struct{}),
	}
}

func (t *udpTransport) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.in != nil {
		return nil
	}

	laddr, err := net.ResolveUDPAddr("udp", t.listen)
	if err != nil {
		return fmt.Errorf("udp: listen %q: %w: %w", t.listen, ErrDriverFailure, err)
	}
	raddr, err := net.ResolveUDPAddr("udp", t.target)
	if err != nil {
		return fmt.Errorf("udp: target %q: %w: %w", t.target, ErrDriverFailure, err)
	}

	in, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("udp: %w: %w", ErrDriverFailure, err)
	}
	out, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		in.Close()
		return fmt.Errorf("udp: %w: %w", ErrDriverFailure, err)
	}

	t.in = in
	t.out = out
	go t.readLoop(in)
	return nil
}

// LocalAddr reports the bound listen address (after Init).
func (t *udpTransport) LocalAddr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.in == nil {
		return nil
	}
	return t.in.LocalAddr()
}

func (t *udpTransport) AddPeer(addr Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.in == nil {
		return ErrNotInitialized
	}
	t.peers[addr] = struct{}{}
	return nil
}

func (t *udpTransport) Send(addr Address, payload []byte) error {
	if len(payload) > MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	t.mu.Lock()
	out := t.out
	_, known := t.peers[addr]
	t.mu.Unlock()

	if out == nil {
		return ErrNotInitialized
	}
	if !known {
		return fmt.Errorf("udp: %s: %w", addr, ErrPeerUnavailable)
	}

	var frame [maxFrameBytes]byte
	n := putFrame(&frame, addr, t.self, payload)

	if _, err := out.Write(frame[:n]); err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("udp: %s: %w", addr, ErrPeerUnavailable)
		}
		return fmt.Errorf("udp: %w: %w", ErrDriverFailure, err)
	}
	return nil
}

func (t *udpTransport) SetReceiveHandler(h ReceiveHandler) error {
	if h == nil {
		t.handler.Store(nil)
		return nil
	}
	t.handler.Store(&h)
	return nil
}

func (t *udpTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var err error
	if t.in != nil {
		err = t.in.Close()
	}
	if t.out != nil {
		if cerr := t.out.Close(); err == nil {
			err = cerr
		}
	}
	t.in, t.out = nil, nil
	return err
}

func (t *udpTransport) readLoop(conn *net.UDPConn) {
	var buf [maxFrameBytes]byte
	for {
		n, err := conn.Read(buf[:])
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		from, payload, ok := parseFrame(buf[:n], t.self)
		if !ok {
			continue
		}
		if h := t.handler.Load(); h != nil {
			(*h)(from, payload)
		}
	}
}
