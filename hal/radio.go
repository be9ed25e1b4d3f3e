package hal

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/netlink"
)

// socketDevice is the socket half of a TinyGo network driver
// (tinygo.org/x/drivers/netdev.Netdever); espat and wifinina devices
// satisfy it.
type socketDevice interface {
	Socket(domain int, stype int, protocol int) (int, error)
	Bind(sockfd int, ip netip.AddrPort) error
	Connect(sockfd int, host string, ip netip.AddrPort) error
	Send(sockfd int, buf []byte, flags int, deadline time.Time) (int, error)
	Recv(sockfd int, buf []byte, flags int, deadline time.Time) (int, error)
	Close(sockfd int) error
}

// Socket arguments, as defined by tinygo.org/x/drivers/netdev.
const (
	sockAFInet   = 0x2
	sockDgram    = 0x2
	sockProtoUDP = 0x11
)

const (
	radioSendTimeout = 200 * time.Millisecond
	radioRecvBackoff = 100 * time.Millisecond
)

// RadioConfig describes a WiFi coprocessor link.
type RadioConfig struct {
	Self Address
	// WiFi is used to join the access point on Init; nil skips joining.
	WiFi netlink.Netlinker
	// Join holds the access point credentials.
	Join netlink.ConnectParams
	// Local is the UDP port frames are received on.
	Local uint16
	// Target receives every frame sent, usually the receiver's address or
	// the subnet broadcast address.
	Target netip.AddrPort
}

// radioTransport carries link frames as UDP datagrams through a network
// coprocessor. The frame format matches the host UDP link, so a joymon
// receiver on the same network talks to either.
type radioTransport struct {
	cfg RadioConfig
	dev socketDevice

	mu    sync.Mutex
	sock  int
	open  bool
	peers map[Address]struct{}

	handler atomic.Pointer[ReceiveHandler]
}

func newRadioTransport(dev socketDevice, cfg RadioConfig) *radioTransport {
	return &radioTransport{cfg: cfg, dev: dev, peers: make(map[Address]struct{})}
}

func (t *radioTransport) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open {
		return nil
	}
	if t.dev == nil {
		return ErrNotInitialized
	}

	if t.cfg.WiFi != nil {
		join := t.cfg.Join
		if err := t.cfg.WiFi.NetConnect(&join); err != nil && !errors.Is(err, netlink.ErrConnected) {
			return fmt.Errorf("radio: join %q: %w: %w", join.Ssid, ErrDriverFailure, err)
		}
	}

	sock, err := t.dev.Socket(sockAFInet, sockDgram, sockProtoUDP)
	if err != nil {
		return fmt.Errorf("radio: socket: %w: %w", ErrDriverFailure, err)
	}
	if err := t.dev.Bind(sock, netip.AddrPortFrom(netip.IPv4Unspecified(), t.cfg.Local)); err != nil {
		_ = t.dev.Close(sock)
		return fmt.Errorf("radio: bind :%d: %w: %w", t.cfg.Local, ErrDriverFailure, err)
	}
	if err := t.dev.Connect(sock, "", t.cfg.Target); err != nil {
		_ = t.dev.Close(sock)
		return fmt.Errorf("radio: connect %s: %w: %w", t.cfg.Target, ErrDriverFailure, err)
	}

	t.sock, t.open = sock, true
	go t.readLoop(sock)
	return nil
}

func (t *radioTransport) AddPeer(addr Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrNotInitialized
	}
	t.peers[addr] = struct{}{}
	return nil
}

func (t *radioTransport) Send(addr Address, payload []byte) error {
	if len(payload) > MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	t.mu.Lock()
	open, sock := t.open, t.sock
	_, known := t.peers[addr]
	t.mu.Unlock()

	if !open {
		return ErrNotInitialized
	}
	if !known {
		return fmt.Errorf("radio: %s: %w", addr, ErrPeerUnavailable)
	}

	var frame [maxFrameBytes]byte
	n := putFrame(&frame, addr, t.cfg.Self, payload)
	if _, err := t.dev.Send(sock, frame[:n], 0, time.Now().Add(radioSendTimeout)); err != nil {
		return fmt.Errorf("radio: %w: %w", ErrDriverFailure, err)
	}
	return nil
}

func (t *radioTransport) SetReceiveHandler(h ReceiveHandler) error {
	if h == nil {
		t.handler.Store(nil)
		return nil
	}
	t.handler.Store(&h)
	return nil
}

// Close releases the socket and stops the receive loop.
func (t *radioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return nil
	}
	t.open = false
	return t.dev.Close(t.sock)
}

func (t *radioTransport) isOpen(sock int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open && t.sock == sock
}

func (t *radioTransport) readLoop(sock int) {
	var buf [maxFrameBytes]byte
	for {
		n, err := t.dev.Recv(sock, buf[:], 0, time.Time{})
		if !t.isOpen(sock) {
			return
		}
		if err != nil {
			time.Sleep(radioRecvBackoff)
			continue
		}
		from, payload, ok := parseFrame(buf[:n], t.cfg.Self)
		if !ok {
			continue
		}
		if h := t.handler.Load(); h != nil {
			(*h)(from, payload)
		}
	}
}
