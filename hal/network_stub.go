package hal

// nullTransport is used when no link hardware is available.
type nullTransport struct{}

func (nullTransport) Init() error { return ErrNotInitialized }

func (nullTransport) AddPeer(addr Address) error {
	_ = addr
	return ErrNotInitialized
}

func (nullTransport) Send(addr Address, payload []byte) error {
	_ = addr
	_ = payload
	return ErrNotInitialized
}

func (nullTransport) SetReceiveHandler(h ReceiveHandler) error {
	_ = h
	return ErrNotInitialized
}
