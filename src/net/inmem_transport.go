package net

import (
	"crypto/rand"
	"fmt"
	"sync"
)

// NewInmemAddr returns a new in-memory addr with a randomly generated UUID as
// the ID.
func NewInmemAddr() string {
	return generateUUID()
}

// generateUUID is used to generate a random UUID.
func generateUUID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %v", err))
	}

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%12x",
		buf[0:4],
		buf[4:6],
		buf[6:8],
		buf[8:10],
		buf[10:16])
}

// InmemDomain is a shared broadcast domain connecting InmemTransports. A frame
// broadcast by any member is delivered to every other member, allowing beacon
// to be tested in-memory without going over a network.
type InmemDomain struct {
	sync.RWMutex
	members map[string]*InmemTransport
}

// NewInmemDomain creates an empty broadcast domain.
func NewInmemDomain() *InmemDomain {
	return &InmemDomain{
		members: make(map[string]*InmemTransport),
	}
}

// NewTransport creates a transport joined to the domain. An empty addr gets a
// random one.
func (d *InmemDomain) NewTransport(addr string) *InmemTransport {
	if addr == "" {
		addr = NewInmemAddr()
	}

	trans := &InmemTransport{
		domain:     d,
		localAddr:  addr,
		consumerCh: make(chan []byte, 16),
	}

	d.Lock()
	d.members[addr] = trans
	d.Unlock()

	return trans
}

// broadcast delivers a copy of the frame to every member except the sender.
func (d *InmemDomain) broadcast(from string, frame []byte) {
	d.RLock()
	defer d.RUnlock()

	for addr, member := range d.members {
		if addr == from {
			continue
		}

		cp := make([]byte, len(frame))
		copy(cp, frame)

		select {
		case member.consumerCh <- cp:
		default:
			// the link is unreliable; a slow consumer just loses the frame
		}
	}
}

// InmemTransport implements the Transport interface for in-memory testing.
type InmemTransport struct {
	sync.Mutex
	domain     *InmemDomain
	localAddr  string
	consumerCh chan []byte
	shutdown   bool
}

// Listen implements the Transport interface. The in-memory transport receives
// passively; there is nothing to start.
func (i *InmemTransport) Listen() {}

// Consumer implements the Transport interface.
func (i *InmemTransport) Consumer() <-chan []byte {
	return i.consumerCh
}

// Broadcast implements the Transport interface.
func (i *InmemTransport) Broadcast(frame []byte) error {
	i.Lock()
	if i.shutdown {
		i.Unlock()
		return ErrTransportShutdown
	}
	i.Unlock()

	i.domain.broadcast(i.localAddr, frame)

	return nil
}

// LocalAddr implements the Transport interface.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// Close implements the Transport interface.
func (i *InmemTransport) Close() error {
	i.Lock()
	defer i.Unlock()

	if i.shutdown {
		return nil
	}
	i.shutdown = true

	i.domain.Lock()
	delete(i.domain.members, i.localAddr)
	i.domain.Unlock()

	return nil
}
