package net

import "errors"

// ErrTransportShutdown is returned when operations on a transport are invoked
// after it has been terminated.
var ErrTransportShutdown = errors.New("transport shutdown")

// Transport provides an interface for the broadcast link over which beacon
// nodes disseminate status frames. The link is unreliable and broadcast-only:
// there is no addressing beyond the whole domain, no acknowledgement beyond
// the advisory error from Broadcast, and no delivery guarantee. A real radio
// driver implements this interface; the repo ships a UDP stand-in and an
// in-memory implementation for tests.
type Transport interface {

	// Listen starts the transport's receive loop.
	Listen()

	// Consumer returns a channel of received frames.
	Consumer() <-chan []byte

	// Broadcast sends one frame to every node in the broadcast domain. A send
	// failure is advisory; the caller's state is never rolled back.
	Broadcast(frame []byte) error

	// LocalAddr returns the local address of this transport.
	LocalAddr() string

	// Close permanently closes the transport, stopping any associated
	// goroutines and freeing other resources.
	Close() error
}
