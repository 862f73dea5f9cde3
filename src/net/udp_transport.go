package net

import (
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

const udpBufSize = 2048

// UDPTransport implements the Transport interface over a UDP broadcast socket.
// It stands in for the radio link when running beacon nodes on a LAN: frames
// are fired at the broadcast address and received by every node bound to the
// same port. Like the radio, it is lossy and unordered.
type UDPTransport struct {
	logger *logrus.Entry

	conn          *net.UDPConn
	broadcastAddr *net.UDPAddr

	consumerCh chan []byte

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex
}

// NewUDPTransport binds a UDP socket on bindAddr and resolves broadcastAddr as
// the destination of all outgoing frames.
func NewUDPTransport(bindAddr, broadcastAddr string, logger *logrus.Entry) (*UDPTransport, error) {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	laddr, err := net.ResolveUDPAddr("udp4", bindAddr)
	if err != nil {
		return nil, err
	}

	baddr, err := net.ResolveUDPAddr("udp4", broadcastAddr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, err
	}

	trans := &UDPTransport{
		logger:        logger,
		conn:          conn,
		broadcastAddr: baddr,
		consumerCh:    make(chan []byte, 16),
		shutdownCh:    make(chan struct{}),
	}

	return trans, nil
}

// Listen implements the Transport interface. It starts the receive loop.
func (u *UDPTransport) Listen() {
	go u.listen()
}

func (u *UDPTransport) listen() {
	buf := make([]byte, udpBufSize)

	for {
		n, _, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-u.shutdownCh:
				return
			default:
				u.logger.WithError(err).Error("Failed to read frame")
				continue
			}
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])

		select {
		case u.consumerCh <- frame:
		case <-u.shutdownCh:
			return
		}
	}
}

// Consumer implements the Transport interface.
func (u *UDPTransport) Consumer() <-chan []byte {
	return u.consumerCh
}

// Broadcast implements the Transport interface.
func (u *UDPTransport) Broadcast(frame []byte) error {
	u.shutdownLock.Lock()
	defer u.shutdownLock.Unlock()

	if u.shutdown {
		return ErrTransportShutdown
	}

	_, err := u.conn.WriteToUDP(frame, u.broadcastAddr)

	return err
}

// LocalAddr implements the Transport interface.
func (u *UDPTransport) LocalAddr() string {
	return u.conn.LocalAddr().String()
}

// Close implements the Transport interface.
func (u *UDPTransport) Close() error {
	u.shutdownLock.Lock()
	defer u.shutdownLock.Unlock()

	if u.shutdown {
		return nil
	}

	u.shutdown = true
	close(u.shutdownCh)

	return u.conn.Close()
}
