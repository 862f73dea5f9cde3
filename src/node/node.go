package node

import (
	"sync"
	"time"

	"github.com/meshworks/beacon/src/identity"
	"github.com/meshworks/beacon/src/net"
	"github.com/meshworks/beacon/src/peers"
	"github.com/meshworks/beacon/src/status"
	"github.com/sirupsen/logrus"
)

// Node drives the Core from its two external triggers: the transport's receive
// channel and the heartbeat timer. The core assumes non-concurrent access, so
// both paths go through coreLock.
type Node struct {
	state

	conf   *Config
	logger *logrus.Entry

	core     *Core
	coreLock sync.Mutex

	// myStatus is the local condition included at the head of every
	// broadcast. Guarded by coreLock.
	myStatus status.Code

	trans net.Transport
	netCh <-chan []byte

	notifyCh chan Notification

	controlTimer *ControlTimer

	shutdownCh chan struct{}

	// start is set once at construction; Uptime reads it from the service
	// goroutine without locking.
	start time.Time
}

// NewNode is a factory method that returns a Node instance. It fails only on
// an invalid capacity or payload limit.
func NewNode(conf *Config,
	localID identity.Identity,
	peerSet *peers.PeerSet,
	trans net.Transport,
) (*Node, error) {

	logger := conf.Logger.WithField("this_id", localID.String())

	notifyCh := make(chan Notification, 16)
	notify := func(n Notification) {
		select {
		case notifyCh <- n:
		default:
			// nobody listening; a missed display event is not worth blocking
			// ingest for
		}
	}

	core, err := NewCore(localID, peerSet, conf.Capacity, conf.PayloadLimit, notify, logger)
	if err != nil {
		return nil, err
	}

	node := &Node{
		conf:         conf,
		logger:       logger,
		core:         core,
		myStatus:     status.OK,
		trans:        trans,
		netCh:        trans.Consumer(),
		notifyCh:     notifyCh,
		controlTimer: NewFixedControlTimer(),
		shutdownCh:   make(chan struct{}),
		start:        time.Now(),
	}

	return node, nil
}

// Init starts the transport listening.
func (n *Node) Init() {
	n.logger.WithFields(logrus.Fields{
		"heartbeat":     n.conf.HeartbeatTimeout,
		"capacity":      n.conf.Capacity,
		"payload_limit": n.conf.PayloadLimit,
	}).Debug("Init")

	n.trans.Listen()
}

// RunAsync calls Run in a separate goroutine.
func (n *Node) RunAsync() {
	go n.Run()
}

// Run invokes the main loop of the node. It ingests every received frame and
// broadcasts the digest on each heartbeat, until Shutdown. Shutdown waits for
// Run to return.
func (n *Node) Run() {
	n.wg.Add(1)
	defer n.wg.Done()

	go n.controlTimer.Run(n.conf.HeartbeatTimeout)

	for {
		select {
		case frame := <-n.netCh:
			n.ingest(frame)
		case <-n.controlTimer.tickCh:
			n.broadcast()
			n.resetTimer()
		case <-n.shutdownCh:
			return
		}
	}
}

func (n *Node) ingest(frame []byte) {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	n.logger.WithField("frame_size", len(frame)).Debug("Ingesting frame")

	n.core.Ingest(frame)
}

// broadcast assembles the digest under the lock, then sends the frames paced
// by InterFrameDelay. A send failure is advisory: it is logged and the
// remaining frames are still attempted, with no rollback of core state.
func (n *Node) broadcast() {
	n.coreLock.Lock()
	frames := n.core.ProduceOutbound(n.myStatus)
	n.coreLock.Unlock()

	n.logger.WithField("frames", len(frames)).Debug("Broadcasting digest")

	for i, frame := range frames {
		if i > 0 {
			time.Sleep(n.conf.InterFrameDelay)
		}

		if err := n.trans.Broadcast(frame); err != nil {
			n.logger.WithError(err).Error("Failed to broadcast frame")
		}
	}
}

func (n *Node) resetTimer() {
	if !n.controlTimer.set {
		n.controlTimer.resetCh <- n.conf.HeartbeatTimeout
	}
}

// SetStatus changes the local condition broadcast at the next heartbeat.
func (n *Node) SetStatus(code status.Code) {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	n.logger.WithField("status", code.String()).Debug("SetStatus")

	n.myStatus = code
}

// Status returns the current local condition.
func (n *Node) Status() status.Code {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	return n.myStatus
}

// NotifyCh returns the channel of peer notifications. The channel is buffered;
// when nobody consumes it, notifications are dropped rather than blocking
// ingest.
func (n *Node) NotifyCh() <-chan Notification {
	return n.notifyCh
}

// KnownStatuses returns the latest-state table in insertion order.
func (n *Node) KnownStatuses() []status.Record {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	return n.core.KnownStatuses()
}

// PendingDigest returns the recency queue in push order.
func (n *Node) PendingDigest() []status.Record {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	return n.core.PendingDigest()
}

// Peers returns the configured peer set.
func (n *Node) Peers() *peers.PeerSet {
	return n.core.peers
}

// LocalID returns the identity this node broadcasts under.
func (n *Node) LocalID() identity.Identity {
	return n.core.LocalID()
}

// Uptime returns how long the node has been running.
func (n *Node) Uptime() time.Duration {
	return time.Since(n.start)
}

// GetStats returns a copy of the core's activity counters.
func (n *Node) GetStats() Stats {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	return n.core.Stats()
}

// Shutdown stops the run loop, the timer, and the transport.
func (n *Node) Shutdown() {
	if n.getState() == Shutdown {
		return
	}

	n.logger.Debug("Shutdown")

	n.setState(Shutdown)

	close(n.shutdownCh)
	n.controlTimer.Shutdown()
	n.trans.Close()

	n.waitRoutines()
}
