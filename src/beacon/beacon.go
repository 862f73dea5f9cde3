// Package beacon wires a complete node together: configuration, local
// identity, peer set, transport, protocol node, and the diagnostic service.
package beacon

import (
	"os"

	"github.com/meshworks/beacon/src/config"
	"github.com/meshworks/beacon/src/identity"
	"github.com/meshworks/beacon/src/net"
	"github.com/meshworks/beacon/src/node"
	"github.com/meshworks/beacon/src/peers"
	"github.com/meshworks/beacon/src/service"
	"github.com/sirupsen/logrus"
)

// Beacon is the top-level engine.
type Beacon struct {
	Config    *config.Config
	ID        identity.Identity
	Peers     *peers.PeerSet
	Transport net.Transport
	Node      *node.Node
	Service   *service.Service
}

// NewBeacon instantiates an engine with a config. Call Init before Run.
func NewBeacon(config *config.Config) *Beacon {
	return &Beacon{
		Config: config,
	}
}

func (b *Beacon) initIdentity() error {
	if b.Config.Identity != "" {
		id, err := identity.Parse(b.Config.Identity)
		if err != nil {
			return err
		}
		b.ID = id
		return nil
	}

	id, err := identity.Local(b.Config.Interface)
	if err != nil {
		return err
	}

	b.ID = id

	b.Config.Logger().WithField("identity", id.String()).Debug("Resolved local identity")

	return nil
}

func (b *Beacon) initPeers() error {
	if b.Peers != nil {
		return nil
	}

	peerStore := peers.NewJSONPeerSet(b.Config.DataDir)

	peerSet, err := peerStore.PeerSet()
	if err != nil {
		if os.IsNotExist(err) {
			// no peers.json; everyone is a stranger, reports are still stored
			b.Config.Logger().Debug("No peers.json found, no notifications will fire")
			b.Peers = peers.NewPeerSet(nil)
			return nil
		}
		return err
	}

	if peerSet == nil {
		peerSet = peers.NewPeerSet(nil)
	}

	b.Peers = peerSet

	return nil
}

func (b *Beacon) initTransport() error {
	if b.Transport != nil {
		return nil
	}

	transport, err := net.NewUDPTransport(
		b.Config.BindAddr,
		b.Config.BroadcastAddr,
		b.Config.Logger(),
	)
	if err != nil {
		return err
	}

	b.Transport = transport

	return nil
}

func (b *Beacon) initNode() error {
	nodeConfig := node.NewConfig(
		b.Config.Heartbeat,
		b.Config.InterFrameDelay,
		b.Config.Capacity,
		b.Config.PayloadLimit,
		b.Config.Logger().Logger,
	)

	n, err := node.NewNode(nodeConfig, b.ID, b.Peers, b.Transport)
	if err != nil {
		return err
	}

	b.Node = n

	return nil
}

func (b *Beacon) initService() error {
	if b.Config.NoService {
		return nil
	}

	b.Service = service.NewService(b.Config.ServiceAddr, b.Node, b.Config.Logger())

	return nil
}

// Init builds all the components. A configuration that cannot carry a single
// record in one frame fails here, before anything starts.
func (b *Beacon) Init() error {
	if err := b.initIdentity(); err != nil {
		b.Config.Logger().WithError(err).Error("Cannot resolve local identity")
		return err
	}

	if err := b.initPeers(); err != nil {
		b.Config.Logger().WithError(err).Error("Cannot load peers")
		return err
	}

	if err := b.initTransport(); err != nil {
		b.Config.Logger().WithError(err).Error("Cannot initialize transport")
		return err
	}

	if err := b.initNode(); err != nil {
		b.Config.Logger().WithError(err).Error("Cannot initialize node")
		return err
	}

	if err := b.initService(); err != nil {
		b.Config.Logger().WithError(err).Error("Cannot initialize service")
		return err
	}

	return nil
}

// Run starts the service, surfaces peer notifications in the log, and runs
// the node. It blocks until the node shuts down.
func (b *Beacon) Run() {
	if b.Service != nil {
		go b.Service.Serve()
	}

	go func() {
		for n := range b.Node.NotifyCh() {
			b.Config.Logger().WithFields(logrus.Fields{
				"moniker":  n.Peer.Moniker,
				"identity": n.ID.String(),
				"status":   n.Name,
			}).Info("Peer status report")
		}
	}()

	b.Node.Init()
	b.Node.Run()
}
