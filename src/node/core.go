package node

import (
	"fmt"

	"github.com/meshworks/beacon/src/identity"
	"github.com/meshworks/beacon/src/net"
	"github.com/meshworks/beacon/src/peers"
	"github.com/meshworks/beacon/src/roster"
	"github.com/meshworks/beacon/src/status"
	"github.com/sirupsen/logrus"
)

// Notification is emitted when a report about a recognized peer is ingested.
// It fires for duplicates too; recognition gates display, not storage.
type Notification struct {
	Peer *peers.Peer
	ID   identity.Identity
	Code status.Code
	Name string
}

// Stats counts protocol activity since startup.
type Stats struct {
	FramesIn      int
	RecordsIn     int
	Duplicates    int
	Evictions     int
	Notifications int
	Broadcasts    int
	FramesOut     int
}

// Core is the single stateful component of the protocol. It owns the
// latest-state table and the recency queue, merges incoming reports with
// last-writer-wins semantics, and assembles the outbound digest. Core methods
// do not lock; the Node serializes access to its two entry points.
type Core struct {
	localID identity.Identity

	// table maps each identity to its latest known status code.
	table *roster.Table

	// queue holds recently changed records awaiting re-broadcast.
	queue *roster.Queue

	// peers is the static set of recognized identities. It only gates
	// notifications.
	peers *peers.PeerSet

	// packer fragments the outbound digest to the link MTU.
	packer *net.Packer

	notify func(Notification)

	stats Stats

	logger *logrus.Entry
}

// NewCore validates the capacity and the payload limit and returns a Core.
// The notify callback may be nil.
func NewCore(
	localID identity.Identity,
	peerSet *peers.PeerSet,
	capacity int,
	payloadLimit int,
	notify func(Notification),
	logger *logrus.Entry,
) (*Core, error) {

	if capacity < 1 {
		return nil, fmt.Errorf("capacity %d cannot hold a single record", capacity)
	}

	packer, err := net.NewPacker(payloadLimit)
	if err != nil {
		return nil, err
	}

	if peerSet == nil {
		peerSet = peers.NewPeerSet(nil)
	}

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	core := &Core{
		localID: localID,
		table:   roster.NewTable(capacity),
		queue:   roster.NewQueue(capacity),
		peers:   peerSet,
		packer:  packer,
		notify:  notify,
		logger:  logger,
	}

	return core, nil
}

// Ingest merges one received frame into the store. Trailing bytes that do not
// form a whole record are dropped. It never fails: a malformed frame just
// yields fewer records.
func (c *Core) Ingest(frame []byte) {
	records := status.ParseFrame(frame)

	c.stats.FramesIn++
	c.stats.RecordsIn += len(records)

	for _, record := range records {
		outcome, evicted := c.table.Upsert(record.ID, record.Code)

		switch outcome {
		case roster.UpdatedUnchanged:
			// duplicate report; suppress it so the domain does not flood
			// itself re-gossiping what everyone already knows
			c.stats.Duplicates++
		case roster.EvictedOldest:
			c.stats.Evictions++
			c.logger.WithFields(logrus.Fields{
				"evicted": evicted.String(),
				"stored":  record.ID.String(),
			}).Debug("Table full, evicted oldest entry")
			c.queue.Push(record)
		default:
			c.queue.Push(record)
		}

		if peer, ok := c.peers.Get(record.ID); ok {
			c.stats.Notifications++
			if c.notify != nil {
				c.notify(Notification{
					Peer: peer,
					ID:   record.ID,
					Code: record.Code,
					Name: record.Code.String(),
				})
			}
		}
	}
}

// ProduceOutbound builds the next broadcast: the local record followed by the
// recency queue snapshot, fragmented to the payload limit. It does not mutate
// the queue, so repeated calls between ingests produce the same digest.
func (c *Core) ProduceOutbound(myStatus status.Code) [][]byte {
	digest := c.queue.Snapshot()

	records := make([]status.Record, 0, len(digest)+1)
	records = append(records, status.Record{ID: c.localID, Code: myStatus})
	records = append(records, digest...)

	frames := c.packer.Pack(records)

	c.stats.Broadcasts++
	c.stats.FramesOut += len(frames)

	return frames
}

// LocalID returns the identity this core broadcasts under.
func (c *Core) LocalID() identity.Identity {
	return c.localID
}

// KnownStatuses returns the latest-state table in insertion order.
func (c *Core) KnownStatuses() []status.Record {
	return c.table.Snapshot()
}

// PendingDigest returns the recency queue in push order.
func (c *Core) PendingDigest() []status.Record {
	return c.queue.Snapshot()
}

// Stats returns a copy of the activity counters.
func (c *Core) Stats() Stats {
	return c.stats
}
