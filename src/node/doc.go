// Package node implements the stateful heart of a beacon instance.
//
// Core owns all protocol state: the latest-state table of last-heard status
// codes per identity, and the recency queue of changes awaiting re-broadcast.
// It exposes two operations. Ingest merges a received frame record by record,
// with last-writer-wins conflict resolution and duplicate suppression: a
// report repeating what is already stored is not re-queued, which is what
// keeps the broadcast domain from flooding itself. ProduceOutbound builds the
// next gossip digest, the local record followed by the queued changes, split
// into link frames by the packer.
//
// Core itself is not safe for concurrent use; it mirrors the single-threaded
// callback model of the radio firmware it speaks to. Node makes that
// assumption explicit: the transport consumer and the heartbeat timer are the
// only two triggers, and both take coreLock before touching the core.
//
// Recognized peers, as configured in the peers package, additionally produce a
// Notification when a report about them arrives. Recognition never affects
// storage: strangers are stored and re-gossiped like everyone else.
package node
