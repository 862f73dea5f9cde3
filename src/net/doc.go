// Package net implements the broadcast link over which beacon nodes
// disseminate status frames, and the packer that fragments outbound payloads
// to the link MTU.
//
// This package contains implementations of the Transport interface, which the
// node uses to send and receive frames. There are two implementations:
//
// - Inmem: in-memory broadcast domain used only for testing
//
// - UDP: UDP broadcast sockets, a stand-in for the radio when running nodes on
// a LAN
//
// There is no addressing: a frame is broadcast to the whole domain and
// received by every listening node. Delivery is best-effort; the protocol
// above tolerates loss and duplication by design of its digests, not by
// transport retries.
//
// The Packer enforces the one structural rule of the wire format: a frame only
// ever carries whole records. A payload limit too small for a single record is
// rejected at construction time.
package net
