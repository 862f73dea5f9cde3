// Package peers implements the static set of recognized identities consulted
// when a status report arrives. The set is immutable, process-wide
// configuration; it never affects what is stored or re-gossiped.
package peers

import (
	"github.com/meshworks/beacon/src/identity"
)

// PeerSet is an immutable collection of Peers indexed by identity.
type PeerSet struct {
	Peers []*Peer
	ByID  map[identity.Identity]*Peer
}

// NewPeerSet creates a PeerSet from a list of Peers.
func NewPeerSet(peers []*Peer) *PeerSet {
	byID := make(map[identity.Identity]*Peer, len(peers))
	for _, peer := range peers {
		byID[peer.ID] = peer
	}

	return &PeerSet{
		Peers: peers,
		ByID:  byID,
	}
}

// Get returns the Peer with the given identity, if recognized.
func (ps *PeerSet) Get(id identity.Identity) (*Peer, bool) {
	p, ok := ps.ByID[id]
	return p, ok
}

// Contains reports whether the identity belongs to the set.
func (ps *PeerSet) Contains(id identity.Identity) bool {
	_, ok := ps.ByID[id]
	return ok
}

// Len returns the number of peers in the set.
func (ps *PeerSet) Len() int {
	return len(ps.Peers)
}
