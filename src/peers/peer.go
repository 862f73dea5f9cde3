package peers

import (
	"github.com/meshworks/beacon/src/identity"
)

// Peer is a recognized node in the broadcast domain. Recognition only gates
// local notifications; unrecognized senders are stored and re-gossiped all the
// same.
type Peer struct {
	ID      identity.Identity `json:"-"`
	Addr    string            `json:"identity"`
	Moniker string            `json:"moniker"`
}

// NewPeer builds a Peer from a textual identity and a friendly name.
func NewPeer(addr, moniker string) (*Peer, error) {
	id, err := identity.Parse(addr)
	if err != nil {
		return nil, err
	}

	return &Peer{
		ID:      id,
		Addr:    id.String(),
		Moniker: moniker,
	}, nil
}

// computeID fills in the binary identity from the textual form. Used after
// JSON decoding.
func (p *Peer) computeID() error {
	id, err := identity.Parse(p.Addr)
	if err != nil {
		return err
	}

	p.ID = id
	p.Addr = id.String()

	return nil
}
