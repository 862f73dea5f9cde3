package node

import (
	"sync"
	"sync/atomic"
)

// State captures the state of a beacon node: Broadcasting or Shutdown.
type State uint32

const (
	// Broadcasting is the normal state, in which the node ingests received
	// frames and periodically broadcasts its digest.
	Broadcasting State = iota

	// Shutdown is the state in which the node stops responding to external
	// events and closes its transport.
	Shutdown
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case Broadcasting:
		return "Broadcasting"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

type state struct {
	state State
	wg    sync.WaitGroup
}

func (b *state) getState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

func (b *state) setState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}

func (b *state) waitRoutines() {
	b.wg.Wait()
}
