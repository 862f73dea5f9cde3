package node

import (
	"testing"
	"time"

	"github.com/meshworks/beacon/src/identity"
	bnet "github.com/meshworks/beacon/src/net"
	"github.com/meshworks/beacon/src/peers"
	"github.com/meshworks/beacon/src/status"
)

func runTestNode(t *testing.T, domain *bnet.InmemDomain, id identity.Identity, peerSet *peers.PeerSet) *Node {
	t.Helper()

	trans := domain.NewTransport(id.String())

	n, err := NewNode(TestConfig(t), id, peerSet, trans)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	n.Init()
	n.RunAsync()

	return n
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func TestNodesExchangeStatuses(t *testing.T) {
	domain := bnet.NewInmemDomain()

	a := runTestNode(t, domain, testID(t, 1), nil)
	defer a.Shutdown()
	b := runTestNode(t, domain, testID(t, 2), nil)
	defer b.Shutdown()

	a.SetStatus(status.AtMeetingPoint)
	b.SetStatus(status.NeedSupplies)

	waitFor(t, 3*time.Second, func() bool {
		aHeard := false
		for _, r := range a.KnownStatuses() {
			if r.ID == b.LocalID() && r.Code == status.NeedSupplies {
				aHeard = true
			}
		}

		bHeard := false
		for _, r := range b.KnownStatuses() {
			if r.ID == a.LocalID() && r.Code == status.AtMeetingPoint {
				bHeard = true
			}
		}

		return aHeard && bHeard
	})
}

func TestNodeRelaysThirdPartyStatus(t *testing.T) {
	domain := bnet.NewInmemDomain()

	a := runTestNode(t, domain, testID(t, 1), nil)
	defer a.Shutdown()
	b := runTestNode(t, domain, testID(t, 2), nil)
	defer b.Shutdown()

	// a hand-fed report about an absent third node must reach b through a's
	// digest
	ghost := status.Record{ID: testID(t, 3), Code: status.SOS}
	a.ingest(ghost.Append(nil))

	waitFor(t, 3*time.Second, func() bool {
		for _, r := range b.KnownStatuses() {
			if r.ID == ghost.ID && r.Code == status.SOS {
				return true
			}
		}
		return false
	})
}

func TestNodeNotifiesOnPeerReports(t *testing.T) {
	domain := bnet.NewInmemDomain()

	bID := testID(t, 2)

	bob, err := peers.NewPeer(bID.String(), "bob")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	a := runTestNode(t, domain, testID(t, 1), peers.NewPeerSet([]*peers.Peer{bob}))
	defer a.Shutdown()
	b := runTestNode(t, domain, bID, nil)
	defer b.Shutdown()

	b.SetStatus(status.Injured)

	select {
	case n := <-a.NotifyCh():
		if n.Peer.Moniker != "bob" {
			t.Fatalf("notification should name bob: %+v", n)
		}
		if n.ID != bID {
			t.Fatalf("notification identity: %v", n.ID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a notification")
	}
}

func TestNodeUptimeSetAtConstruction(t *testing.T) {
	domain := bnet.NewInmemDomain()
	trans := domain.NewTransport("uptime")

	// Uptime is served concurrently with Run, so the clock must be fixed
	// before the run loop starts
	n, err := NewNode(TestConfig(t), testID(t, 1), nil, trans)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	defer n.Shutdown()

	time.Sleep(10 * time.Millisecond)

	if n.Uptime() <= 0 {
		t.Fatalf("uptime should be positive, not %v", n.Uptime())
	}
}

func TestNodeShutdownStopsBroadcasts(t *testing.T) {
	domain := bnet.NewInmemDomain()

	a := runTestNode(t, domain, testID(t, 1), nil)
	b := runTestNode(t, domain, testID(t, 2), nil)
	defer b.Shutdown()

	// wait until b has heard from a at least once
	waitFor(t, 3*time.Second, func() bool {
		return len(b.KnownStatuses()) > 0
	})

	a.Shutdown()

	if a.getState() != Shutdown {
		t.Fatalf("state should be Shutdown, not %v", a.getState())
	}

	// a second Shutdown is a no-op
	a.Shutdown()
}
