package net

import (
	"fmt"
	"testing"

	"github.com/meshworks/beacon/src/identity"
	"github.com/meshworks/beacon/src/status"
)

func testRecords(t *testing.T, n int) []status.Record {
	t.Helper()

	records := make([]status.Record, n)
	for i := 0; i < n; i++ {
		id, err := identity.Parse(fmt.Sprintf("02:00:00:00:00:%02x", i))
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		records[i] = status.Record{ID: id, Code: status.Code(i % 8)}
	}
	return records
}

func TestNewPackerRejectsSmallLimit(t *testing.T) {
	if _, err := NewPacker(status.RecordSize - 1); err == nil {
		t.Fatal("NewPacker should reject a limit below one record")
	}
	if _, err := NewPacker(0); err == nil {
		t.Fatal("NewPacker should reject a zero limit")
	}
}

func TestPackerBoundaryLimit(t *testing.T) {
	// limit exactly one record wide
	packer, err := NewPacker(status.RecordSize)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if packer.MaxPerFrame() != 1 {
		t.Fatalf("MaxPerFrame should be 1, not %d", packer.MaxPerFrame())
	}

	frames := packer.Pack(testRecords(t, 3))
	if len(frames) != 3 {
		t.Fatalf("should produce 3 frames, not %d", len(frames))
	}
	for i, f := range frames {
		if len(f) != status.RecordSize {
			t.Fatalf("frame %d should be %d bytes, not %d", i, status.RecordSize, len(f))
		}
	}
}

func TestPackerFragmentation(t *testing.T) {
	// limit sized for 10 records per frame
	packer, err := NewPacker(10 * status.RecordSize)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	records := testRecords(t, 30)
	frames := packer.Pack(records)

	if len(frames) != 3 {
		t.Fatalf("30 records should pack into 3 frames, not %d", len(frames))
	}
	for i, f := range frames {
		if len(f) != 10*status.RecordSize {
			t.Fatalf("frame %d should hold 10 records, holds %d bytes", i, len(f))
		}
	}

	// order must be preserved across frame boundaries
	var reassembled []status.Record
	for _, f := range frames {
		reassembled = append(reassembled, status.ParseFrame(f)...)
	}
	for i := range records {
		if reassembled[i] != records[i] {
			t.Fatalf("record %d should be %v, not %v", i, records[i], reassembled[i])
		}
	}
}

func TestPackerEmptyInput(t *testing.T) {
	packer, err := NewPacker(250)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if frames := packer.Pack(nil); len(frames) != 0 {
		t.Fatalf("no records should pack into no frames, got %d", len(frames))
	}
}

func TestInmemBroadcast(t *testing.T) {
	domain := NewInmemDomain()

	a := domain.NewTransport("a")
	b := domain.NewTransport("b")
	c := domain.NewTransport("c")

	a.Listen()
	b.Listen()
	c.Listen()

	frame := []byte{1, 2, 3, 4}
	if err := a.Broadcast(frame); err != nil {
		t.Fatalf("err: %v", err)
	}

	for _, trans := range []*InmemTransport{b, c} {
		select {
		case got := <-trans.Consumer():
			if len(got) != len(frame) {
				t.Fatalf("%s received %v", trans.LocalAddr(), got)
			}
		default:
			t.Fatalf("%s should have received the frame", trans.LocalAddr())
		}
	}

	// the sender must not hear its own frame
	select {
	case got := <-a.Consumer():
		t.Fatalf("sender should not receive its own frame: %v", got)
	default:
	}
}

func TestInmemBroadcastAfterClose(t *testing.T) {
	domain := NewInmemDomain()
	a := domain.NewTransport("a")

	if err := a.Close(); err != nil {
		t.Fatalf("err: %v", err)
	}

	if err := a.Broadcast([]byte{1}); err != ErrTransportShutdown {
		t.Fatalf("Broadcast after Close should return ErrTransportShutdown, got %v", err)
	}
}
