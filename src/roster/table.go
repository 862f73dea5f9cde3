// Package roster holds the bounded data structures behind a node's view of the
// broadcast domain: the latest-state table mapping each identity to its last
// known status code, and the recency queue of changes awaiting re-broadcast.
// Both are fixed-capacity and never grow past it.
package roster

import (
	"github.com/meshworks/beacon/src/identity"
	"github.com/meshworks/beacon/src/status"
)

// UpsertOutcome describes what an upsert did to the table.
type UpsertOutcome int

const (
	// Inserted - the identity was seen for the first time and stored.
	Inserted UpsertOutcome = iota
	// UpdatedChanged - the identity was present with a different code, which
	// was overwritten.
	UpdatedChanged
	// UpdatedUnchanged - the identity was present with the same code; nothing
	// was mutated.
	UpdatedUnchanged
	// EvictedOldest - the table was full, so the oldest-inserted entry was
	// evicted to make room for the new identity.
	EvictedOldest
)

// Table is a bounded mapping from identity to the most recently observed
// status code. When a new identity arrives at capacity, the oldest entry BY
// INSERTION ORDER is evicted, regardless of which entries were refreshed since.
// This is deliberately not an LRU. Lookups and writes are O(n) scans; n is
// small.
type Table struct {
	capacity int
	entries  []status.Record
}

// NewTable returns an empty Table with the given capacity.
func NewTable(capacity int) *Table {
	return &Table{
		capacity: capacity,
		entries:  make([]status.Record, 0, capacity),
	}
}

// Upsert records the latest code for an identity. It cannot fail. When the
// outcome is EvictedOldest, evicted holds the identity that was displaced;
// otherwise evicted is the zero Identity.
func (t *Table) Upsert(id identity.Identity, code status.Code) (outcome UpsertOutcome, evicted identity.Identity) {
	for i := range t.entries {
		if t.entries[i].ID == id {
			if t.entries[i].Code == code {
				return UpdatedUnchanged, identity.Identity{}
			}
			t.entries[i].Code = code
			return UpdatedChanged, identity.Identity{}
		}
	}

	record := status.Record{ID: id, Code: code}

	if len(t.entries) < t.capacity {
		t.entries = append(t.entries, record)
		return Inserted, identity.Identity{}
	}

	evicted = t.entries[0].ID
	copy(t.entries, t.entries[1:])
	t.entries[len(t.entries)-1] = record

	return EvictedOldest, evicted
}

// Get returns the stored code for an identity.
func (t *Table) Get(id identity.Identity) (status.Code, bool) {
	for i := range t.entries {
		if t.entries[i].ID == id {
			return t.entries[i].Code, true
		}
	}
	return 0, false
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Snapshot returns the table contents in insertion order.
func (t *Table) Snapshot() []status.Record {
	res := make([]status.Record, len(t.entries))
	copy(res, t.entries)
	return res
}
