package roster

import (
	"fmt"
	"testing"

	"github.com/meshworks/beacon/src/identity"
	"github.com/meshworks/beacon/src/status"
)

func testID(t *testing.T, i int) identity.Identity {
	t.Helper()
	id, err := identity.Parse(fmt.Sprintf("02:00:00:00:00:%02x", i))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	return id
}

func TestTableUpsertOutcomes(t *testing.T) {
	table := NewTable(30)

	a := testID(t, 1)

	outcome, _ := table.Upsert(a, status.OK)
	if outcome != Inserted {
		t.Fatalf("first upsert should be Inserted, not %v", outcome)
	}

	outcome, _ = table.Upsert(a, status.OK)
	if outcome != UpdatedUnchanged {
		t.Fatalf("same-code upsert should be UpdatedUnchanged, not %v", outcome)
	}

	outcome, _ = table.Upsert(a, status.SOS)
	if outcome != UpdatedChanged {
		t.Fatalf("new-code upsert should be UpdatedChanged, not %v", outcome)
	}

	code, ok := table.Get(a)
	if !ok || code != status.SOS {
		t.Fatalf("stored code should be SOS, got %v (ok=%v)", code, ok)
	}

	if table.Len() != 1 {
		t.Fatalf("table should hold 1 entry, not %d", table.Len())
	}
}

func TestTableIdempotentUpsert(t *testing.T) {
	table := NewTable(30)

	a := testID(t, 1)

	table.Upsert(a, status.Wait)
	before := table.Snapshot()

	outcome, _ := table.Upsert(a, status.Wait)
	if outcome != UpdatedUnchanged {
		t.Fatalf("outcome should be UpdatedUnchanged, not %v", outcome)
	}

	after := table.Snapshot()
	if len(before) != len(after) || before[0] != after[0] {
		t.Fatalf("repeated upsert should not mutate the table: %v -> %v", before, after)
	}
}

func TestTableEvictsOldestInserted(t *testing.T) {
	capacity := 5
	table := NewTable(capacity)

	for i := 0; i < capacity; i++ {
		outcome, _ := table.Upsert(testID(t, i), status.OK)
		if outcome != Inserted {
			t.Fatalf("upsert %d should be Inserted, not %v", i, outcome)
		}
	}

	// refresh the oldest entry; eviction order must ignore it
	if outcome, _ := table.Upsert(testID(t, 0), status.SOS); outcome != UpdatedChanged {
		t.Fatalf("refresh should be UpdatedChanged")
	}

	outcome, evicted := table.Upsert(testID(t, capacity), status.GoOn)
	if outcome != EvictedOldest {
		t.Fatalf("overflow upsert should be EvictedOldest, not %v", outcome)
	}
	if evicted != testID(t, 0) {
		t.Fatalf("evicted identity should be %v, not %v", testID(t, 0), evicted)
	}

	if table.Len() != capacity {
		t.Fatalf("table should stay at capacity %d, not %d", capacity, table.Len())
	}

	if _, ok := table.Get(testID(t, 0)); ok {
		t.Fatal("evicted identity should be gone")
	}
	for i := 1; i <= capacity; i++ {
		if _, ok := table.Get(testID(t, i)); !ok {
			t.Fatalf("identity %d should still be present", i)
		}
	}
}

func TestTableNeverExceedsCapacity(t *testing.T) {
	capacity := 7
	table := NewTable(capacity)

	for i := 0; i < 4*capacity; i++ {
		table.Upsert(testID(t, i%(2*capacity)), status.Code(i%3))

		if table.Len() > capacity {
			t.Fatalf("table grew past capacity: %d", table.Len())
		}

		seen := map[identity.Identity]bool{}
		for _, r := range table.Snapshot() {
			if seen[r.ID] {
				t.Fatalf("duplicate identity in table: %v", r.ID)
			}
			seen[r.ID] = true
		}
	}
}

func TestQueueDropsOldest(t *testing.T) {
	capacity := 3
	queue := NewQueue(capacity)

	for i := 0; i < 5; i++ {
		queue.Push(status.Record{ID: testID(t, i), Code: status.OK})
	}

	if queue.Len() != capacity {
		t.Fatalf("queue should hold %d records, not %d", capacity, queue.Len())
	}

	snapshot := queue.Snapshot()
	for i, r := range snapshot {
		expected := testID(t, i+2)
		if r.ID != expected {
			t.Fatalf("queue[%d] should be %v, not %v", i, expected, r.ID)
		}
	}
}

func TestQueueSnapshotDoesNotMutate(t *testing.T) {
	queue := NewQueue(10)
	queue.Push(status.Record{ID: testID(t, 1), Code: status.Wait})
	queue.Push(status.Record{ID: testID(t, 2), Code: status.SOS})

	first := queue.Snapshot()
	second := queue.Snapshot()

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("snapshots should both hold 2 records: %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("snapshots differ at %d: %v vs %v", i, first[i], second[i])
		}
	}

	// mutating the returned slice must not touch the queue
	first[0].Code = status.GoOn
	if queue.Snapshot()[0].Code != status.Wait {
		t.Fatal("snapshot should be a copy")
	}
}
