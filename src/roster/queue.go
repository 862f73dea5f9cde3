package roster

import (
	"github.com/meshworks/beacon/src/status"
)

// Queue is a bounded FIFO of recently changed status records. It decides what
// goes into the next broadcast digest. Pushing onto a full queue drops the
// oldest record.
type Queue struct {
	capacity int
	items    []status.Record
}

// NewQueue returns an empty Queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		capacity: capacity,
		items:    make([]status.Record, 0, capacity),
	}
}

// Push appends a record, dropping the oldest one if the queue is full. It
// never fails.
func (q *Queue) Push(record status.Record) {
	if len(q.items) >= q.capacity {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, record)
}

// Snapshot returns the queued records, oldest first, without mutating the
// queue.
func (q *Queue) Snapshot() []status.Record {
	res := make([]status.Record, len(q.items))
	copy(res, q.items)
	return res
}

// Len returns the number of queued records.
func (q *Queue) Len() int {
	return len(q.items)
}
