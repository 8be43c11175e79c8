package average

import (
	"errors"
	"fmt"

	"github.com/gradebook/gradebook/internal/record"
)

// ErrQueueFull is returned by Fill when the snapshot is larger than the
// queue capacity. Undersized capacity is a configuration fault — the queue
// fails fast rather than silently dropping records.
var ErrQueueFull = errors.New("queue capacity exceeded")

// Queue is a bounded FIFO of records awaiting average computation. It is
// filled once per invocation and then only drained. The buffered channel
// underneath guarantees each item is taken by exactly one worker.
type Queue struct {
	ch chan record.Record
}

// NewQueue creates a Queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan record.Record, capacity)}
}

// Fill enqueues all records. It returns ErrQueueFull (wrapped with the
// sizes involved) if the snapshot does not fit.
func (q *Queue) Fill(recs []record.Record) error {
	if len(recs) > cap(q.ch) {
		return fmt.Errorf("average: %d records exceed queue capacity %d: %w",
			len(recs), cap(q.ch), ErrQueueFull)
	}
	for _, rec := range recs {
		q.ch <- rec
	}
	return nil
}

// Take removes and returns one record. The second return is false when
// the queue is empty, which tells the worker to terminate — the queue is
// never refilled within an invocation, so empty means no more work.
func (q *Queue) Take() (record.Record, bool) {
	select {
	case rec := <-q.ch:
		return rec, true
	default:
		return record.Record{}, false
	}
}

// Len returns the number of records currently queued.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return cap(q.ch) }
