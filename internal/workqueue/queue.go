package workqueue

import (
	"errors"
	"time"
)

// ErrFull is returned by Enqueue when the queue stays full for the whole
// enqueue timeout. Producers recover locally: log, drop the item, keep
// their own schedule.
var ErrFull = errors.New("workqueue: full")

const (
	// DefaultCapacity bounds the number of items awaiting the reactor.
	DefaultCapacity = 64

	// DefaultEnqueueTimeout is how long Enqueue waits on a full queue
	// before giving up with ErrFull.
	DefaultEnqueueTimeout = 5 * time.Millisecond
)

// Queue is a bounded, thread-safe FIFO of work items. The zero value is not
// usable; create one with New.
type Queue[T any] struct {
	items   chan T
	timeout time.Duration
}

// New creates a Queue with the given capacity and enqueue timeout.
// Non-positive arguments fall back to the package defaults.
func New[T any](capacity int, timeout time.Duration) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if timeout <= 0 {
		timeout = DefaultEnqueueTimeout
	}
	return &Queue[T]{
		items:   make(chan T, capacity),
		timeout: timeout,
	}
}

// Enqueue appends item in FIFO order. It returns nil immediately when there
// is room; on a full queue it waits at most the enqueue timeout for the
// reactor to drain, then returns ErrFull. Enqueue never blocks indefinitely
// and is safe to call from any goroutine.
func (q *Queue[T]) Enqueue(item T) error {
	select {
	case q.items <- item:
		return nil
	default:
	}

	t := time.NewTimer(q.timeout)
	defer t.Stop()
	select {
	case q.items <- item:
		return nil
	case <-t.C:
		return ErrFull
	}
}

// Drain removes and returns up to max items in FIFO order. It never blocks:
// an empty queue yields an empty slice. Drain is intended to be called only
// from the consumer's own loop iteration.
func (q *Queue[T]) Drain(max int) []T {
	var out []T
	for len(out) < max {
		select {
		case item := <-q.items:
			out = append(out, item)
		default:
			return out
		}
	}
	return out
}

// C exposes the underlying channel for use in the consumer's select, so an
// enqueue wakes a consumer that is parked waiting for work. Receive from C
// only inside the consumer loop.
func (q *Queue[T]) C() <-chan T {
	return q.items
}

// Len reports the number of items currently queued.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Cap reports the queue's capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.items)
}
