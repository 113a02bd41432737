// Package transport implements the pub/sub boundary of the bridge on top
// of NATS: topic advertisement with subscriber-interest callbacks, message
// publication, and a callback work queue serviced by a delivery goroutine
// with a bounded polling timeout.
package transport

import (
	"sync"
	"time"

	"github.com/c360/simbridge/errors"
)

// CallbackQueue holds pending transport work (subscriber join/leave
// callbacks) until a delivery goroutine drains it via CallAvailable.
// All methods are safe for concurrent use.
type CallbackQueue struct {
	mu       sync.Mutex
	pending  []func()
	disabled bool
	notify   chan struct{} // capacity 1, wake signal for CallAvailable
}

// NewCallbackQueue creates an empty, enabled callback queue
func NewCallbackQueue() *CallbackQueue {
	return &CallbackQueue{
		notify: make(chan struct{}, 1),
	}
}

// Add enqueues a callback for later execution.
// Returns ErrQueueDisabled once the queue has been disabled.
func (q *CallbackQueue) Add(fn func()) error {
	if fn == nil {
		return nil
	}

	q.mu.Lock()
	if q.disabled {
		q.mu.Unlock()
		return errors.ErrQueueDisabled
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// CallAvailable executes everything already queued. If nothing is queued
// it waits up to timeout for work to arrive, then executes whatever is
// ready. Returns the number of callbacks executed. The bounded wait lets
// the caller re-check its termination condition at least once per timeout.
func (q *CallbackQueue) CallAvailable(timeout time.Duration) int {
	batch := q.take()
	if batch == nil {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-q.notify:
			batch = q.take()
		case <-timer.C:
			return 0
		}
	}

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// take removes and returns all pending callbacks
func (q *CallbackQueue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

// Clear drops all queued work without executing it
func (q *CallbackQueue) Clear() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

// Disable clears the queue and rejects all future work. It also wakes a
// blocked CallAvailable so a waiting delivery goroutine observes the
// disabled state within one polling interval.
func (q *CallbackQueue) Disable() {
	q.mu.Lock()
	q.disabled = true
	q.pending = nil
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Disabled reports whether the queue has been disabled
func (q *CallbackQueue) Disabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.disabled
}

// Len returns the number of callbacks currently queued
func (q *CallbackQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
