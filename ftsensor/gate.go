package ftsensor

import (
	"sync/atomic"
	"time"

	"github.com/c360/simbridge/sim"
)

// shouldSample decides whether a new sample may be taken at simulation
// time now. rateHz <= 0 means unbounded sampling. No side effects: the
// caller advances last only after a sample is actually taken.
func shouldSample(now sim.Time, rateHz float64, last sim.Time) bool {
	if rateHz <= 0 {
		return true
	}
	period := time.Duration(float64(time.Second) / rateHz)
	return now.Sub(last) >= period
}

// interestTracker counts active subscribers on the published topic.
// Incremented and decremented by delivery-goroutine callbacks, read by
// the simulation goroutine, so the count is atomic. The count never goes
// negative: a stray decrement is clamped at zero.
type interestTracker struct {
	n atomic.Int64
}

// OnSubscribe records a new subscriber and returns the updated count
func (t *interestTracker) OnSubscribe() int64 {
	return t.n.Add(1)
}

// OnUnsubscribe records a subscriber departure and returns the updated
// count
func (t *interestTracker) OnUnsubscribe() int64 {
	for {
		cur := t.n.Load()
		if cur == 0 {
			return 0
		}
		if t.n.CompareAndSwap(cur, cur-1) {
			return cur - 1
		}
	}
}

// Count returns the number of currently active subscribers
func (t *interestTracker) Count() int64 {
	return t.n.Load()
}

// Active reports whether anyone is listening
func (t *interestTracker) Active() bool {
	return t.n.Load() > 0
}
