package ftsensor

import (
	"time"

	"github.com/c360/simbridge/component"
)

// pollInterval bounds how long the delivery goroutine waits for transport
// work before re-checking its termination condition. Shutdown therefore
// joins within one interval plus in-flight work.
const pollInterval = 10 * time.Millisecond

// deliveryLoop runs on its own goroutine and services pending transport
// work: subscriber join/leave callbacks queued by the interest
// subscription. The bounded wait trades a small fixed latency for prompt
// exit once the plugin leaves the running state.
func (s *Sensor) deliveryLoop() {
	defer s.wg.Done()

	for s.State() == component.StateRunning {
		s.conn.Service(pollInterval)
	}
}
