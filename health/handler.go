package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the monitor's aggregate status as JSON. A healthy or
// degraded system answers 200; an unhealthy one answers 503 so load
// balancers and probes can act on it.
func Handler(monitor *Monitor, systemName string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := monitor.AggregateHealth(systemName)

		w.Header().Set("Content-Type", "application/json")
		if status.IsUnhealthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
}
