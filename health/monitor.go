package health

import (
	"sort"
	"sync"

	"github.com/c360/simbridge/component"
)

// Monitor tracks the loaded plugins and reports their aggregate health
type Monitor struct {
	mu      sync.RWMutex
	plugins map[string]component.Plugin
}

// NewMonitor creates an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{
		plugins: make(map[string]component.Plugin),
	}
}

// healthReporter is implemented by plugins that expose a health report
// beyond the basic lifecycle state.
type healthReporter interface {
	Health() component.HealthStatus
}

// Track adds a plugin to monitoring under its metadata name
func (m *Monitor) Track(p component.Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins[p.Meta().Name] = p
}

// Remove stops monitoring the named plugin
func (m *Monitor) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plugins, name)
}

// Count returns the number of plugins being monitored
func (m *Monitor) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plugins)
}

// ListComponents returns the names of all monitored plugins, sorted
func (m *Monitor) ListComponents() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot collects the current status of every monitored plugin
func (m *Monitor) Snapshot() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]Status, 0, len(m.plugins))
	for name, p := range m.plugins {
		state := p.State()
		var ch component.HealthStatus
		if hr, ok := p.(healthReporter); ok {
			ch = hr.Health()
		} else {
			ch = component.HealthStatus{Healthy: state == component.StateRunning}
		}
		statuses = append(statuses, FromPlugin(name, state, ch))
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Component < statuses[j].Component
	})
	return statuses
}

// AggregateHealth returns an aggregated health status for the system
func (m *Monitor) AggregateHealth(systemName string) Status {
	return Aggregate(systemName, m.Snapshot())
}
