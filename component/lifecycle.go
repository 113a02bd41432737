// Package component defines the plugin contract the host runtime loads
// bridge plugins through, and the registry that creates them from
// declarative configuration.
package component

import (
	"time"

	"github.com/c360/simbridge/sim"
)

// State represents the current lifecycle state of a plugin
type State int32

const (
	// StateUninitialized indicates the plugin was created but not loaded
	StateUninitialized State = iota
	// StateRunning indicates the plugin validated its configuration,
	// acquired all resources, and is being ticked by the engine
	StateRunning
	// StateShuttingDown indicates an unload is in progress
	StateShuttingDown
	// StateStopped indicates the plugin released all owned resources
	StateStopped
)

// String returns a string representation of the plugin state
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Plugin is the capability contract the host runtime drives. Load wires
// the plugin into the model and engine; a Load failure must leave no
// dangling hooks (no tick callback, no goroutine, no transport handle).
// Shutdown must be safe to call from any goroutine, must not deadlock,
// and must be idempotent.
type Plugin interface {
	Meta() Metadata
	Load(model sim.Model, engine sim.Engine) error
	Shutdown() error
	State() State
}

// Metadata describes what a plugin is
type Metadata struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// HealthStatus describes the current health state of a plugin
type HealthStatus struct {
	Healthy    bool          `json:"healthy"`
	LastCheck  time.Time     `json:"last_check"`
	ErrorCount int           `json:"error_count"`
	Uptime     time.Duration `json:"uptime"`
}
