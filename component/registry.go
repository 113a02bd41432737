package component

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/c360/simbridge/errors"
)

// Factory creates a plugin instance from raw JSON configuration and
// dependencies. The factory parses and validates its own config; I/O and
// resource acquisition happen later, in the plugin's Load.
type Factory func(name string, rawConfig json.RawMessage, deps Dependencies) (Plugin, error)

// Registration holds the factory and metadata for a plugin type
type Registration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Version     string  `json:"version"`
	Factory     Factory `json:"-"`
}

// Registry manages plugin factories. It is the in-process stand-in for
// the host runtime's plugin loader: the loader discovers plugin types
// here and instantiates them per configured instance.
type Registry struct {
	factories map[string]*Registration
	mu        sync.RWMutex
}

// NewRegistry creates a new empty plugin registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]*Registration),
	}
}

// Register adds a plugin type.
// Returns an error if a factory with the same name is already registered.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "factory name validation")
	}
	if reg.Factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "factory function validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[reg.Name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("factory '%s' is already registered", reg.Name),
			"Registry", "Register", "duplicate factory check")
	}

	r.factories[reg.Name] = &reg
	return nil
}

// Create instantiates a plugin of the given type
func (r *Registry) Create(typeName, instanceName string, rawConfig json.RawMessage, deps Dependencies) (Plugin, error) {
	r.mu.RLock()
	reg, exists := r.factories[typeName]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.WrapInvalid(
			fmt.Errorf("unknown plugin type '%s'", typeName),
			"Registry", "Create", "factory lookup")
	}

	return reg.Factory(instanceName, rawConfig, deps)
}

// List returns all registrations sorted by name
func (r *Registry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, 0, len(r.factories))
	for _, reg := range r.factories {
		out = append(out, *reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
