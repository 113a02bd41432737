// Package componentregistry provides central component registration for
// the simbridge plugin framework. Hosts call Register once to make every
// built-in plugin type available by name.
package componentregistry

import (
	"errors"

	"github.com/c360/simbridge/component"
	pkgerrors "github.com/c360/simbridge/errors"
	"github.com/c360/simbridge/ftsensor"
)

// Register registers all built-in plugin factories with the provided
// registry:
//
//   - ft_sensor: joint force/torque measurements over the transport
//
// Domain-specific plugin types belong in their own modules and register
// themselves alongside these.
func Register(registry *component.Registry) error {
	// Nil registry is a programming error (fatal), not invalid input
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"ComponentRegistry", "Register", "registry validation")
	}

	if err := ftsensor.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "ft_sensor registration")
	}

	return nil
}
