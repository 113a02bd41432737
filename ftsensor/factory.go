package ftsensor

import (
	"encoding/json"
	"fmt"

	"github.com/c360/simbridge/component"
)

// CreateSensor builds a sensor plugin from raw JSON configuration. It is
// the factory registered with the component registry.
func CreateSensor(name string, rawConfig json.RawMessage, deps component.Dependencies) (component.Plugin, error) {
	cfg := DefaultConfig()
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &cfg); err != nil {
			return nil, fmt.Errorf("ftsensor.CreateSensor: parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ftsensor.CreateSensor: validate config: %w", err)
	}

	return New(Deps{
		Name:            name,
		Config:          cfg,
		NATSClient:      deps.NATSClient,
		MetricsRegistry: deps.MetricsRegistry,
		Logger:          deps.GetLoggerWithComponent("ft_sensor"),
	}), nil
}

// Register adds the sensor factory to a component registry
func Register(registry *component.Registry) error {
	return registry.Register(component.Registration{
		Name:        "ft_sensor",
		Description: "Publishes joint force/torque measurements from the simulation",
		Version:     "1.0.0",
		Factory:     CreateSensor,
	})
}
