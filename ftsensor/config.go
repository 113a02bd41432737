// Package ftsensor implements the force/torque sensor bridge plugin: once
// per simulation tick it samples the wrench at a configured joint, gates
// the sample by update rate and subscriber interest, and publishes it over
// the transport layer. A delivery goroutine services subscriber join/leave
// work concurrently with the simulation loop.
package ftsensor

import (
	"fmt"
	"strings"

	"github.com/c360/simbridge/errors"
)

// Config holds the declarative configuration for one sensor instance.
// The loading of this structure from the host's declarative format is the
// host's concern; this package only validates it.
type Config struct {
	// JointName names the joint to measure. Required.
	JointName string `json:"jointName"`

	// TopicName is the topic samples are published on. Required.
	TopicName string `json:"topicName"`

	// UpdateRate limits sampling to this many samples per second of
	// simulation time. 0 means unbounded: sample every tick.
	UpdateRate float64 `json:"updateRate"`

	// FramePrefix is prepended to the child body name to form the
	// measurement frame identity. Optional.
	FramePrefix string `json:"framePrefix"`
}

// DefaultConfig returns the defaults for optional fields
func DefaultConfig() Config {
	return Config{
		UpdateRate: 0, // as fast as possible
	}
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.JointName == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig,
			"ft_sensor", "Validate", "jointName validation")
	}
	if c.TopicName == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig,
			"ft_sensor", "Validate", "topicName validation")
	}
	if c.UpdateRate < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("updateRate must be non-negative, got %v", c.UpdateRate),
			"ft_sensor", "Validate", "updateRate validation")
	}
	return nil
}

// resolveFrame builds the measurement frame identity from the configured
// prefix and the joint's child body name. An empty prefix yields the bare
// body name; a trailing separator on the prefix is not doubled.
func resolveFrame(prefix, childBody string) string {
	if prefix == "" {
		return childBody
	}
	return strings.TrimSuffix(prefix, "/") + "/" + childBody
}
