package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the bridge host
type Config struct {
	NATS    NATSConfig     `yaml:"nats"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Sim     SimConfig      `yaml:"sim"`
	Model   ModelConfig    `yaml:"model"`
	Sensors []SensorConfig `yaml:"sensors"`
}

// NATSConfig configures the messaging substrate
type NATSConfig struct {
	URL string `yaml:"url"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// Duration wraps time.Duration so YAML values can use forms like "1ms"
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// SimConfig configures the demonstration simulation loop
type SimConfig struct {
	// Step is the simulation time advanced per tick.
	Step Duration `yaml:"step"`
	// Realtime paces ticks against the wall clock when true; otherwise
	// the loop free-runs as fast as it can.
	Realtime bool `yaml:"realtime"`
}

// ModelConfig describes the synthetic model the host simulates
type ModelConfig struct {
	Name   string        `yaml:"name"`
	Joints []JointConfig `yaml:"joints"`
}

// JointConfig describes one joint and the wrench profile that drives it
type JointConfig struct {
	Name    string        `yaml:"name"`
	Parent  string        `yaml:"parent"`
	Child   string        `yaml:"child"`
	Profile ProfileConfig `yaml:"profile"`
}

// ProfileConfig parameterizes the sinusoidal wrench driving a joint
type ProfileConfig struct {
	ForceAmplitude  [3]float64 `yaml:"forceAmplitude"`
	TorqueAmplitude [3]float64 `yaml:"torqueAmplitude"`
	FrequencyHz     float64    `yaml:"frequencyHz"`
}

// SensorConfig declares one plugin instance. Config is the raw plugin
// configuration, handed to the factory as JSON.
type SensorConfig struct {
	Name    string         `yaml:"name"`
	Type    string         `yaml:"type"`
	Enabled *bool          `yaml:"enabled"`
	Config  map[string]any `yaml:"config"`
}

// IsEnabled reports whether the instance should be created. Instances
// are enabled unless explicitly disabled.
func (s *SensorConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// RawConfig converts the YAML plugin configuration to the JSON form the
// component factory expects.
func (s *SensorConfig) RawConfig() (json.RawMessage, error) {
	if s.Config == nil {
		return nil, nil
	}
	raw, err := json.Marshal(s.Config)
	if err != nil {
		return nil, fmt.Errorf("encode config for sensor %q: %w", s.Name, err)
	}
	return raw, nil
}

// DefaultConfig returns the configuration used when fields are omitted
func DefaultConfig() Config {
	return Config{
		NATS:    NATSConfig{URL: "nats://localhost:4222"},
		Metrics: MetricsConfig{Addr: ":9090", Path: "/metrics"},
		Sim:     SimConfig{Step: Duration(time.Millisecond), Realtime: true},
		Model:   ModelConfig{Name: "model"},
	}
}

// LoadConfig reads and validates a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field consistency of the configuration
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.Sim.Step.Std() <= 0 {
		return fmt.Errorf("sim.step must be positive, got %v", c.Sim.Step)
	}

	joints := make(map[string]bool, len(c.Model.Joints))
	for i, j := range c.Model.Joints {
		if j.Name == "" {
			return fmt.Errorf("model.joints[%d]: name is required", i)
		}
		if joints[j.Name] {
			return fmt.Errorf("model.joints: duplicate joint %q", j.Name)
		}
		joints[j.Name] = true
	}

	names := make(map[string]bool, len(c.Sensors))
	for i, s := range c.Sensors {
		if s.Name == "" {
			return fmt.Errorf("sensors[%d]: name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("sensors: duplicate instance %q", s.Name)
		}
		names[s.Name] = true
		if s.Type == "" {
			return fmt.Errorf("sensors[%d] (%s): type is required", i, s.Name)
		}
	}

	return nil
}
