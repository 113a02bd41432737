package ftsensor

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/simbridge/component"
	"github.com/c360/simbridge/message"
	"github.com/c360/simbridge/metric"
	"github.com/c360/simbridge/natsclient"
	"github.com/c360/simbridge/sim"
	"github.com/c360/simbridge/transport"
)

// transportConn is the slice of the transport handle the sensor drives
type transportConn interface {
	Advertise(topic string, onSubscribe, onUnsubscribe func()) (transport.Publisher, error)
	Service(timeout time.Duration) int
	DisableWork()
	Shutdown()
}

// Deps holds runtime dependencies for a sensor instance
type Deps struct {
	Name            string                  // Instance name
	Config          Config                  // Declarative configuration
	NATSClient      *natsclient.Client      // Messaging substrate
	MetricsRegistry *metric.MetricsRegistry // Prometheus registration (can be nil)
	Logger          *slog.Logger            // Structured logger (can be nil)
}

// Sensor is the force/torque sensor bridge plugin. Two goroutines touch
// it while running: the simulation goroutine (onTick) and the delivery
// goroutine (deliveryLoop). The outgoing message is mutex-guarded, the
// subscriber count is atomic, and the rate-limiter fields are confined to
// the simulation goroutine.
type Sensor struct {
	name   string
	cfg    Config
	logger *slog.Logger

	// Resolved during Load; immutable afterwards
	joint   sim.Joint
	frameID string

	// Transport wiring
	conn    transportConn
	pub     transport.Publisher
	newConn func() (transportConn, error)

	interest interestTracker

	// Rate-limiter state. Simulation goroutine only, no lock needed.
	lastSample sim.Time
	sampled    bool

	// The single live outgoing message. The lock covers the
	// overwrite-and-publish sequence so a publish never runs
	// concurrently with another overwrite of the same message.
	mu  sync.Mutex
	msg message.WrenchStamped

	// Lifecycle
	lifecycleMu  sync.Mutex
	state        atomic.Int32 // stores component.State
	cancelTick   func()
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	startTime    time.Time
	errorCount   atomic.Int64

	metrics *Metrics
}

// Ensure Sensor implements the plugin contract
var _ component.Plugin = (*Sensor)(nil)

// New creates a sensor plugin from its dependencies. No resources are
// acquired until Load.
func New(deps Deps) *Sensor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default().With("component", "ft_sensor", "sensor", deps.Name)
	}

	s := &Sensor{
		name:    deps.Name,
		cfg:     deps.Config,
		logger:  logger,
		metrics: newMetrics(deps.MetricsRegistry, deps.Name),
	}
	s.state.Store(int32(component.StateUninitialized))
	s.newConn = func() (transportConn, error) {
		return transport.NewConn(deps.NATSClient, logger)
	}
	return s
}

// Meta returns the plugin metadata
func (s *Sensor) Meta() component.Metadata {
	name := s.name
	if name == "" {
		name = "ft_sensor"
	}
	return component.Metadata{
		Name:        name,
		Type:        "sensor",
		Description: fmt.Sprintf("Force/torque sensor on joint %q publishing to %q", s.cfg.JointName, s.cfg.TopicName),
		Version:     "1.0.0",
	}
}

// State returns the current lifecycle state
func (s *Sensor) State() component.State {
	return component.State(s.state.Load())
}

// Health returns the current health status of the plugin
func (s *Sensor) Health() component.HealthStatus {
	running := s.State() == component.StateRunning
	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(s.errorCount.Load()),
		Uptime:     time.Since(s.startTime),
	}
}

// Subscribers returns the number of currently active subscribers
func (s *Sensor) Subscribers() int64 {
	return s.interest.Count()
}

// onTick runs on the simulation goroutine once per step. It never blocks
// on anything but the short message lock so a tick completes promptly.
func (s *Sensor) onTick(now sim.Time) {
	if s.State() != component.StateRunning {
		return
	}

	// Rate gate first, interest gate second, matching the order the
	// sample windows are accounted in.
	if s.sampled && !shouldSample(now, s.cfg.UpdateRate, s.lastSample) {
		if s.metrics != nil {
			s.metrics.ticksSkipped.WithLabelValues("rate_limit").Inc()
		}
		return
	}

	if !s.interest.Active() {
		// The rate-limiter timestamp is deliberately not advanced here:
		// a subscriber appearing after a long idle period is served on
		// the very next tick instead of waiting out a stale window.
		if s.metrics != nil {
			s.metrics.ticksSkipped.WithLabelValues("no_subscribers").Inc()
		}
		return
	}

	force, torque := s.joint.Wrench()

	s.mu.Lock()
	s.msg.Header.FrameID = s.frameID
	s.msg.Header.Stamp = message.Time{Sec: now.Sec, Nsec: now.Nsec}
	s.msg.Wrench.Force = message.Vector3{X: force.X, Y: force.Y, Z: force.Z}
	s.msg.Wrench.Torque = message.Vector3{X: torque.X, Y: torque.Y, Z: torque.Z}

	start := time.Now()
	err := s.pub.Publish(&s.msg)
	s.mu.Unlock()

	if err != nil {
		s.errorCount.Add(1)
		if s.metrics != nil {
			s.metrics.publishErrors.Inc()
		}
		s.logger.Error("Publish failed", "error", err)
		return
	}

	s.lastSample = now
	s.sampled = true

	if s.metrics != nil {
		s.metrics.samplesPublished.Inc()
		s.metrics.publishLatency.Observe(time.Since(start).Seconds())
	}
}
