package ftsensor

import (
	"fmt"
	"time"

	"github.com/c360/simbridge/component"
	"github.com/c360/simbridge/errors"
	"github.com/c360/simbridge/sim"
)

// Load validates configuration, resolves the joint, connects the
// transport and starts the sampling and delivery machinery. On any
// failure it returns before installing hooks, so a failed load leaves
// the simulation untouched.
func (s *Sensor) Load(model sim.Model, engine sim.Engine) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.State() != component.StateUninitialized {
		return errors.WrapInvalid(errors.ErrAlreadyLoaded, "ftsensor", "Load", "load sensor")
	}

	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("ftsensor.Load: validate config: %w", err)
	}

	joint, ok := model.Joint(s.cfg.JointName)
	if !ok {
		err := errors.WrapInvalid(errors.ErrJointNotFound, "ftsensor", "Load", "resolve joint "+s.cfg.JointName)
		s.logger.Error("Joint not found, sensor disabled",
			"joint", s.cfg.JointName,
			"model", model.Name())
		return err
	}
	s.joint = joint
	s.frameID = resolveFrame(s.cfg.FramePrefix, joint.ChildName())

	conn, err := s.newConn()
	if err != nil {
		return fmt.Errorf("ftsensor.Load: open transport: %w", err)
	}
	s.conn = conn

	pub, err := conn.Advertise(s.cfg.TopicName, s.onSubscribe, s.onUnsubscribe)
	if err != nil {
		conn.Shutdown()
		return fmt.Errorf("ftsensor.Load: advertise topic %q: %w", s.cfg.TopicName, err)
	}
	s.pub = pub

	s.startTime = time.Now()
	s.state.Store(int32(component.StateRunning))

	s.wg.Add(1)
	go s.deliveryLoop()

	s.cancelTick = engine.OnTick(s.onTick)

	s.logger.Info("Sensor loaded",
		"joint", s.cfg.JointName,
		"topic", s.cfg.TopicName,
		"frame", s.frameID,
		"update_rate", s.cfg.UpdateRate)
	return nil
}

// onSubscribe and onUnsubscribe run on the delivery goroutine, inside
// Service. They are the only writers of the interest count besides
// Shutdown's queue teardown.
func (s *Sensor) onSubscribe() {
	n := s.interest.OnSubscribe()
	if s.metrics != nil {
		s.metrics.activeSubscribers.Set(float64(n))
	}
	s.logger.Debug("Subscriber joined", "topic", s.cfg.TopicName, "subscribers", n)
}

func (s *Sensor) onUnsubscribe() {
	n := s.interest.OnUnsubscribe()
	if s.metrics != nil {
		s.metrics.activeSubscribers.Set(float64(n))
	}
	s.logger.Debug("Subscriber left", "topic", s.cfg.TopicName, "subscribers", n)
}

// Shutdown tears the sensor down in strict order: stop sampling, stop
// accepting transport work, disconnect, then join the delivery
// goroutine. It is idempotent and safe to call on a sensor that never
// loaded.
func (s *Sensor) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.lifecycleMu.Lock()
		defer s.lifecycleMu.Unlock()

		if s.State() != component.StateRunning {
			s.state.Store(int32(component.StateStopped))
			return
		}
		s.state.Store(int32(component.StateShuttingDown))

		// 1. Detach from the simulation so no new samples arrive.
		if s.cancelTick != nil {
			s.cancelTick()
			s.cancelTick = nil
		}

		// 2. Reject and drop pending transport callbacks.
		s.conn.DisableWork()

		// 3. Disconnect the transport.
		s.conn.Shutdown()

		// 4. Join the delivery goroutine. It observes the state change
		// within one poll interval.
		s.wg.Wait()

		s.state.Store(int32(component.StateStopped))
		s.logger.Info("Sensor stopped", "topic", s.cfg.TopicName)
	})
	return nil
}
