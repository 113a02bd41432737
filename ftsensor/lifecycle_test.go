package ftsensor

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/simbridge/component"
	"github.com/c360/simbridge/errors"
	"github.com/c360/simbridge/sim"
)

func TestLoad_JointNotFound(t *testing.T) {
	cfg := testConfig()
	cfg.JointName = "no_such_joint"
	rig := newTestRig(t, testConfig(), nil)
	rig.sensor.cfg = cfg

	err := rig.sensor.Load(rig.model, rig.engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrJointNotFound)
	assert.True(t, errors.IsInvalid(err))

	// A failed load leaves no hooks behind.
	assert.Equal(t, component.StateUninitialized, rig.sensor.State())
	assert.Equal(t, 0, rig.engine.CallbackCount())
	assert.False(t, rig.conn.down.Load())
}

func TestLoad_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TopicName = ""
	rig := newTestRig(t, cfg, nil)

	err := rig.sensor.Load(rig.model, rig.engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
	assert.Equal(t, component.StateUninitialized, rig.sensor.State())
}

func TestLoad_DoubleLoadRejected(t *testing.T) {
	rig := loadTestRig(t, testConfig(), nil)

	err := rig.sensor.Load(rig.model, rig.engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyLoaded)
	assert.Equal(t, 1, rig.engine.CallbackCount())
}

func TestLoad_TransportFailure(t *testing.T) {
	rig := newTestRig(t, testConfig(), nil)
	rig.sensor.newConn = func() (transportConn, error) {
		return nil, errors.WrapFatal(errors.ErrTransportNotReady, "transport", "NewConn", "open connection")
	}

	err := rig.sensor.Load(rig.model, rig.engine)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Equal(t, component.StateUninitialized, rig.sensor.State())
	assert.Equal(t, 0, rig.engine.CallbackCount())
}

func TestLoad_AdvertiseFailureClosesTransport(t *testing.T) {
	rig := newTestRig(t, testConfig(), nil)
	rig.conn.advertiseErr = stderrors.New("subject rejected")

	err := rig.sensor.Load(rig.model, rig.engine)
	require.Error(t, err)
	assert.Equal(t, component.StateUninitialized, rig.sensor.State())
	assert.True(t, rig.conn.down.Load())
	assert.Equal(t, 0, rig.engine.CallbackCount())
}

func TestShutdown_Ordering(t *testing.T) {
	rig := loadTestRig(t, testConfig(), nil)
	rig.conn.onSubscribe()
	rig.engine.Tick()
	require.Equal(t, 1, rig.conn.pub.count())

	require.NoError(t, rig.sensor.Shutdown())

	assert.Equal(t, component.StateStopped, rig.sensor.State())
	assert.True(t, rig.conn.disabled.Load())
	assert.True(t, rig.conn.down.Load())
	assert.Equal(t, 0, rig.engine.CallbackCount())
}

func TestShutdown_NoPublishAfterStop(t *testing.T) {
	rig := loadTestRig(t, testConfig(), nil)
	rig.conn.onSubscribe()
	rig.engine.Tick()
	require.Equal(t, 1, rig.conn.pub.count())

	require.NoError(t, rig.sensor.Shutdown())

	// Even a straggler tick delivered after teardown must not publish.
	rig.sensor.onTick(sim.FromSeconds(99))
	for i := 0; i < 5; i++ {
		rig.engine.Step(time.Millisecond)
	}
	assert.Equal(t, 1, rig.conn.pub.count())
}

func TestShutdown_Idempotent(t *testing.T) {
	rig := loadTestRig(t, testConfig(), nil)

	require.NoError(t, rig.sensor.Shutdown())
	require.NoError(t, rig.sensor.Shutdown())
	assert.Equal(t, component.StateStopped, rig.sensor.State())
}

func TestShutdown_WithoutLoad(t *testing.T) {
	rig := newTestRig(t, testConfig(), nil)

	require.NoError(t, rig.sensor.Shutdown())
	assert.Equal(t, component.StateStopped, rig.sensor.State())
	assert.False(t, rig.conn.down.Load())
}

func TestShutdown_JoinsDeliveryGoroutine(t *testing.T) {
	rig := loadTestRig(t, testConfig(), nil)

	require.Eventually(t, func() bool {
		return rig.conn.serviced.Load() > 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, rig.sensor.Shutdown())
	after := rig.conn.serviced.Load()

	// The loop has exited; no further servicing happens.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, rig.conn.serviced.Load())
}
