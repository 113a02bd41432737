package ftsensor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/simbridge/component"
)

func TestCreateSensor(t *testing.T) {
	raw := json.RawMessage(`{
		"jointName": "wrist_joint",
		"topicName": "robot.wrist.wrench",
		"updateRate": 50,
		"framePrefix": "robot1"
	}`)

	plugin, err := CreateSensor("wrist", raw, component.Dependencies{})
	require.NoError(t, err)

	sensor, ok := plugin.(*Sensor)
	require.True(t, ok)
	assert.Equal(t, "wrist_joint", sensor.cfg.JointName)
	assert.Equal(t, "robot.wrist.wrench", sensor.cfg.TopicName)
	assert.Equal(t, 50.0, sensor.cfg.UpdateRate)
	assert.Equal(t, "robot1", sensor.cfg.FramePrefix)
	assert.Equal(t, component.StateUninitialized, plugin.State())
}

func TestCreateSensor_Defaults(t *testing.T) {
	raw := json.RawMessage(`{"jointName": "j1", "topicName": "t1"}`)

	plugin, err := CreateSensor("minimal", raw, component.Dependencies{})
	require.NoError(t, err)

	sensor := plugin.(*Sensor)
	assert.Equal(t, 0.0, sensor.cfg.UpdateRate)
	assert.Equal(t, "", sensor.cfg.FramePrefix)
}

func TestCreateSensor_InvalidJSON(t *testing.T) {
	_, err := CreateSensor("broken", json.RawMessage(`{not json`), component.Dependencies{})
	assert.Error(t, err)
}

func TestCreateSensor_InvalidConfig(t *testing.T) {
	_, err := CreateSensor("broken", json.RawMessage(`{"jointName": "j1"}`), component.Dependencies{})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))

	names := registry.List()
	require.Len(t, names, 1)
	assert.Equal(t, "ft_sensor", names[0].Name)

	plugin, err := registry.Create("ft_sensor", "wrist",
		json.RawMessage(`{"jointName": "j1", "topicName": "t1"}`), component.Dependencies{})
	require.NoError(t, err)
	assert.Equal(t, "wrist", plugin.Meta().Name)
}
