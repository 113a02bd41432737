// Package message defines the wire contract for sensor messages published
// by simbridge. Field names and shapes are the compatibility surface that
// delivery partners depend on; changing them is a breaking change.
package message

import "encoding/json"

// Vector3 is a 3-component vector. Values pass through from the physics
// engine unmodified: no unit conversion, no frame transform.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Time is a simulation timestamp split into whole seconds and nanoseconds.
type Time struct {
	Sec  int64 `json:"sec"`
	Nsec int32 `json:"nsec"`
}

// Header carries the measurement frame identity and the sample timestamp.
type Header struct {
	FrameID string `json:"frame_id"`
	Stamp   Time   `json:"stamp"`
}

// Wrench is a force/torque pair measured at a mechanical joint,
// expressed at the child body in the child-to-parent convention.
type Wrench struct {
	Force  Vector3 `json:"force"`
	Torque Vector3 `json:"torque"`
}

// WrenchStamped is the outgoing message shape: one wrench sample with its
// frame identity and simulation timestamp.
type WrenchStamped struct {
	Header Header `json:"header"`
	Wrench Wrench `json:"wrench"`
}

// Marshal encodes the message as JSON for transport.
func (m *WrenchStamped) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalWrenchStamped decodes a transported message.
func UnmarshalWrenchStamped(data []byte) (WrenchStamped, error) {
	var m WrenchStamped
	err := json.Unmarshal(data, &m)
	return m, err
}
