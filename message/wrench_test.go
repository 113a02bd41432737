package message

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrenchStamped_RoundTrip(t *testing.T) {
	msg := WrenchStamped{
		Header: Header{
			FrameID: "arm/wrist_link",
			Stamp:   Time{Sec: 12, Nsec: 500_000_000},
		},
		Wrench: Wrench{
			Force:  Vector3{X: 1.25, Y: -9.81, Z: 0.003},
			Torque: Vector3{X: 0, Y: 0.5, Z: -2},
		},
	}

	data, err := msg.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalWrenchStamped(data)
	require.NoError(t, err)

	if diff := cmp.Diff(msg, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrenchStamped_WireFieldNames(t *testing.T) {
	// The JSON key names are the contract delivery partners depend on.
	msg := WrenchStamped{
		Header: Header{FrameID: "base_link", Stamp: Time{Sec: 3, Nsec: 7}},
	}
	data, err := msg.Marshal()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "header")
	assert.Contains(t, raw, "wrench")

	var header map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["header"], &header))
	assert.JSONEq(t, `"base_link"`, string(header["frame_id"]))
	assert.JSONEq(t, `{"sec":3,"nsec":7}`, string(header["stamp"]))

	var wrench map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["wrench"], &wrench))
	assert.JSONEq(t, `{"x":0,"y":0,"z":0}`, string(wrench["force"]))
	assert.JSONEq(t, `{"x":0,"y":0,"z":0}`, string(wrench["torque"]))
}
