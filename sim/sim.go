// Package sim defines the boundary to the host physics simulation engine:
// the simulation clock, joint and model lookup, and per-tick callback
// registration. The real engine lives outside this module; package sim
// also ships fakes so plugins can be exercised without one.
package sim

import "time"

// Time is a simulation timestamp: whole seconds plus nanoseconds within
// the second. Simulation time starts at zero and only moves forward.
type Time struct {
	Sec  int64
	Nsec int32
}

// FromSeconds converts fractional seconds to a Time
func FromSeconds(s float64) Time {
	return FromDuration(time.Duration(s * float64(time.Second)))
}

// FromDuration converts an offset from simulation start to a Time
func FromDuration(d time.Duration) Time {
	return Time{
		Sec:  int64(d / time.Second),
		Nsec: int32(d % time.Second),
	}
}

// Seconds returns the timestamp as fractional seconds
func (t Time) Seconds() float64 {
	return float64(t.Sec) + float64(t.Nsec)/float64(time.Second)
}

// Sub returns the duration t-u
func (t Time) Sub(u Time) time.Duration {
	return time.Duration(t.Sec-u.Sec)*time.Second + time.Duration(t.Nsec-u.Nsec)
}

// Add returns t advanced by d
func (t Time) Add(d time.Duration) Time {
	return FromDuration(t.Sub(Time{}) + d)
}

// Before reports whether t is earlier than u
func (t Time) Before(u Time) bool {
	if t.Sec != u.Sec {
		return t.Sec < u.Sec
	}
	return t.Nsec < u.Nsec
}

// IsZero reports whether t is the zero timestamp
func (t Time) IsZero() bool {
	return t.Sec == 0 && t.Nsec == 0
}

// Vec3 is a 3-component vector in engine units
type Vec3 struct {
	X, Y, Z float64
}

// Joint is a mechanical constraint between two bodies. The handle stays
// valid for the owning model's lifetime; Wrench reports the constraint
// force/torque at the child body in the child-to-parent convention.
type Joint interface {
	Name() string
	ParentName() string
	ChildName() string
	Wrench() (force, torque Vec3)
}

// Model is the scene-graph entity a plugin is attached to
type Model interface {
	Name() string
	Joint(name string) (Joint, bool)
}

// Engine is the simulation engine surface a plugin binds to. OnTick
// registers a callback invoked synchronously on the simulation goroutine
// once per step; the returned cancel deregisters it and guarantees the
// callback is never invoked again after cancel returns.
type Engine interface {
	SimTime() Time
	OnTick(fn func(now Time)) (cancel func())
}
