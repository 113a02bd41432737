package main

import (
	"math"

	"github.com/c360/simbridge/sim"
)

// wrenchProfile drives a joint's reported wrench with a sinusoid so the
// demonstration host produces plausible, time-varying measurements.
type wrenchProfile struct {
	joint     *sim.FakeJoint
	forceAmp  sim.Vec3
	torqueAmp sim.Vec3
	freqHz    float64
}

func newWrenchProfile(joint *sim.FakeJoint, cfg ProfileConfig) *wrenchProfile {
	freq := cfg.FrequencyHz
	if freq <= 0 {
		freq = 0.5
	}
	return &wrenchProfile{
		joint:     joint,
		forceAmp:  sim.Vec3{X: cfg.ForceAmplitude[0], Y: cfg.ForceAmplitude[1], Z: cfg.ForceAmplitude[2]},
		torqueAmp: sim.Vec3{X: cfg.TorqueAmplitude[0], Y: cfg.TorqueAmplitude[1], Z: cfg.TorqueAmplitude[2]},
		freqHz:    freq,
	}
}

// apply updates the joint's wrench for the given simulation time. The
// three axes are phase-shifted so no two components move in lockstep.
func (p *wrenchProfile) apply(now sim.Time) {
	phase := 2 * math.Pi * p.freqHz * now.Seconds()

	p.joint.SetWrench(
		sim.Vec3{
			X: p.forceAmp.X * math.Sin(phase),
			Y: p.forceAmp.Y * math.Sin(phase+2*math.Pi/3),
			Z: p.forceAmp.Z * math.Sin(phase+4*math.Pi/3),
		},
		sim.Vec3{
			X: p.torqueAmp.X * math.Cos(phase),
			Y: p.torqueAmp.Y * math.Cos(phase+2*math.Pi/3),
			Z: p.torqueAmp.Z * math.Cos(phase+4*math.Pi/3),
		},
	)
}
