// Package simbridge bridges a physics simulation loop to a pub/sub
// messaging substrate.
//
// The core of the module is the ftsensor plugin: once per simulation tick
// it samples the force/torque wrench at a mechanical joint, gates the
// sample by a configured update rate and by subscriber interest, writes it
// into a single shared outgoing message, and publishes it over NATS. A
// background delivery goroutine services subscriber join/leave events with
// a bounded polling timeout so the whole arrangement can shut down
// deterministically, even mid-simulation.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│        Simulation engine            │  per-tick callback
//	│        (sim.Engine)                 │  sim clock, joint lookup
//	└─────────────────────────────────────┘
//	           ↓ tick
//	┌─────────────────────────────────────┐
//	│        ftsensor.Sensor              │  rate gate, interest gate,
//	│  (sample → shared buffer → publish) │  shared sample buffer
//	└─────────────────────────────────────┘
//	           ↓ publish            ↑ join/leave
//	┌─────────────────────────────────────┐
//	│        transport.Conn               │  NATS data subject +
//	│  (callback queue, delivery loop)    │  interest control subject
//	└─────────────────────────────────────┘
//
// Two goroutines touch shared state: the simulation goroutine (owned by
// the host engine, never blocks) and the delivery goroutine (owned by the
// sensor, drains the transport callback queue). The shared sample buffer
// is mutex-guarded; the subscriber count is atomic; rate-limiter state is
// confined to the simulation goroutine.
//
// Supporting packages: message (wire contract), natsclient (connection
// management), transport (pub/sub boundary), sim (engine boundary and
// fakes), component (plugin contract and registry), componentregistry
// (built-in factory registration), metric (Prometheus registry and HTTP
// endpoint), health (plugin health aggregation), errors (classified error
// handling). The cmd/simbridge binary runs the whole arrangement against
// a synthetic model.
package simbridge
