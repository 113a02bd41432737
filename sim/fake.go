package sim

import (
	"sync"
	"time"
)

// FakeEngine is an in-process Engine driven by explicit Step calls.
// Tick callbacks run synchronously on the Step caller's goroutine, which
// models the host engine invoking plugins on the simulation thread.
type FakeEngine struct {
	mu        sync.Mutex
	now       Time
	callbacks map[int]func(Time)
	nextID    int
}

// NewFakeEngine creates an engine at simulation time zero
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		callbacks: make(map[int]func(Time)),
	}
}

// SimTime returns the current simulation time
func (e *FakeEngine) SimTime() Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// OnTick registers a per-step callback and returns its deregistration
func (e *FakeEngine) OnTick(fn func(now Time)) (cancel func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.callbacks[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.callbacks, id)
		e.mu.Unlock()
	}
}

// Step advances simulation time by dt and invokes all registered tick
// callbacks with the new time. The first tick of a run is at time zero
// when Step is called with dt on an unstarted engine; use Tick for that.
func (e *FakeEngine) Step(dt time.Duration) {
	e.mu.Lock()
	e.now = e.now.Add(dt)
	e.mu.Unlock()
	e.Tick()
}

// Tick invokes all registered callbacks at the current simulation time
// without advancing the clock.
func (e *FakeEngine) Tick() {
	e.mu.Lock()
	now := e.now
	fns := make([]func(Time), 0, len(e.callbacks))
	for _, fn := range e.callbacks {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(now)
	}
}

// CallbackCount returns the number of registered tick callbacks
func (e *FakeEngine) CallbackCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.callbacks)
}

// FakeJoint is a Joint with a settable wrench
type FakeJoint struct {
	name   string
	parent string
	child  string

	mu     sync.Mutex
	force  Vec3
	torque Vec3
}

// NewFakeJoint creates a joint between the named parent and child bodies
func NewFakeJoint(name, parent, child string) *FakeJoint {
	return &FakeJoint{name: name, parent: parent, child: child}
}

// Name returns the joint name
func (j *FakeJoint) Name() string { return j.name }

// ParentName returns the parent body name
func (j *FakeJoint) ParentName() string { return j.parent }

// ChildName returns the child body name
func (j *FakeJoint) ChildName() string { return j.child }

// Wrench returns the current constraint force/torque pair
func (j *FakeJoint) Wrench() (force, torque Vec3) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.force, j.torque
}

// SetWrench sets the wrench reported on the next sample
func (j *FakeJoint) SetWrench(force, torque Vec3) {
	j.mu.Lock()
	j.force = force
	j.torque = torque
	j.mu.Unlock()
}

// FakeModel is a Model holding a fixed set of joints
type FakeModel struct {
	name   string
	joints map[string]Joint
}

// NewFakeModel creates an empty model
func NewFakeModel(name string) *FakeModel {
	return &FakeModel{
		name:   name,
		joints: make(map[string]Joint),
	}
}

// Name returns the model name
func (m *FakeModel) Name() string { return m.name }

// AddJoint adds a joint to the model
func (m *FakeModel) AddJoint(j Joint) {
	m.joints[j.Name()] = j
}

// Joint resolves a joint by name
func (m *FakeModel) Joint(name string) (Joint, bool) {
	j, ok := m.joints[name]
	return j, ok
}
