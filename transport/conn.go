package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/simbridge/errors"
	"github.com/c360/simbridge/natsclient"
)

// interestSuffix is appended to a data topic to form the control subject
// on which subscriber join/leave records travel.
const interestSuffix = ".interest"

// Publisher publishes messages on an advertised topic
type Publisher interface {
	Publish(v any) error
}

// wire abstracts the raw pub/sub substrate so interest plumbing can be
// unit-tested without a NATS server.
type wire interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func() error, err error)
	Healthy() bool
}

// natsWire adapts the NATS client to the wire interface
type natsWire struct {
	client *natsclient.Client
}

func (w natsWire) Publish(subject string, data []byte) error {
	return w.client.Publish(subject, data)
}

func (w natsWire) Subscribe(subject string, handler func(data []byte)) (func() error, error) {
	sub, err := w.client.Subscribe(subject, handler)
	if err != nil {
		return nil, err
	}
	if err := w.client.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, err
	}
	return sub.Unsubscribe, nil
}

func (w natsWire) Healthy() bool {
	return w.client.IsHealthy()
}

// Conn is the transport handle a plugin holds for its lifetime. It owns
// the callback work queue and the control-subject subscriptions created
// by Advertise, and tears them down in Shutdown.
type Conn struct {
	w      wire
	logger *slog.Logger
	queue  *CallbackQueue

	mu      sync.Mutex
	unsubs  []func() error
	down    atomic.Bool
	downOne sync.Once
}

// NewConn acquires a transport handle backed by the given NATS client.
// Fails fatally if the messaging substrate is not ready: a plugin must not
// come up half-wired.
func NewConn(client *natsclient.Client, logger *slog.Logger) (*Conn, error) {
	if client == nil || !client.IsHealthy() {
		return nil, errors.WrapFatal(errors.ErrTransportNotReady,
			"Conn", "NewConn", "transport readiness check")
	}
	return newConn(natsWire{client: client}, logger), nil
}

// newConn builds a Conn over any wire. Used directly by tests.
func newConn(w wire, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default().With("component", "transport")
	}
	return &Conn{
		w:      w,
		logger: logger,
		queue:  NewCallbackQueue(),
	}
}

// Advertise announces a topic and returns a Publisher for it. Subscriber
// join/leave records arriving on the topic's control subject are not run
// inline on the wire's goroutine: they are enqueued on the callback queue
// and executed by whoever calls Service. Duplicate joins and leaves for
// unknown ids are ignored, so the callbacks fire exactly once per
// subscriber transition.
func (c *Conn) Advertise(topic string, onSubscribe, onUnsubscribe func()) (Publisher, error) {
	if c.down.Load() {
		return nil, errors.WrapFatal(errors.ErrTransportNotReady, "Conn", "Advertise", "transport state check")
	}
	if topic == "" {
		return nil, errors.WrapInvalid(fmt.Errorf("empty topic"), "Conn", "Advertise", "topic validation")
	}

	ad := &advertisement{
		conn:   c,
		topic:  topic,
		active: make(map[string]struct{}),
	}

	unsub, err := c.w.Subscribe(topic+interestSuffix, func(data []byte) {
		event, id, ok := parseInterest(data)
		if !ok {
			c.logger.Debug("Ignoring malformed interest record", "topic", topic, "data", string(data))
			return
		}
		// Queue may already be disabled during shutdown; the record is
		// then dropped, which is correct: nobody will sample again.
		_ = c.queue.Add(func() {
			ad.apply(event, id, onSubscribe, onUnsubscribe)
		})
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "Conn", "Advertise", "interest subscription")
	}

	c.mu.Lock()
	c.unsubs = append(c.unsubs, unsub)
	c.mu.Unlock()

	c.logger.Debug("Advertised topic", "topic", topic)
	return ad, nil
}

// Service executes pending transport work, waiting up to timeout if none
// is ready. Returns the number of callbacks serviced.
func (c *Conn) Service(timeout time.Duration) int {
	if c.down.Load() && c.queue.Disabled() {
		return 0
	}
	return c.queue.CallAvailable(timeout)
}

// DisableWork clears queued transport work and rejects new work. After
// this call a delivery goroutine blocked in Service observes no work and
// can exit within one polling interval.
func (c *Conn) DisableWork() {
	c.queue.Clear()
	c.queue.Disable()
}

// Shutdown marks the transport handle down and removes all control-subject
// subscriptions. Idempotent.
func (c *Conn) Shutdown() {
	c.downOne.Do(func() {
		c.down.Store(true)

		c.mu.Lock()
		unsubs := c.unsubs
		c.unsubs = nil
		c.mu.Unlock()

		for _, unsub := range unsubs {
			if err := unsub(); err != nil {
				c.logger.Debug("Unsubscribe during shutdown", "error", err)
			}
		}
	})
}

// Down reports whether Shutdown has been called
func (c *Conn) Down() bool {
	return c.down.Load()
}

// advertisement is the Publisher for one advertised topic. It tracks the
// set of active subscriber ids so interest callbacks fire exactly once per
// transition; the set is only touched from Service callbacks.
type advertisement struct {
	conn  *Conn
	topic string

	mu     sync.Mutex
	active map[string]struct{}
}

type interestEvent int

const (
	interestJoin interestEvent = iota
	interestLeave
)

func (a *advertisement) apply(event interestEvent, id string, onSubscribe, onUnsubscribe func()) {
	a.mu.Lock()
	switch event {
	case interestJoin:
		if _, known := a.active[id]; known {
			a.mu.Unlock()
			return
		}
		a.active[id] = struct{}{}
		a.mu.Unlock()
		if onSubscribe != nil {
			onSubscribe()
		}
	case interestLeave:
		if _, known := a.active[id]; !known {
			a.mu.Unlock()
			return
		}
		delete(a.active, id)
		a.mu.Unlock()
		if onUnsubscribe != nil {
			onUnsubscribe()
		}
	}
}

// Publish marshals v as JSON and publishes it on the advertised topic
func (a *advertisement) Publish(v any) error {
	if a.conn.down.Load() {
		return errors.WrapFatal(errors.ErrTransportNotReady, "Publisher", "Publish", "transport state check")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapInvalid(err, "Publisher", "Publish", "message encoding")
	}
	if err := a.conn.w.Publish(a.topic, data); err != nil {
		return errors.WrapTransient(err, "Publisher", "Publish", "wire publish")
	}
	return nil
}

// parseInterest decodes a "join:<id>" or "leave:<id>" control record
func parseInterest(data []byte) (interestEvent, string, bool) {
	verb, id, found := strings.Cut(string(data), ":")
	if !found || id == "" {
		return 0, "", false
	}
	switch verb {
	case "join":
		return interestJoin, id, true
	case "leave":
		return interestLeave, id, true
	default:
		return 0, "", false
	}
}
