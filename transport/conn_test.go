package transport

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/simbridge/errors"
)

// fakeWire is an in-memory pub/sub substrate: publishes are delivered
// synchronously to all handlers registered for the subject.
type fakeWire struct {
	mu        sync.Mutex
	handlers  map[string][]func([]byte)
	published map[string][][]byte
	healthy   bool
}

func newFakeWire() *fakeWire {
	return &fakeWire{
		handlers:  make(map[string][]func([]byte)),
		published: make(map[string][][]byte),
		healthy:   true,
	}
}

func (w *fakeWire) Publish(subject string, data []byte) error {
	w.mu.Lock()
	w.published[subject] = append(w.published[subject], data)
	handlers := make([]func([]byte), len(w.handlers[subject]))
	copy(handlers, w.handlers[subject])
	w.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (w *fakeWire) Subscribe(subject string, handler func([]byte)) (func() error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[subject] = append(w.handlers[subject], handler)
	return func() error {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.handlers, subject)
		return nil
	}, nil
}

func (w *fakeWire) Healthy() bool {
	return w.healthy
}

func (w *fakeWire) messagesOn(subject string) [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]byte, len(w.published[subject]))
	copy(out, w.published[subject])
	return out
}

func TestConn_Advertise_InterestCallbacks(t *testing.T) {
	w := newFakeWire()
	conn := newConn(w, nil)

	var subs, unsubs int
	_, err := conn.Advertise("sensor.wrench", func() { subs++ }, func() { unsubs++ })
	require.NoError(t, err)

	// Interest records are queued, not run inline
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("join:a")))
	assert.Equal(t, 0, subs, "callback must not run on the wire goroutine")

	assert.Equal(t, 1, conn.Service(10*time.Millisecond))
	assert.Equal(t, 1, subs)

	// Duplicate join for the same id is ignored
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("join:a")))
	conn.Service(10 * time.Millisecond)
	assert.Equal(t, 1, subs)

	// Leave for an unknown id is ignored; known id fires once
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("leave:ghost")))
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("leave:a")))
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("leave:a")))
	conn.Service(10 * time.Millisecond)
	assert.Equal(t, 1, unsubs)

	// Re-join after leave fires again
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("join:a")))
	conn.Service(10 * time.Millisecond)
	assert.Equal(t, 2, subs)
}

func TestConn_Advertise_MalformedInterestIgnored(t *testing.T) {
	w := newFakeWire()
	conn := newConn(w, nil)

	var subs int
	_, err := conn.Advertise("sensor.wrench", func() { subs++ }, nil)
	require.NoError(t, err)

	for _, bad := range []string{"", "join", "join:", "subscribe:a", "leave"} {
		require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte(bad)))
	}
	assert.Equal(t, 0, conn.Service(5*time.Millisecond))
	assert.Equal(t, 0, subs)
}

func TestPublisher_Publish(t *testing.T) {
	w := newFakeWire()
	conn := newConn(w, nil)

	pub, err := conn.Advertise("sensor.wrench", nil, nil)
	require.NoError(t, err)

	type sample struct {
		Value float64 `json:"value"`
	}
	require.NoError(t, pub.Publish(sample{Value: 1.5}))

	msgs := w.messagesOn("sensor.wrench")
	require.Len(t, msgs, 1)

	var got sample
	require.NoError(t, json.Unmarshal(msgs[0], &got))
	assert.Equal(t, 1.5, got.Value)
}

func TestConn_Shutdown(t *testing.T) {
	w := newFakeWire()
	conn := newConn(w, nil)

	pub, err := conn.Advertise("sensor.wrench", func() {}, nil)
	require.NoError(t, err)

	conn.DisableWork()
	conn.Shutdown()
	conn.Shutdown() // idempotent

	assert.True(t, conn.Down())

	// Control subscription removed: records no longer reach the queue
	require.NoError(t, w.Publish("sensor.wrench"+interestSuffix, []byte("join:a")))
	assert.Equal(t, 0, conn.Service(time.Millisecond))

	// Publishing and advertising on a down conn fail fatally
	err = pub.Publish(map[string]int{"v": 1})
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))

	_, err = conn.Advertise("another.topic", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestConn_Advertise_EmptyTopic(t *testing.T) {
	conn := newConn(newFakeWire(), nil)
	_, err := conn.Advertise("", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestSubscribe_AnnouncesInterest(t *testing.T) {
	w := newFakeWire()
	conn := newConn(w, nil)

	var subs, unsubs int
	pub, err := conn.Advertise("sensor.wrench", func() { subs++ }, func() { unsubs++ })
	require.NoError(t, err)

	var received [][]byte
	var mu sync.Mutex
	sub, err := subscribe(w, "sensor.wrench", func(data []byte) {
		mu.Lock()
		received = append(received, data)
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID())

	conn.Service(10 * time.Millisecond)
	assert.Equal(t, 1, subs)

	require.NoError(t, pub.Publish(map[string]string{"frame": "wrist"}))
	mu.Lock()
	assert.Len(t, received, 1)
	mu.Unlock()

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe()) // second call is a no-op
	conn.Service(10 * time.Millisecond)
	assert.Equal(t, 1, unsubs)

	// Only one leave record was announced
	leaves := 0
	for _, msg := range w.messagesOn("sensor.wrench" + interestSuffix) {
		if string(msg) == "leave:"+sub.ID() {
			leaves++
		}
	}
	assert.Equal(t, 1, leaves)
}
