package transport

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/simbridge/errors"
)

func TestCallbackQueue_CallAvailable_RunsQueuedWork(t *testing.T) {
	q := NewCallbackQueue()

	var calls atomic.Int32
	require.NoError(t, q.Add(func() { calls.Add(1) }))
	require.NoError(t, q.Add(func() { calls.Add(1) }))
	assert.Equal(t, 2, q.Len())

	n := q.CallAvailable(10 * time.Millisecond)
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, q.Len())
}

func TestCallbackQueue_CallAvailable_TimesOutWhenEmpty(t *testing.T) {
	q := NewCallbackQueue()

	start := time.Now()
	n := q.CallAvailable(20 * time.Millisecond)
	elapsed := time.Since(start)

	assert.Equal(t, 0, n)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestCallbackQueue_CallAvailable_WakesOnAdd(t *testing.T) {
	q := NewCallbackQueue()

	var calls atomic.Int32
	done := make(chan int, 1)
	go func() {
		done <- q.CallAvailable(5 * time.Second)
	}()

	// Give the waiter a moment to block
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Add(func() { calls.Add(1) }))

	select {
	case n := <-done:
		assert.Equal(t, 1, n)
		assert.Equal(t, int32(1), calls.Load())
	case <-time.After(time.Second):
		t.Fatal("CallAvailable did not wake on Add")
	}
}

func TestCallbackQueue_Disable(t *testing.T) {
	q := NewCallbackQueue()

	require.NoError(t, q.Add(func() { t.Error("cleared callback must not run") }))
	q.Disable()

	assert.True(t, q.Disabled())
	assert.Equal(t, 0, q.Len())
	assert.ErrorIs(t, q.Add(func() {}), errors.ErrQueueDisabled)
	assert.Equal(t, 0, q.CallAvailable(time.Millisecond))
}

func TestCallbackQueue_Disable_WakesWaiter(t *testing.T) {
	q := NewCallbackQueue()

	done := make(chan int, 1)
	go func() {
		done <- q.CallAvailable(5 * time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Disable()

	select {
	case n := <-done:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatal("CallAvailable did not wake on Disable")
	}
}

func TestCallbackQueue_Clear(t *testing.T) {
	q := NewCallbackQueue()

	require.NoError(t, q.Add(func() { t.Error("cleared callback must not run") }))
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Disabled())

	// Queue stays usable after Clear
	var ran atomic.Bool
	require.NoError(t, q.Add(func() { ran.Store(true) }))
	q.CallAvailable(10 * time.Millisecond)
	assert.True(t, ran.Load())
}

func TestCallbackQueue_AddNil(t *testing.T) {
	q := NewCallbackQueue()
	require.NoError(t, q.Add(nil))
	assert.Equal(t, 0, q.Len())
}
