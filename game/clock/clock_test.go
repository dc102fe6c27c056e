package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_FiresOncePerInterval(t *testing.T) {
	m := NewManual()
	calls := 0
	m.Every(100*time.Millisecond, func() { calls++ })

	assert.Equal(t, 0, m.Advance(99*time.Millisecond))
	assert.Equal(t, 1, m.Advance(time.Millisecond))
	assert.Equal(t, 3, m.Advance(300*time.Millisecond))
	assert.Equal(t, 4, calls)
	assert.Equal(t, 400*time.Millisecond, m.Elapsed())
}

func TestManual_StopCancels(t *testing.T) {
	m := NewManual()
	calls := 0
	timer := m.Every(10*time.Millisecond, func() { calls++ })
	m.Advance(10 * time.Millisecond)
	timer.Stop()
	timer.Stop()

	m.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, m.Active())
	assert.False(t, m.Step())
}

func TestManual_StopFromInsideCallback(t *testing.T) {
	m := NewManual()
	calls := 0
	var timer Timer
	timer = m.Every(10*time.Millisecond, func() {
		calls++
		timer.Stop()
	})
	m.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, calls)
}

func TestManual_RearmInsideCallbackKeepsOneStream(t *testing.T) {
	m := NewManual()
	calls := 0
	var timer Timer
	var fn func()
	fn = func() {
		calls++
		timer.Stop()
		timer = m.Every(10*time.Millisecond, fn)
	}
	timer = m.Every(10*time.Millisecond, fn)

	m.Advance(50 * time.Millisecond)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 1, m.Active())
}

func TestManual_Step(t *testing.T) {
	m := NewManual()
	var order []string
	m.Every(30*time.Millisecond, func() { order = append(order, "slow") })
	m.Every(20*time.Millisecond, func() { order = append(order, "fast") })

	require.True(t, m.Step())
	assert.Equal(t, 20*time.Millisecond, m.Elapsed())
	require.True(t, m.Step())
	assert.Equal(t, 30*time.Millisecond, m.Elapsed())
	assert.Equal(t, []string{"fast", "slow"}, order)
}

func TestManual_ClampsInterval(t *testing.T) {
	m := NewManual()
	calls := 0
	m.Every(0, func() { calls++ })
	m.Advance(5 * time.Millisecond)
	assert.Equal(t, 5, calls)
}

// queue collects posted callbacks so the test decides when they run, like
// an event loop would.
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fns = append(q.fns, fn)
}

func (q *queue) drain() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

func TestTicker_PostsTicks(t *testing.T) {
	q := &queue{}
	c := NewTicker(q.post)
	calls := 0
	timer := c.Every(5*time.Millisecond, func() { calls++ })
	defer timer.Stop()

	require.Eventually(t, func() bool { return q.len() >= 2 }, time.Second, time.Millisecond)
	q.drain()
	assert.GreaterOrEqual(t, calls, 2)
}

func TestTicker_QueuedTickDoesNotRunAfterStop(t *testing.T) {
	q := &queue{}
	c := NewTicker(q.post)
	calls := 0
	timer := c.Every(time.Millisecond, func() { calls++ })

	require.Eventually(t, func() bool { return q.len() >= 1 }, time.Second, time.Millisecond)
	timer.Stop()
	timer.Stop()

	q.drain()
	assert.Equal(t, 0, calls)
}
