// Package clock schedules the periodic game tick.
//
// The game never reads the wall clock itself. It asks a Clock for a repeating
// Timer and cancels it when the session pauses or ends, so tests can drive
// ticks by hand with Manual while the frontends use real time.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a cancel handle for a repeating callback.
type Timer interface {
	// Stop cancels the timer. After Stop returns the callback never runs
	// again. Stop is idempotent.
	Stop()
}

// Clock arms repeating callbacks.
type Clock interface {
	Every(interval time.Duration, fn func()) Timer
}

// minInterval guards against zero or negative periods.
const minInterval = time.Millisecond

// Manual is a deterministic clock. Time only moves when Advance is called,
// and due callbacks run on the caller's goroutine in deadline order.
type Manual struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() {
	t.stopped = true
}

func NewManual() *Manual {
	return &Manual{}
}

// Every arms fn to run each interval, first one interval from now.
func (m *Manual) Every(interval time.Duration, fn func()) Timer {
	if interval < minInterval {
		interval = minInterval
	}
	t := &manualTimer{interval: interval, next: m.now + interval, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d and fires every deadline that falls
// inside the window. It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now + d
	fired := 0
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.interval
		t.fn()
		fired++
	}
	m.now = target
	m.compact()
	return fired
}

// Step advances exactly to the earliest pending deadline and fires it.
// It reports false when no timer is armed.
func (m *Manual) Step() bool {
	t := m.nextDue(-1)
	if t == nil {
		return false
	}
	m.Advance(t.next - m.now)
	return true
}

// Elapsed is the total time advanced so far.
func (m *Manual) Elapsed() time.Duration {
	return m.now
}

// Active counts armed timers.
func (m *Manual) Active() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// nextDue returns the armed timer with the earliest deadline not after
// limit. A negative limit means no limit.
func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.stopped || (limit >= 0 && t.next > limit) {
			continue
		}
		if best == nil || t.next < best.next {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}

// Ticker is a real-time clock. Each tick is handed to post, which must queue
// the callback onto the goroutine that owns the game state.
type Ticker struct {
	post func(func())
}

func NewTicker(post func(func())) *Ticker {
	return &Ticker{post: post}
}

type tickerTimer struct {
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		t.ticker.Stop()
		close(t.done)
	})
}

func (c *Ticker) Every(interval time.Duration, fn func()) Timer {
	if interval < minInterval {
		interval = minInterval
	}
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				c.post(func() {
					// A tick queued before Stop must not run after it.
					if !t.stopped.Load() {
						fn()
					}
				})
			}
		}
	}()
	return t
}
