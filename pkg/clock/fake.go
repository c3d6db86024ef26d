package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance or Set is called.
// Due callbacks run synchronously on the advancing goroutine, in deadline
// order, before Advance returns.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

// Fake returns a FakeClock starting at an arbitrary fixed time.
func Fake() *FakeClock {
	return &FakeClock{
		now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run when the fake clock reaches now+d.
// If d <= 0, f runs on the next Advance call, not immediately.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{
		clock:    c,
		deadline: c.now.Add(d),
		f:        f,
	}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the fake time forward by d, firing due callbacks in
// deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked(c.now.Add(d))
}

// Set moves the fake time to t, firing due callbacks in deadline order.
// Moving time backward is not supported.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked(t)
}

// advanceLocked expects c.mu held and returns with it held. It releases the
// lock around each callback so callbacks can schedule or stop timers. Time
// steps to each due deadline in order before its callback runs, so a
// callback scheduling a relative timer sees the time it fired at, not the
// advance target.
func (c *FakeClock) advanceLocked(t time.Time) {
	for {
		var next *fakeTimer
		for _, pt := range c.pending {
			if pt.stopped || pt.fired || pt.deadline.After(t) {
				continue
			}
			if next == nil || pt.deadline.Before(next.deadline) {
				next = pt
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}

		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}

	if t.After(c.now) {
		c.now = t
	}
	c.compact()
}

// PendingCount reports how many callbacks are scheduled and not yet fired
// or stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (c *FakeClock) compact() {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.pending = live
	sort.SliceStable(c.pending, func(i, j int) bool {
		return c.pending[i].deadline.Before(c.pending[j].deadline)
	})
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
