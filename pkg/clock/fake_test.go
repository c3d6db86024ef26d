package clock

import (
	"testing"
	"time"
)

func TestFakeClock_AdvanceFiresDueCallbacks(t *testing.T) {
	c := Fake()

	var fired []string
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "b") })
	c.AfterFunc(50*time.Millisecond, func() { fired = append(fired, "a") })
	c.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "c") })

	c.Advance(150 * time.Millisecond)

	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Errorf("expected [a b], got %v", fired)
	}

	c.Advance(100 * time.Millisecond)
	if len(fired) != 3 || fired[2] != "c" {
		t.Errorf("expected [a b c], got %v", fired)
	}
}

func TestFakeClock_StopPreventsFiring(t *testing.T) {
	c := Fake()

	fired := false
	timer := c.AfterFunc(50*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop should return true for a pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop should return false")
	}

	c.Advance(100 * time.Millisecond)
	if fired {
		t.Error("stopped timer should not fire")
	}
}

func TestFakeClock_StopAfterFire(t *testing.T) {
	c := Fake()

	timer := c.AfterFunc(10*time.Millisecond, func() {})
	c.Advance(20 * time.Millisecond)

	if timer.Stop() {
		t.Error("Stop after firing should return false")
	}
}

func TestFakeClock_CallbackCanScheduleTimer(t *testing.T) {
	c := Fake()

	var second bool
	c.AfterFunc(10*time.Millisecond, func() {
		c.AfterFunc(10*time.Millisecond, func() { second = true })
	})

	// Both deadlines fall within a single advance; the chained callback
	// fires in the same pass.
	c.Advance(30 * time.Millisecond)
	if !second {
		t.Error("chained callback should fire within the same advance")
	}
}

func TestFakeClock_NowAdvances(t *testing.T) {
	c := Fake()
	start := c.Now()

	c.Advance(time.Second)

	if got := c.Now().Sub(start); got != time.Second {
		t.Errorf("expected 1s elapsed, got %v", got)
	}
}

func TestFakeClock_PendingCount(t *testing.T) {
	c := Fake()

	t1 := c.AfterFunc(10*time.Millisecond, func() {})
	c.AfterFunc(50*time.Millisecond, func() {})

	if got := c.PendingCount(); got != 2 {
		t.Errorf("expected 2 pending, got %d", got)
	}

	t1.Stop()
	if got := c.PendingCount(); got != 1 {
		t.Errorf("expected 1 pending after stop, got %d", got)
	}

	c.Advance(time.Minute)
	if got := c.PendingCount(); got != 0 {
		t.Errorf("expected 0 pending after advance, got %d", got)
	}
}
