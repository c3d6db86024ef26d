// Package clock abstracts wall-clock time and deferred callbacks so that
// timer behavior can be tested deterministically.
package clock

import "time"

// Clock supplies the current time and a cancelable deferred-callback
// primitive. Production code uses Real(); tests use Fake().
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for duration d, then calls f in its own goroutine.
	// The returned Timer cancels the pending call with Stop.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending deferred callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was already stopped. Cancellation is
	// best-effort: a callback may already be in flight when Stop returns.
	Stop() bool
}

// realClock delegates to the time package.
type realClock struct{}

// Real returns a Clock backed by the system clock.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{timer: time.AfterFunc(d, f)}
}

type realTimer struct {
	timer *time.Timer
}

func (t realTimer) Stop() bool {
	return t.timer.Stop()
}
