// Package idletimer implements an edge-triggered inactivity timer.
//
// The timer owns a single deadline. Activity pushes the deadline out; when
// the deadline passes with no intervening activity the timer transitions to
// idle and notifies once. Pause freezes the remaining budget exactly;
// suspension (the host process losing its ability to run scheduled
// callbacks, e.g. SIGTSTP) is compensated by replaying elapsed wall-clock
// time on resume.
package idletimer

import (
	"errors"
	"sync"
	"time"

	"github.com/idlewatch/idlewatch/pkg/clock"
)

// ErrNonPositiveTimeout is returned by New when Options.Timeout is zero or
// negative.
var ErrNonPositiveTimeout = errors.New("idletimer: timeout must be positive")

// State is the visible activity state of the timer.
type State int

const (
	// StateActive means activity occurred within the timeout window.
	StateActive State = iota
	// StateIdle means the timeout elapsed with no activity.
	StateIdle
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Options configures a Timer. Timeout is required; everything else is
// optional.
type Options struct {
	// Timeout is the inactivity duration after which the timer goes idle.
	// Must be positive.
	Timeout time.Duration

	// OnIdle fires exactly once per Active -> Idle transition.
	OnIdle func()

	// OnActive fires exactly once per Idle -> Active transition.
	OnActive func()

	// OnAction fires on every activity notification while not paused and
	// not suspended.
	OnAction func()

	// Clock defaults to clock.Real().
	Clock clock.Clock
}

// suspension snapshots the remaining budget at the moment the host process
// stopped running scheduled callbacks.
type suspension struct {
	at        time.Time
	remaining time.Duration
}

// Timer is the idle-detection state machine. All methods are safe for
// concurrent use; operations are serialized, so no two of them (including
// the deadline callback) overlap for one Timer.
//
// Callbacks run synchronously inside the operation that triggered them and
// must not call back into the Timer or perform long-running work.
type Timer struct {
	mu sync.Mutex

	clk      clock.Clock
	timeout  time.Duration
	onIdle   func()
	onActive func()
	onAction func()

	state    State
	paused   bool
	deadline time.Time
	frozen   time.Duration // remaining budget while paused
	snapshot *suspension   // non-nil only while suspended

	// generation tags the pending deadline callback. Cancellation of a
	// scheduled callback is best-effort, so a late fire carrying a stale
	// generation must be ignored rather than trusted.
	generation uint64
	pending    clock.Timer

	stopped bool
}

// New creates a Timer in the active state with a freshly scheduled deadline
// of now + Timeout.
func New(opts Options) (*Timer, error) {
	if opts.Timeout <= 0 {
		return nil, ErrNonPositiveTimeout
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	t := &Timer{
		clk:      clk,
		timeout:  opts.Timeout,
		onIdle:   opts.OnIdle,
		onActive: opts.OnActive,
		onAction: opts.OnAction,
		state:    StateActive,
	}

	t.mu.Lock()
	t.scheduleLocked(t.timeout)
	t.mu.Unlock()

	return t, nil
}

// NotifyActivity reports that user activity occurred. It reschedules the
// deadline to now + timeout and, if the timer was idle, transitions back to
// active. While paused or suspended it is a no-op: activity does not
// un-pause, and a frozen budget must not move.
func (t *Timer) NotifyActivity() {
	t.activity()
}

// Reset behaves exactly like NotifyActivity. It exists as the programmatic
// entry point: source-based filtering (keyboard suppression and the like)
// applies to reported activity upstream, never to an explicit reset.
func (t *Timer) Reset() {
	t.activity()
}

func (t *Timer) activity() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.paused || t.snapshot != nil {
		return
	}

	t.cancelLocked()
	wasIdle := t.state == StateIdle
	t.state = StateActive
	t.scheduleLocked(t.timeout)

	if wasIdle && t.onActive != nil {
		t.onActive()
	}
	if t.onAction != nil {
		t.onAction()
	}
}

// Pause freezes the remaining budget. Idempotent; fires no notification and
// does not change the active/idle state.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.paused {
		return
	}

	t.frozen = t.remainingLocked()
	t.cancelLocked()
	t.paused = true
}

// Resume undoes Pause, restoring exactly the budget that was frozen. A
// Resume while not paused is a no-op.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || !t.paused {
		return
	}
	t.paused = false

	if t.snapshot != nil {
		// Still suspended: restart suspension accounting with the frozen
		// budget. Scheduling stays inert until the lifecycle resume.
		t.snapshot = &suspension{at: t.clk.Now(), remaining: t.frozen}
		return
	}

	if t.state == StateIdle {
		return
	}
	if t.frozen <= 0 {
		t.becomeIdleLocked()
		return
	}
	t.scheduleLocked(t.frozen)
}

// Suspend records that the host process is about to stop running scheduled
// callbacks. The live deadline callback is canceled and the remaining
// budget snapshotted; active/idle and paused states are untouched. A
// duplicate Suspend while already suspended is ignored.
func (t *Timer) Suspend(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.snapshot != nil {
		return
	}

	var remaining time.Duration
	switch {
	case t.state == StateIdle:
		remaining = 0
	case t.paused:
		remaining = t.frozen
	default:
		remaining = t.deadline.Sub(at)
		if remaining < 0 {
			remaining = 0
		}
	}

	t.cancelLocked()
	t.snapshot = &suspension{at: at, remaining: remaining}
}

// ResumeFromSuspension reconciles elapsed wall-clock time after the host
// process is live again. If the suspension outlasted the remaining budget
// the timer goes idle immediately, firing OnIdle on the edge; otherwise the
// deadline is rescheduled for what is left. A resume with no matching
// suspension is silently ignored.
func (t *Timer) ResumeFromSuspension(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.snapshot == nil {
		return
	}
	snap := t.snapshot
	t.snapshot = nil

	if t.paused {
		// Pause froze the budget before (or during) the suspension;
		// background time must not consume paused time.
		return
	}
	if t.state == StateIdle {
		return
	}

	remaining := snap.remaining - at.Sub(snap.at)
	if remaining <= 0 {
		t.becomeIdleLocked()
		return
	}
	t.scheduleLocked(remaining)
}

// Remaining returns the time left before the timer goes idle. It is zero
// while idle, frozen while paused, compensated while suspended, and never
// negative.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked()
}

// IsIdle reports whether the timer is currently idle.
func (t *Timer) IsIdle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateIdle
}

// IsPaused reports whether the timer is currently paused.
func (t *Timer) IsPaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// State returns the current visible state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop tears the timer down, canceling any pending deadline callback. The
// Timer must not be used after Stop.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.cancelLocked()
	t.generation++
}

// expire is the deadline callback. gen identifies the schedule that created
// it; a stale generation means the deadline was superseded by a reschedule
// and this fire must be ignored.
func (t *Timer) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || gen != t.generation {
		return
	}
	t.pending = nil

	if t.paused || t.snapshot != nil {
		return
	}
	if t.state != StateActive {
		return
	}
	t.becomeIdleLocked()
}

func (t *Timer) becomeIdleLocked() {
	wasActive := t.state == StateActive
	t.state = StateIdle
	if wasActive && t.onIdle != nil {
		t.onIdle()
	}
}

func (t *Timer) scheduleLocked(d time.Duration) {
	t.generation++
	gen := t.generation
	t.deadline = t.clk.Now().Add(d)
	t.pending = t.clk.AfterFunc(d, func() {
		t.expire(gen)
	})
}

func (t *Timer) cancelLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	// Bump the generation so a fire already in flight is stale.
	t.generation++
}

func (t *Timer) remainingLocked() time.Duration {
	switch {
	case t.state == StateIdle:
		return 0
	case t.paused:
		if t.frozen < 0 {
			return 0
		}
		return t.frozen
	case t.snapshot != nil:
		remaining := t.snapshot.remaining - t.clk.Now().Sub(t.snapshot.at)
		if remaining < 0 {
			return 0
		}
		return remaining
	default:
		remaining := t.deadline.Sub(t.clk.Now())
		if remaining < 0 {
			return 0
		}
		return remaining
	}
}
