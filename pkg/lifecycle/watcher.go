// Package lifecycle feeds host suspend/resume transitions into the idle
// timer. On Unix the suspension analog is shell job control: SIGTSTP stops
// the process and SIGCONT revives it, and no scheduled callback can be
// trusted to fire in between.
package lifecycle

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/idlewatch/idlewatch/pkg/clock"
	"github.com/idlewatch/idlewatch/pkg/interfaces"
)

// Watcher listens for SIGTSTP/SIGCONT and translates them into Suspend and
// ResumeFromSuspension calls with the observed timestamps.
type Watcher struct {
	sink interfaces.LifecycleSink
	clk  clock.Clock

	mu       sync.Mutex
	sigChan  chan os.Signal
	stopChan chan struct{}
	running  bool

	// raiseStop actually stops the process after the suspend bookkeeping.
	// Injectable for tests.
	raiseStop func() error
}

// NewWatcher creates a lifecycle watcher feeding sink. A nil clk defaults
// to the real clock.
func NewWatcher(sink interfaces.LifecycleSink, clk clock.Clock) *Watcher {
	if clk == nil {
		clk = clock.Real()
	}
	return &Watcher{
		sink: sink,
		clk:  clk,
		raiseStop: func() error {
			return syscall.Kill(os.Getpid(), syscall.SIGSTOP)
		},
	}
}

// Start registers the signal handlers and launches the watch loop.
// Idempotent.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.sigChan = make(chan os.Signal, 2)
	w.stopChan = make(chan struct{})
	signal.Notify(w.sigChan, syscall.SIGTSTP, syscall.SIGCONT)

	go w.run(w.sigChan, w.stopChan)
}

// Stop unregisters the signal handlers and stops the watch loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	signal.Stop(w.sigChan)
	close(w.stopChan)
}

func (w *Watcher) run(sigChan <-chan os.Signal, stopChan <-chan struct{}) {
	for {
		select {
		case sig := <-sigChan:
			w.handleSignal(sig)
		case <-stopChan:
			return
		}
	}
}

// handleSignal processes one job-control signal. SIGTSTP records the
// suspension before the process actually stops; SIGCONT reconciles the
// elapsed time once it is running again.
func (w *Watcher) handleSignal(sig os.Signal) {
	switch sig {
	case syscall.SIGTSTP:
		w.sink.Suspend(w.clk.Now())
		if err := w.raiseStop(); err != nil {
			fmt.Fprintf(os.Stderr, "idlewatch: failed to stop process: %v\n", err)
		}
	case syscall.SIGCONT:
		w.sink.ResumeFromSuspension(w.clk.Now())
	}
}
