package main

import (
	"fmt"
	"os"
	"time"

	"github.com/idlewatch/idlewatch/pkg/config"
	"github.com/idlewatch/idlewatch/pkg/idletimer"
	"github.com/idlewatch/idlewatch/pkg/interfaces"
	"github.com/idlewatch/idlewatch/pkg/lifecycle"
	"github.com/idlewatch/idlewatch/pkg/monitor"
	"github.com/idlewatch/idlewatch/pkg/notification"
	"github.com/idlewatch/idlewatch/pkg/process"
	"github.com/idlewatch/idlewatch/pkg/status"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config              *config.Config
	Timer               *idletimer.Timer
	ActivityMonitor     *monitor.ActivityMonitor
	LifecycleWatcher    *lifecycle.Watcher
	Notifier            notification.Notifier
	RateLimiter         interfaces.RateLimiter
	NotificationManager *notification.Manager
	ProcessManager      *process.Manager
	StatusLine          *status.Line
	StatusReporter      *status.Reporter

	events chan notification.Notification
	done   chan struct{}
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		events: make(chan notification.Notification, 16),
		done:   make(chan struct{}),
	}

	// Idle timer. Its callbacks run inside timer operations, so they only
	// enqueue; the notify loop does the actual sending.
	timer, err := idletimer.New(idletimer.Options{
		Timeout: cfg.Timeout,
		OnIdle: func() {
			deps.enqueue(notification.Notification{
				Title:   "idlewatch: idle",
				Message: fmt.Sprintf("No activity for %v", cfg.Timeout),
				Time:    time.Now(),
				Kind:    notification.KindIdle,
			})
		},
		OnActive: func() {
			deps.enqueue(notification.Notification{
				Title:   "idlewatch: active again",
				Message: "Activity resumed after idling",
				Time:    time.Now(),
				Kind:    notification.KindActive,
			})
		},
		OnAction: func() {
			// Repaint off the timer's path so the countdown reset shows
			// up immediately instead of on the next tick.
			go deps.StatusLine.Redraw()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create idle timer: %w", err)
	}
	deps.Timer = timer

	// Status line polls the timer on its own ticker; it never hooks the
	// timer's transitions directly.
	statusEnabled := isatty(os.Stderr.Fd()) && cfg.StatusLine
	deps.StatusLine = status.NewLine(os.Stderr, timer)
	deps.StatusLine.SetEnabled(statusEnabled)
	deps.StatusReporter = status.NewReporter(deps.StatusLine)
	if statusEnabled {
		deps.StatusLine.StartAutoRefresh()
	}

	// Notification components
	deps.ActivityMonitor = monitor.NewActivityMonitor(timer, cfg.RespectKeyboard)
	terminalInfo := deps.ActivityMonitor.TerminalState().GetTitle
	deps.Notifier = notification.NewContextNotifier(
		notification.NewNtfyClient(cfg.NtfyServer, cfg.NtfyTopic), terminalInfo)
	deps.RateLimiter = notification.NewTokenBucketRateLimiter(cfg.RateLimit.MaxMessages, cfg.RateLimit.Window)
	deps.NotificationManager = notification.NewManager(cfg, deps.Notifier, deps.RateLimiter)
	deps.NotificationManager.SetStatusReporter(deps.StatusReporter)

	// Screen events go both to the monitor's terminal state tracking and
	// to the status line so clears trigger a repaint.
	if statusEnabled {
		deps.ActivityMonitor.SetScreenEventHandler(&screenEventFanout{
			handlers: []interfaces.ScreenEventHandler{deps.ActivityMonitor, deps.StatusLine},
		})
	}

	// Host suspension. SIGTSTP snapshots the timer before the process
	// stops; SIGCONT compensates for the time spent stopped.
	deps.LifecycleWatcher = lifecycle.NewWatcher(timer, nil)
	deps.LifecycleWatcher.Start()

	// Process manager taps both directions of the pty
	deps.ProcessManager = process.NewManager(cfg, deps.ActivityMonitor, deps.ActivityMonitor)

	go deps.notifyLoop()

	return deps, nil
}

// enqueue hands a notification to the notify loop without blocking timer
// operations. The buffer covers any realistic burst of edge transitions.
func (d *Dependencies) enqueue(n notification.Notification) {
	select {
	case d.events <- n:
	default:
		if os.Getenv("IDLEWATCH_DEBUG") == "1" {
			fmt.Fprintf(os.Stderr, "idlewatch: dropped %s notification, queue full\n", n.Kind)
		}
	}
}

// notifyLoop delivers queued notifications in order.
func (d *Dependencies) notifyLoop() {
	for {
		select {
		case n := <-d.events:
			_ = d.NotificationManager.Send(n)
		case <-d.done:
			// Drain anything enqueued before shutdown.
			for {
				select {
				case n := <-d.events:
					_ = d.NotificationManager.Send(n)
				default:
					return
				}
			}
		}
	}
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.LifecycleWatcher != nil {
		d.LifecycleWatcher.Stop()
	}

	if d.Timer != nil {
		d.Timer.Stop()
	}

	select {
	case <-d.done:
	default:
		close(d.done)
	}

	if d.StatusLine != nil {
		d.StatusLine.Stop()
	}

	if d.NotificationManager != nil {
		_ = d.NotificationManager.Close()
	}
}

// screenEventFanout forwards screen events to multiple handlers.
type screenEventFanout struct {
	handlers []interfaces.ScreenEventHandler
}

func (f *screenEventFanout) HandleScreenClear() {
	for _, h := range f.handlers {
		h.HandleScreenClear()
	}
}

func (f *screenEventFanout) HandleTitleChange(title string) {
	for _, h := range f.handlers {
		h.HandleTitleChange(title)
	}
}

func (f *screenEventFanout) HandleFocusIn() {
	for _, h := range f.handlers {
		h.HandleFocusIn()
	}
}

func (f *screenEventFanout) HandleFocusOut() {
	for _, h := range f.handlers {
		h.HandleFocusOut()
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run starts the application with the given command and arguments
func (a *Application) Run(command string, args []string) error {
	if a.deps.Config.StartupNotify && !a.deps.Config.Quiet && a.deps.NotificationManager != nil {
		pwd, _ := os.Getwd()
		startupNotification := notification.Notification{
			Title:   "idlewatch: session started",
			Message: fmt.Sprintf("Watching %s in %s", command, pwd),
			Time:    time.Now(),
			Kind:    notification.KindStartup,
		}
		_ = a.deps.NotificationManager.Send(startupNotification)
	}

	if err := a.deps.ProcessManager.Start(command, args); err != nil {
		return err
	}

	return a.deps.ProcessManager.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop() error {
	return a.deps.ProcessManager.Stop()
}

// ExitCode returns the exit code of the wrapped process
func (a *Application) ExitCode() int {
	return a.deps.ProcessManager.ExitCode()
}
