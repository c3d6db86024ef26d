// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import "time"

// ActivitySink consumes activity reports on behalf of the idle timer.
type ActivitySink interface {
	NotifyActivity()
	Reset()
}

// LifecycleSink consumes host suspend/resume transitions.
type LifecycleSink interface {
	Suspend(at time.Time)
	ResumeFromSuspension(at time.Time)
}

// IdleReader exposes the timer's read accessors to consumers that poll,
// such as a countdown display.
type IdleReader interface {
	Remaining() time.Duration
	IsIdle() bool
	IsPaused() bool
}

// ProcessWrapper wraps and monitors a process.
type ProcessWrapper interface {
	Start(command string, args []string) error
	Wait() error
	ExitCode() int
}

// OutputHandler processes output lines.
type OutputHandler interface {
	HandleLine(line string)
}

// DataHandler processes raw output data.
type DataHandler interface {
	OutputHandler
	HandleData(data []byte)
}

// InputHandler processes raw user input data.
type InputHandler interface {
	HandleInput(data []byte)
}

// RateLimiter limits notification frequency.
type RateLimiter interface {
	Allow() bool
	Reset()
}

// StatusReporter reports notification delivery status.
type StatusReporter interface {
	ReportSending()
	ReportSuccess()
	ReportFailure()
}

// ScreenEventHandler handles terminal screen events.
type ScreenEventHandler interface {
	// HandleScreenClear is called when a screen clear sequence is detected
	HandleScreenClear()
	// HandleTitleChange is called when a terminal title change is detected
	HandleTitleChange(title string)
	// HandleFocusIn is called when terminal gains focus
	HandleFocusIn()
	// HandleFocusOut is called when terminal loses focus
	HandleFocusOut()
}

// TerminalSequenceDetector detects terminal escape sequences in output.
type TerminalSequenceDetector interface {
	DetectSequences(data []byte, handler ScreenEventHandler)
}
