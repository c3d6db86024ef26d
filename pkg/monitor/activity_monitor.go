// Package monitor translates raw terminal traffic into activity reports
// for the idle timer.
package monitor

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/idlewatch/idlewatch/pkg/interfaces"
)

// Source identifies where an activity event originated.
type Source int

const (
	// SourceOutput is data written by the wrapped process.
	SourceOutput Source = iota
	// SourceKeyboard is data typed by the user.
	SourceKeyboard
	// SourceProgrammatic is an explicit reset requested by code.
	SourceProgrammatic
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceOutput:
		return "output"
	case SourceKeyboard:
		return "keyboard"
	case SourceProgrammatic:
		return "programmatic"
	default:
		return "unknown"
	}
}

// Event is a single activity occurrence.
type Event struct {
	Source Source
	Time   time.Time
}

// ActivityMonitor forwards terminal activity to the idle timer. Keyboard
// suppression happens here so the timer's contract stays uniform: a
// programmatic Reset is never filtered.
type ActivityMonitor struct {
	sink            interfaces.ActivitySink
	respectKeyboard bool

	mu            sync.Mutex
	lastEventTime time.Time

	// Terminal sequence detection. Output and input get separate
	// detectors so a sequence split across chunks on one stream cannot
	// be completed by bytes from the other.
	outputDetector     interfaces.TerminalSequenceDetector
	inputDetector      interfaces.TerminalSequenceDetector
	screenEventHandler interfaces.ScreenEventHandler
	terminalState      *TerminalState
}

// NewActivityMonitor creates a new activity monitor feeding sink.
func NewActivityMonitor(sink interfaces.ActivitySink, respectKeyboard bool) *ActivityMonitor {
	am := &ActivityMonitor{
		sink:            sink,
		respectKeyboard: respectKeyboard,
		lastEventTime:   time.Now(),
		outputDetector:  NewTerminalSequenceDetector(),
		inputDetector:   NewTerminalSequenceDetector(),
		terminalState:   NewTerminalState(),
	}
	// Default to self so title/focus state is tracked even without an
	// external handler.
	am.screenEventHandler = am
	return am
}

// SetScreenEventHandler sets the handler for screen events.
func (am *ActivityMonitor) SetScreenEventHandler(handler interfaces.ScreenEventHandler) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.screenEventHandler = handler
}

// TerminalState returns the tracked terminal state.
func (am *ActivityMonitor) TerminalState() *TerminalState {
	return am.terminalState
}

// HandleData processes raw output data from the wrapped process.
func (am *ActivityMonitor) HandleData(data []byte) {
	am.mu.Lock()
	detector := am.outputDetector
	handler := am.screenEventHandler
	am.mu.Unlock()

	if detector != nil && handler != nil {
		detector.DetectSequences(data, handler)
	}

	am.Report(Event{Source: SourceOutput, Time: time.Now()})
}

// HandleLine processes a single line of output.
func (am *ActivityMonitor) HandleLine(line string) {
	am.Report(Event{Source: SourceOutput, Time: time.Now()})
}

// HandleInput processes raw data arriving on stdin. Focus reports from the
// outer terminal share the stream with keystrokes; they are terminal
// state, not typing, and count as activity only if actual input remains
// after stripping them.
func (am *ActivityMonitor) HandleInput(data []byte) {
	if len(data) == 0 {
		return
	}

	am.mu.Lock()
	detector := am.inputDetector
	handler := am.screenEventHandler
	am.mu.Unlock()

	if detector != nil && handler != nil {
		detector.DetectSequences(data, handler)
	}

	if len(stripFocusSequences(data)) == 0 {
		return
	}
	am.Report(Event{Source: SourceKeyboard, Time: time.Now()})
}

// Report forwards one activity event to the sink, applying keyboard
// suppression.
func (am *ActivityMonitor) Report(event Event) {
	if am.respectKeyboard && event.Source == SourceKeyboard {
		if os.Getenv("IDLEWATCH_DEBUG") == "1" {
			fmt.Fprintf(os.Stderr, "idlewatch: suppressed keyboard activity\n")
		}
		return
	}

	am.mu.Lock()
	am.lastEventTime = event.Time
	am.mu.Unlock()

	if am.sink == nil {
		return
	}
	if event.Source == SourceProgrammatic {
		am.sink.Reset()
		return
	}
	am.sink.NotifyActivity()
}

// LastEventTime returns the time of the last unsuppressed activity event.
func (am *ActivityMonitor) LastEventTime() time.Time {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.lastEventTime
}

// HandleScreenClear implements interfaces.ScreenEventHandler.
func (am *ActivityMonitor) HandleScreenClear() {}

// HandleTitleChange implements interfaces.ScreenEventHandler.
func (am *ActivityMonitor) HandleTitleChange(title string) {
	am.terminalState.SetTitle(title)
}

// HandleFocusIn implements interfaces.ScreenEventHandler.
func (am *ActivityMonitor) HandleFocusIn() {
	am.terminalState.SetFocused(true)
}

// HandleFocusOut implements interfaces.ScreenEventHandler.
func (am *ActivityMonitor) HandleFocusOut() {
	am.terminalState.SetFocused(false)
}

var _ interfaces.DataHandler = (*ActivityMonitor)(nil)
var _ interfaces.InputHandler = (*ActivityMonitor)(nil)
var _ interfaces.ScreenEventHandler = (*ActivityMonitor)(nil)
