package monitor

import (
	"sync"
	"testing"
	"time"
)

// recordingSink counts activity calls for testing.
type recordingSink struct {
	mu       sync.Mutex
	notifies int
	resets   int
}

func (s *recordingSink) NotifyActivity() {
	s.mu.Lock()
	s.notifies++
	s.mu.Unlock()
}

func (s *recordingSink) Reset() {
	s.mu.Lock()
	s.resets++
	s.mu.Unlock()
}

func (s *recordingSink) counts() (notifies, resets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifies, s.resets
}

func TestActivityMonitor_OutputReportsActivity(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, false)

	am.HandleData([]byte("some output\n"))
	am.HandleLine("another line")

	if notifies, _ := sink.counts(); notifies != 2 {
		t.Errorf("expected 2 notifications, got %d", notifies)
	}
}

func TestActivityMonitor_KeyboardReportsActivity(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, false)

	am.HandleInput([]byte("x"))

	if notifies, _ := sink.counts(); notifies != 1 {
		t.Errorf("expected 1 notification, got %d", notifies)
	}
}

func TestActivityMonitor_RespectKeyboardSuppressesOnlyKeyboard(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, true)

	am.HandleInput([]byte("x"))
	am.HandleData([]byte("output"))
	am.Report(Event{Source: SourceProgrammatic, Time: time.Now()})

	notifies, resets := sink.counts()
	if notifies != 1 {
		t.Errorf("expected 1 notification (output only), got %d", notifies)
	}
	if resets != 1 {
		t.Errorf("expected 1 reset (programmatic is never filtered), got %d", resets)
	}
}

func TestActivityMonitor_EmptyInputIgnored(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, false)

	am.HandleInput(nil)
	am.HandleInput([]byte{})

	if notifies, _ := sink.counts(); notifies != 0 {
		t.Errorf("expected 0 notifications for empty input, got %d", notifies)
	}
}

func TestActivityMonitor_TracksTitleAndFocus(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, false)

	am.HandleData([]byte("\033]0;my session\007regular output"))
	if got := am.TerminalState().GetTitle(); got != "my session" {
		t.Errorf("title = %q, want %q", got, "my session")
	}

	am.HandleData([]byte("\033[O"))
	if am.TerminalState().IsFocused() {
		t.Error("focus-out sequence should mark terminal unfocused")
	}

	am.HandleData([]byte("\033[I"))
	if !am.TerminalState().IsFocused() {
		t.Error("focus-in sequence should mark terminal focused")
	}
}

func TestActivityMonitor_FocusReportOnStdinIsNotTyping(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, false)

	am.HandleInput([]byte("\033[O"))

	if notifies, _ := sink.counts(); notifies != 0 {
		t.Errorf("focus report alone counted as activity: %d", notifies)
	}
	if am.TerminalState().IsFocused() {
		t.Error("focus-out on stdin should update terminal state")
	}

	// Focus report mixed with real typing still counts.
	am.HandleInput([]byte("\033[Ix"))
	if notifies, _ := sink.counts(); notifies != 1 {
		t.Errorf("typing alongside a focus report should count, got %d", notifies)
	}
}

func TestActivityMonitor_LastEventTimeAdvances(t *testing.T) {
	sink := &recordingSink{}
	am := NewActivityMonitor(sink, false)

	before := am.LastEventTime()
	at := before.Add(time.Minute)
	am.Report(Event{Source: SourceOutput, Time: at})

	if got := am.LastEventTime(); !got.Equal(at) {
		t.Errorf("LastEventTime = %v, want %v", got, at)
	}
}
