package monitor

import "sync"

// TerminalState tracks what we know about the hosting terminal: its title
// and whether it currently has focus.
type TerminalState struct {
	mu               sync.Mutex
	title            string
	focused          bool
	focusReportingOn bool
}

// NewTerminalState creates a TerminalState. Focus defaults to true since
// the wrapper was presumably launched in a focused terminal.
func NewTerminalState() *TerminalState {
	return &TerminalState{focused: true}
}

// GetTitle returns the last observed terminal title.
func (ts *TerminalState) GetTitle() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.title
}

// SetTitle records a terminal title change.
func (ts *TerminalState) SetTitle(title string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.title = title
}

// IsFocused reports whether the terminal has focus.
func (ts *TerminalState) IsFocused() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.focused
}

// SetFocused records a focus change.
func (ts *TerminalState) SetFocused(focused bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.focused = focused
}

// IsFocusReportingEnabled reports whether focus events are being delivered.
func (ts *TerminalState) IsFocusReportingEnabled() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.focusReportingOn
}

// SetFocusReportingEnabled records whether focus reporting was enabled.
func (ts *TerminalState) SetFocusReportingEnabled(enabled bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.focusReportingOn = enabled
}
