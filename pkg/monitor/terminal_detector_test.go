package monitor

import "testing"

// recordingHandler captures screen events for testing.
type recordingHandler struct {
	clears   int
	titles   []string
	focusIn  int
	focusOut int
}

func (h *recordingHandler) HandleScreenClear()             { h.clears++ }
func (h *recordingHandler) HandleTitleChange(title string) { h.titles = append(h.titles, title) }
func (h *recordingHandler) HandleFocusIn()                 { h.focusIn++ }
func (h *recordingHandler) HandleFocusOut()                { h.focusOut++ }

func TestTerminalSequenceDetector_ScreenClear(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"clear screen", "\033[2J"},
		{"clear with scrollback", "\033[3J"},
		{"cursor home", "\033[H"},
		{"terminal reset", "\033c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &recordingHandler{}
			detector := NewTerminalSequenceDetector()
			detector.DetectSequences([]byte("before "+tt.data+" after"), handler)
			if handler.clears != 1 {
				t.Errorf("clears = %d, want 1", handler.clears)
			}
		})
	}
}

func TestTerminalSequenceDetector_FocusEvents(t *testing.T) {
	handler := &recordingHandler{}
	detector := NewTerminalSequenceDetector()

	detector.DetectSequences([]byte("\033[I"), handler)
	if handler.focusIn != 1 || handler.focusOut != 0 {
		t.Errorf("focusIn=%d focusOut=%d, want 1 and 0", handler.focusIn, handler.focusOut)
	}

	// Both events in one chunk: only the most recent state is delivered.
	handler = &recordingHandler{}
	detector = NewTerminalSequenceDetector()
	detector.DetectSequences([]byte("\033[I...\033[O"), handler)
	if handler.focusIn != 0 || handler.focusOut != 1 {
		t.Errorf("focusIn=%d focusOut=%d, want 0 and 1", handler.focusIn, handler.focusOut)
	}
}

func TestTerminalSequenceDetector_TitleChange(t *testing.T) {
	handler := &recordingHandler{}
	detector := NewTerminalSequenceDetector()

	detector.DetectSequences([]byte("\033]0;hello world\007"), handler)

	if len(handler.titles) != 1 || handler.titles[0] != "hello world" {
		t.Errorf("titles = %v, want [hello world]", handler.titles)
	}
}

func TestTerminalSequenceDetector_TitleSplitAcrossChunks(t *testing.T) {
	handler := &recordingHandler{}
	detector := NewTerminalSequenceDetector()

	detector.DetectSequences([]byte("\033]2;par"), handler)
	if len(handler.titles) != 0 {
		t.Fatalf("incomplete title delivered: %v", handler.titles)
	}

	detector.DetectSequences([]byte("tial title\007"), handler)
	if len(handler.titles) != 1 || handler.titles[0] != "partial title" {
		t.Errorf("titles = %v, want [partial title]", handler.titles)
	}
}

func TestTerminalSequenceDetector_NilHandler(t *testing.T) {
	detector := NewTerminalSequenceDetector()
	// Must not panic.
	detector.DetectSequences([]byte("\033[2J"), nil)
}
