package monitor

import (
	"bytes"

	"github.com/idlewatch/idlewatch/pkg/interfaces"
)

// Common ANSI escape sequences for screen clearing
var screenClearSequences = [][]byte{
	[]byte("\033[2J"), // Clear entire screen
	[]byte("\033[3J"), // Clear entire screen and scrollback
	[]byte("\033[H"),  // Move cursor to home position (often follows clear)
	[]byte("\033[0J"), // Clear from cursor to end of screen
	[]byte("\033[1J"), // Clear from cursor to beginning of screen
	[]byte("\033c"),   // Reset terminal
}

var (
	focusInSequence  = []byte("\033[I")
	focusOutSequence = []byte("\033[O")
)

// TerminalSequenceDetector detects terminal escape sequences in output
type TerminalSequenceDetector struct {
	// Buffer to handle sequences that might be split across data chunks
	buffer []byte
}

// NewTerminalSequenceDetector creates a new terminal sequence detector
func NewTerminalSequenceDetector() interfaces.TerminalSequenceDetector {
	return &TerminalSequenceDetector{
		buffer: make([]byte, 0, 256),
	}
}

// DetectSequences analyzes data for terminal sequences and calls appropriate handlers
func (t *TerminalSequenceDetector) DetectSequences(data []byte, handler interfaces.ScreenEventHandler) {
	if handler == nil {
		return
	}

	// Append new data to buffer
	t.buffer = append(t.buffer, data...)

	// Look for screen clear sequences
	// We only trigger once per detection batch to avoid redundant redraws
	foundClear := false
	for _, seq := range screenClearSequences {
		if bytes.Contains(t.buffer, seq) {
			foundClear = true
			break
		}
	}
	if foundClear {
		handler.HandleScreenClear()
	}

	// Focus reporting events: deliver the last one seen so the handler
	// ends up with the current focus state.
	lastIn := bytes.LastIndex(t.buffer, focusInSequence)
	lastOut := bytes.LastIndex(t.buffer, focusOutSequence)
	switch {
	case lastIn > lastOut:
		handler.HandleFocusIn()
	case lastOut > lastIn:
		handler.HandleFocusOut()
	}

	// Title changes: OSC 0 or OSC 2, terminated by BEL or ST.
	if title, ok := extractTitle(t.buffer); ok {
		handler.HandleTitleChange(title)
	}

	// Retain only a possibly-incomplete trailing sequence so nothing
	// already delivered fires again on the next chunk.
	t.buffer = append(t.buffer[:0], incompleteTail(t.buffer)...)
}

// incompleteTail returns the trailing bytes of buf that may be the start of
// a sequence still waiting for more data, or nil when the buffer ended on a
// complete sequence (or plain text). A runaway unterminated sequence is
// dropped rather than buffered forever.
func incompleteTail(buf []byte) []byte {
	i := bytes.LastIndexByte(buf, 0x1b)
	if i < 0 {
		return nil
	}
	tail := buf[i:]
	if len(tail) > 512 || isCompleteSequence(tail) {
		return nil
	}
	return tail
}

// isCompleteSequence reports whether tail, which starts with ESC, is a
// fully terminated escape sequence.
func isCompleteSequence(tail []byte) bool {
	if len(tail) < 2 {
		return false
	}
	switch tail[1] {
	case '[':
		// CSI ends at the first final byte.
		for _, b := range tail[2:] {
			if b >= 0x40 && b <= 0x7e {
				return true
			}
		}
		return false
	case ']':
		// OSC ends at BEL; an ST terminator contains its own later ESC,
		// so it never reaches this branch.
		return bytes.IndexByte(tail, 0x07) >= 0
	default:
		// Two-byte escapes such as reset (ESC c) or the tail of ST.
		return true
	}
}

// stripFocusSequences removes focus reporting events from data.
func stripFocusSequences(data []byte) []byte {
	result := bytes.ReplaceAll(data, focusInSequence, nil)
	return bytes.ReplaceAll(result, focusOutSequence, nil)
}

// extractTitle finds the last complete terminal title sequence in data.
func extractTitle(data []byte) (string, bool) {
	prefixes := [][]byte{
		[]byte("\033]0;"),
		[]byte("\033]2;"),
	}

	title := ""
	found := false
	for _, prefix := range prefixes {
		search := data
		offset := 0
		for {
			start := bytes.Index(search[offset:], prefix)
			if start < 0 {
				break
			}
			start += offset + len(prefix)

			end := bytes.IndexAny(search[start:], "\007")
			st := bytes.Index(search[start:], []byte("\033\\"))
			if st >= 0 && (end < 0 || st < end) {
				end = st
			}
			if end < 0 {
				break // incomplete sequence, wait for more data
			}

			title = string(search[start : start+end])
			found = true
			offset = start + end
		}
	}
	return title, found
}
