// Package status renders a bottom-of-screen status line showing the
// idle countdown and notification delivery state.
package status

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/idlewatch/idlewatch/pkg/interfaces"
)

// DeliveryState describes the most recent notification attempt.
type DeliveryState int

const (
	// DeliveryNone means no notification has been attempted yet.
	DeliveryNone DeliveryState = iota
	// DeliverySending means a notification is in flight.
	DeliverySending
	// DeliveryOK means the last notification was delivered.
	DeliveryOK
	// DeliveryFailed means the last notification attempt failed.
	DeliveryFailed
)

func (s DeliveryState) glyph() string {
	switch s {
	case DeliverySending:
		return "…"
	case DeliveryOK:
		return "✓"
	case DeliveryFailed:
		return "✗"
	default:
		return ""
	}
}

// Line draws a single status line pinned to the bottom of the terminal.
// It polls the timer on a ticker rather than hooking its transitions,
// so it can be dropped without touching the timer at all.
type Line struct {
	mu       sync.Mutex
	writer   io.Writer
	reader   interfaces.IdleReader
	enabled  bool
	delivery DeliveryState
	lastText string
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewLine creates a status line writing to w.
func NewLine(w io.Writer, reader interfaces.IdleReader) *Line {
	if w == nil {
		w = os.Stderr
	}
	return &Line{
		writer:   w,
		reader:   reader,
		enabled:  true,
		stopChan: make(chan struct{}),
	}
}

// SetEnabled turns drawing on or off. Disabling clears the line.
func (l *Line) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enabled == enabled {
		return
	}
	if !enabled {
		l.clearLocked()
	}
	l.enabled = enabled
}

// SetDelivery records the notification delivery state and redraws.
func (l *Line) SetDelivery(state DeliveryState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.delivery = state
	l.drawLocked()
}

// Redraw repaints the line. Called after screen clears, which wipe
// the previous drawing.
func (l *Line) Redraw() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastText = ""
	l.drawLocked()
}

// HandleScreenClear implements interfaces.ScreenEventHandler.
func (l *Line) HandleScreenClear() {
	l.Redraw()
}

// HandleTitleChange implements interfaces.ScreenEventHandler.
func (l *Line) HandleTitleChange(string) {}

// HandleFocusIn implements interfaces.ScreenEventHandler.
func (l *Line) HandleFocusIn() {}

// HandleFocusOut implements interfaces.ScreenEventHandler.
func (l *Line) HandleFocusOut() {}

var _ interfaces.ScreenEventHandler = (*Line)(nil)
var _ interfaces.StatusReporter = (*Reporter)(nil)

// StartAutoRefresh redraws the line once per second until Stop.
func (l *Line) StartAutoRefresh() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.mu.Lock()
				l.drawLocked()
				l.mu.Unlock()
			case <-l.stopChan:
				return
			}
		}
	}()
}

// Stop halts auto-refresh and clears the line.
func (l *Line) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked()
}

// Render returns the text the line would draw, without drawing it.
func (l *Line) Render() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renderLocked()
}

func (l *Line) renderLocked() string {
	if l.reader == nil {
		return ""
	}
	var text string
	switch {
	case l.reader.IsIdle():
		text = "● idle"
	case l.reader.IsPaused():
		text = fmt.Sprintf("◌ paused %s", formatCountdown(l.reader.Remaining()))
	default:
		text = fmt.Sprintf("○ active %s", formatCountdown(l.reader.Remaining()))
	}
	if g := l.delivery.glyph(); g != "" {
		text += " " + g
	}
	return text
}

func (l *Line) drawLocked() {
	if !l.enabled {
		return
	}
	text := l.renderLocked()
	if text == "" || text == l.lastText {
		return
	}
	l.lastText = text
	// Save cursor, jump to the bottom row, clear it, draw, restore.
	fmt.Fprintf(l.writer, "\0337\033[999;1H\033[2K%s\0338", text)
}

func (l *Line) clearLocked() {
	if !l.enabled || l.lastText == "" {
		l.lastText = ""
		return
	}
	l.lastText = ""
	fmt.Fprint(l.writer, "\0337\033[999;1H\033[2K\0338")
}

// formatCountdown renders a duration as m:ss, clamped at zero.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
