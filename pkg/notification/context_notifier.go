package notification

import (
	"os"
	"path/filepath"
)

// ContextNotifier wraps another notifier and prefixes notification titles
// with where the session is running: the working directory basename and,
// when known, the terminal title.
type ContextNotifier struct {
	underlying   Notifier
	cwdBasename  string
	terminalInfo func() string
}

// NewContextNotifier creates a new context notifier. terminalInfo may be
// nil; when set it is consulted on every send so title changes are picked
// up.
func NewContextNotifier(underlying Notifier, terminalInfo func() string) *ContextNotifier {
	cwdBasename := ""
	if cwd, err := os.Getwd(); err == nil {
		cwdBasename = filepath.Base(cwd)
	}

	return &ContextNotifier{
		underlying:   underlying,
		cwdBasename:  cwdBasename,
		terminalInfo: terminalInfo,
	}
}

// Send implements the Notifier interface
func (cn *ContextNotifier) Send(notification Notification) error {
	context := cn.cwdBasename

	if cn.terminalInfo != nil {
		if title := cn.terminalInfo(); title != "" {
			if context != "" {
				context = context + " - " + title
			} else {
				context = title
			}
		}
	}

	if context != "" {
		notification.Title = notification.Title + " [" + context + "]"
	}

	return cn.underlying.Send(notification)
}
