// Package notification provides notification functionality.
package notification

import "time"

// Kinds of notifications produced by the idle timer's edges.
const (
	KindIdle    = "idle"
	KindActive  = "active"
	KindStartup = "startup"
)

// Notification represents a notification to be sent.
type Notification struct {
	Title   string
	Message string
	Time    time.Time
	Kind    string
}

// Notifier sends notifications.
type Notifier interface {
	Send(notification Notification) error
}
