package notification

import (
	"sync"
	"time"

	"github.com/idlewatch/idlewatch/pkg/config"
	"github.com/idlewatch/idlewatch/pkg/interfaces"
)

// Manager orchestrates notification sending with batching and rate limiting
type Manager struct {
	config      *config.Config
	notifier    Notifier
	rateLimiter interfaces.RateLimiter
	batcher     *Batcher

	mu       sync.Mutex
	reporter interfaces.StatusReporter
}

// NewManager creates a new notification manager
func NewManager(cfg *config.Config, notifier Notifier, rateLimiter interfaces.RateLimiter) *Manager {
	m := &Manager{
		config:      cfg,
		notifier:    notifier,
		rateLimiter: rateLimiter,
	}

	// Create batcher if batch window is configured
	if cfg.BatchWindow > 0 {
		m.batcher = NewBatcher(cfg.BatchWindow, m.sendBatch)
	}

	return m
}

// SetStatusReporter wires delivery status updates to a reporter.
func (m *Manager) SetStatusReporter(reporter interfaces.StatusReporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporter = reporter
}

// Send sends or batches a notification based on configuration
func (m *Manager) Send(notification Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.Quiet {
		return nil
	}

	// Check rate limit
	if m.rateLimiter != nil && !m.rateLimiter.Allow() {
		// Silently drop notification due to rate limit
		return nil
	}

	// If batching is enabled, add to batch
	if m.batcher != nil {
		m.batcher.Add(notification)
		return nil
	}

	// Otherwise send immediately
	return m.deliver(notification)
}

// deliver sends one notification and reports delivery status.
func (m *Manager) deliver(notification Notification) error {
	if m.reporter != nil {
		m.reporter.ReportSending()
	}

	err := m.notifier.Send(notification)

	if m.reporter != nil {
		if err != nil {
			m.reporter.ReportFailure()
		} else {
			m.reporter.ReportSuccess()
		}
	}
	return err
}

// sendBatch sends a batch of notifications as a single notification
func (m *Manager) sendBatch(notifications []Notification) {
	if len(notifications) == 0 {
		return
	}

	combined := Notification{
		Title:   "idlewatch: multiple events",
		Message: formatBatchMessage(notifications),
		Time:    time.Now(),
		Kind:    "batch",
	}

	// Notifications are best effort; errors are reported through the
	// status reporter, not propagated.
	_ = m.deliver(combined)
}

// Close gracefully shuts down the manager
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Flush any pending batches
	if m.batcher != nil {
		m.batcher.Flush()
	}

	return nil
}

// formatBatchMessage formats multiple notifications into a single message
func formatBatchMessage(notifications []Notification) string {
	msg := ""
	for i, n := range notifications {
		if i > 0 {
			msg += "\n---\n"
		}
		msg += n.Kind + ": " + n.Message
	}
	return msg
}
