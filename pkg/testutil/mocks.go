// Package testutil provides thread-safe mocks shared across package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/idlewatch/idlewatch/pkg/notification"
)

// MockNotifier is a thread-safe mock implementation of notification.Notifier
type MockNotifier struct {
	mu            sync.Mutex
	notifications []notification.Notification
	attempts      []notification.Notification
	sendErr       error
	sendDelay     time.Duration
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		notifications: []notification.Notification{},
		attempts:      []notification.Notification{},
	}
}

// Send implements the Notifier interface
func (m *MockNotifier) Send(n notification.Notification) error {
	if m.sendDelay > 0 {
		time.Sleep(m.sendDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts = append(m.attempts, n)

	if m.sendErr != nil {
		return m.sendErr
	}

	m.notifications = append(m.notifications, n)
	return nil
}

// GetNotifications returns a copy of successfully sent notifications
func (m *MockNotifier) GetNotifications() []notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]notification.Notification, len(m.notifications))
	copy(result, m.notifications)
	return result
}

// GetAttempts returns a copy of all attempted sends (including failures)
func (m *MockNotifier) GetAttempts() []notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]notification.Notification, len(m.attempts))
	copy(result, m.attempts)
	return result
}

// SetError sets the error to return on Send calls
func (m *MockNotifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// SetDelay sets a delay before each Send call
func (m *MockNotifier) SetDelay(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendDelay = delay
}

// Clear resets the mock state
func (m *MockNotifier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = []notification.Notification{}
	m.attempts = []notification.Notification{}
	m.sendErr = nil
	m.sendDelay = 0
}

// MockActivitySink is a mock implementation of interfaces.ActivitySink
type MockActivitySink struct {
	mu          sync.Mutex
	notifyCount int
	resetCount  int
}

// NewMockActivitySink creates a new mock activity sink
func NewMockActivitySink() *MockActivitySink {
	return &MockActivitySink{}
}

// NotifyActivity implements the ActivitySink interface
func (m *MockActivitySink) NotifyActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyCount++
}

// Reset implements the ActivitySink interface
func (m *MockActivitySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
}

// GetNotifyCount returns how many times NotifyActivity was called
func (m *MockActivitySink) GetNotifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifyCount
}

// GetResetCount returns how many times Reset was called
func (m *MockActivitySink) GetResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCount
}

// MockLifecycleSink is a mock implementation of interfaces.LifecycleSink
type MockLifecycleSink struct {
	mu      sync.Mutex
	suspend []time.Time
	resume  []time.Time
}

// NewMockLifecycleSink creates a new mock lifecycle sink
func NewMockLifecycleSink() *MockLifecycleSink {
	return &MockLifecycleSink{}
}

// Suspend implements the LifecycleSink interface
func (m *MockLifecycleSink) Suspend(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspend = append(m.suspend, at)
}

// ResumeFromSuspension implements the LifecycleSink interface
func (m *MockLifecycleSink) ResumeFromSuspension(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resume = append(m.resume, at)
}

// GetSuspends returns a copy of recorded suspend timestamps
func (m *MockLifecycleSink) GetSuspends() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]time.Time, len(m.suspend))
	copy(result, m.suspend)
	return result
}

// GetResumes returns a copy of recorded resume timestamps
func (m *MockLifecycleSink) GetResumes() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]time.Time, len(m.resume))
	copy(result, m.resume)
	return result
}

// MockIdleReader is a mock implementation of interfaces.IdleReader
type MockIdleReader struct {
	mu        sync.Mutex
	remaining time.Duration
	idle      bool
	paused    bool
}

// NewMockIdleReader creates a new mock idle reader
func NewMockIdleReader(remaining time.Duration) *MockIdleReader {
	return &MockIdleReader{remaining: remaining}
}

// Remaining implements the IdleReader interface
func (m *MockIdleReader) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// IsIdle implements the IdleReader interface
func (m *MockIdleReader) IsIdle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}

// IsPaused implements the IdleReader interface
func (m *MockIdleReader) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// SetIdle sets the idle state
func (m *MockIdleReader) SetIdle(idle bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = idle
}

// SetPaused sets the paused state
func (m *MockIdleReader) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

// SetRemaining sets the remaining duration
func (m *MockIdleReader) SetRemaining(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remaining = d
}

// MockRateLimiter is a mock implementation of interfaces.RateLimiter
type MockRateLimiter struct {
	mu          sync.Mutex
	allowResult bool
	allowCount  int
	resetCount  int
}

// NewMockRateLimiter creates a new mock rate limiter
func NewMockRateLimiter(allowResult bool) *MockRateLimiter {
	return &MockRateLimiter{
		allowResult: allowResult,
	}
}

// Allow implements the RateLimiter interface
func (m *MockRateLimiter) Allow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowCount++
	return m.allowResult
}

// Reset implements the RateLimiter interface
func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
}

// SetAllowResult sets the result that Allow() will return
func (m *MockRateLimiter) SetAllowResult(allow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowResult = allow
}

// GetAllowCount returns how many times Allow was called
func (m *MockRateLimiter) GetAllowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowCount
}

// GetResetCount returns how many times Reset was called
func (m *MockRateLimiter) GetResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCount
}

// CountingRateLimiter is a rate limiter that allows the first N calls
type CountingRateLimiter struct {
	mu           sync.Mutex
	maxAllowed   int
	currentCount int
}

// NewCountingRateLimiter creates a new counting rate limiter
func NewCountingRateLimiter(maxAllowed int) *CountingRateLimiter {
	return &CountingRateLimiter{
		maxAllowed: maxAllowed,
	}
}

// Allow implements the RateLimiter interface
func (c *CountingRateLimiter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentCount++
	return c.currentCount <= c.maxAllowed
}

// Reset implements the RateLimiter interface
func (c *CountingRateLimiter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentCount = 0
}
