package testutil

import (
	"io"
	"os"
	"sync"
)

// MockPTY is a mock implementation of process.PTY
type MockPTY struct {
	mu            sync.Mutex
	started       bool
	stopped       bool
	startErr      error
	waitErr       error
	command       string
	args          []string
	env           []string
	outputChunks  [][]byte
	inputChunks   [][]byte
	copyIOStarted bool
}

// NewMockPTY creates a new mock PTY
func NewMockPTY() *MockPTY {
	return &MockPTY{}
}

// Start implements the PTY interface
func (m *MockPTY) Start(command string, args []string, env []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.startErr != nil {
		return m.startErr
	}

	m.started = true
	m.command = command
	m.args = args
	m.env = env
	return nil
}

// Wait implements the PTY interface
func (m *MockPTY) Wait() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitErr
}

// ProcessState implements the PTY interface
func (m *MockPTY) ProcessState() *os.ProcessState {
	return nil
}

// Process implements the PTY interface
func (m *MockPTY) Process() *os.Process {
	return nil
}

// GetPTY implements the PTY interface
func (m *MockPTY) GetPTY() *os.File {
	return nil
}

// Stop implements the PTY interface
func (m *MockPTY) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

// CopyIO implements the PTY interface. It replays any queued output
// through the output handler and records that copying began.
func (m *MockPTY) CopyIO(stdin io.Reader, stdout io.Writer, outputHandler, inputHandler func([]byte), enableFocus bool) error {
	m.mu.Lock()
	chunks := m.outputChunks
	m.outputChunks = nil
	m.copyIOStarted = true
	m.mu.Unlock()

	for _, chunk := range chunks {
		if stdout != nil {
			if _, err := stdout.Write(chunk); err != nil {
				return err
			}
		}
		if outputHandler != nil {
			outputHandler(chunk)
		}
	}
	return nil
}

// QueueOutput queues a chunk to be replayed by the next CopyIO call
func (m *MockPTY) QueueOutput(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputChunks = append(m.outputChunks, append([]byte(nil), data...))
}

// SetStartError sets the error to return from Start
func (m *MockPTY) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// SetWaitError sets the error to return from Wait
func (m *MockPTY) SetWaitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitErr = err
}

// IsStarted returns whether Start was called
func (m *MockPTY) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// IsStopped returns whether Stop was called
func (m *MockPTY) IsStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// StartedCommand returns the command passed to Start
func (m *MockPTY) StartedCommand() (string, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command, m.args
}

// CopyIOStarted returns whether CopyIO was called
func (m *MockPTY) CopyIOStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyIOStarted
}

// MockDataHandler is a mock implementation of interfaces.DataHandler
type MockDataHandler struct {
	mu    sync.Mutex
	lines []string
	data  [][]byte
}

// NewMockDataHandler creates a new mock data handler
func NewMockDataHandler() *MockDataHandler {
	return &MockDataHandler{}
}

// HandleLine implements the OutputHandler interface
func (m *MockDataHandler) HandleLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
}

// HandleData implements the DataHandler interface
func (m *MockDataHandler) HandleData(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data, append([]byte(nil), data...))
}

// GetLines returns all handled lines
func (m *MockDataHandler) GetLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.lines))
	copy(result, m.lines)
	return result
}

// GetData returns all handled data chunks
func (m *MockDataHandler) GetData() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]byte, len(m.data))
	copy(result, m.data)
	return result
}

// MockInputHandler is a mock implementation of interfaces.InputHandler
type MockInputHandler struct {
	mu   sync.Mutex
	data [][]byte
}

// NewMockInputHandler creates a new mock input handler
func NewMockInputHandler() *MockInputHandler {
	return &MockInputHandler{}
}

// HandleInput implements the InputHandler interface
func (m *MockInputHandler) HandleInput(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data, append([]byte(nil), data...))
}

// GetData returns all handled input chunks
func (m *MockInputHandler) GetData() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]byte, len(m.data))
	copy(result, m.data)
	return result
}
