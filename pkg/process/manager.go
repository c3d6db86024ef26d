package process

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/idlewatch/idlewatch/pkg/config"
	"github.com/idlewatch/idlewatch/pkg/interfaces"
)

// Manager manages the wrapped process
type Manager struct {
	config        *config.Config
	ptyManager    PTY
	outputHandler interfaces.DataHandler
	inputHandler  interfaces.InputHandler
	exitCode      int
	mu            sync.Mutex
	sigChan       chan os.Signal
	done          chan struct{}
}

var _ interfaces.ProcessWrapper = (*Manager)(nil)

// NewManager creates a new process manager
func NewManager(cfg *config.Config, outputHandler interfaces.DataHandler, inputHandler interfaces.InputHandler) *Manager {
	return &Manager{
		config:        cfg,
		ptyManager:    NewPTYManager(),
		outputHandler: outputHandler,
		inputHandler:  inputHandler,
		done:          make(chan struct{}),
	}
}

// Start starts the wrapped process
func (m *Manager) Start(command string, args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check for self-wrap
	if os.Getenv("IDLEWATCH_WRAPPED") == "1" {
		return fmt.Errorf("already wrapped by idlewatch")
	}

	// Set environment to prevent self-wrap
	env := append(os.Environ(), "IDLEWATCH_WRAPPED=1")

	// Start the process with PTY
	if err := m.ptyManager.Start(command, args, env); err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	// Start I/O copying with activity taps on both directions
	go func() {
		var outputHandler, inputHandler func([]byte)
		if m.outputHandler != nil {
			outputHandler = func(data []byte) {
				m.outputHandler.HandleData(data)
			}
		}
		if m.inputHandler != nil {
			inputHandler = func(data []byte) {
				m.inputHandler.HandleInput(data)
			}
		}
		if err := m.ptyManager.CopyIO(os.Stdin, os.Stdout, outputHandler, inputHandler, true); err != nil {
			fmt.Fprintf(os.Stderr, "idlewatch: I/O error: %v\n", err)
		}
	}()

	// Setup signal forwarding
	m.setupSignalForwarding()

	return nil
}

// Wait waits for the process to exit
func (m *Manager) Wait() error {
	if m.ptyManager == nil {
		return fmt.Errorf("process not started")
	}

	err := m.ptyManager.Wait()

	m.mu.Lock()
	if m.ptyManager.ProcessState() != nil {
		m.exitCode = m.ptyManager.ProcessState().ExitCode()
	}
	m.mu.Unlock()

	// Ensure terminal is restored
	_ = m.ptyManager.Stop()

	// Signal that we're done
	close(m.done)

	// Cleanup signal handling
	m.cleanupSignals()

	return err
}

// Stop stops the wrapped process and restores the terminal.
func (m *Manager) Stop() error {
	if proc := m.ptyManager.Process(); proc != nil {
		_ = proc.Signal(syscall.SIGTERM)
	}
	return m.ptyManager.Stop()
}

// ExitCode returns the exit code of the process
func (m *Manager) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

// setupSignalForwarding sets up signal forwarding to the child process.
// SIGTSTP and SIGCONT are included so the wrapped process freezes and
// thaws together with the wrapper.
func (m *Manager) setupSignalForwarding() {
	m.sigChan = make(chan os.Signal, 1)
	signal.Notify(m.sigChan,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
		syscall.SIGTSTP,
		syscall.SIGCONT,
	)

	go m.forwardSignals()
}

// forwardSignals forwards signals to the child process
func (m *Manager) forwardSignals() {
	for {
		select {
		case sig := <-m.sigChan:
			proc := m.ptyManager.Process()
			if proc == nil {
				continue
			}
			if sig == syscall.SIGTSTP {
				// The child cannot catch SIGSTOP, so it stops for real
				// while the wrapper does its suspend bookkeeping.
				_ = proc.Signal(syscall.SIGSTOP)
				continue
			}
			_ = proc.Signal(sig)
		case <-m.done:
			return
		}
	}
}

// cleanupSignals stops signal forwarding
func (m *Manager) cleanupSignals() {
	if m.sigChan != nil {
		signal.Stop(m.sigChan)
	}
}
