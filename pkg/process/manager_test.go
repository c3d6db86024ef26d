package process

import (
	"io"
	"os"
	"testing"

	"github.com/idlewatch/idlewatch/pkg/config"
)

// stubPTY is a minimal PTY double for manager tests.
type stubPTY struct {
	startErr  error
	started   bool
	stopped   bool
	waitErr   error
	exitState *os.ProcessState
}

func (s *stubPTY) Start(command string, args []string, env []string) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *stubPTY) Wait() error                              { return s.waitErr }
func (s *stubPTY) ProcessState() *os.ProcessState           { return s.exitState }
func (s *stubPTY) Process() *os.Process                     { return nil }
func (s *stubPTY) GetPTY() *os.File                         { return nil }
func (s *stubPTY) Stop() error                              { s.stopped = true; return nil }
func (s *stubPTY) CopyIO(stdin io.Reader, stdout io.Writer, outputHandler, inputHandler func([]byte), enableFocus bool) error {
	return nil
}

func TestManager_RefusesSelfWrap(t *testing.T) {
	orig, had := os.LookupEnv("IDLEWATCH_WRAPPED")
	_ = os.Setenv("IDLEWATCH_WRAPPED", "1")
	t.Cleanup(func() {
		if had {
			_ = os.Setenv("IDLEWATCH_WRAPPED", orig)
		} else {
			_ = os.Unsetenv("IDLEWATCH_WRAPPED")
		}
	})

	m := NewManager(config.DefaultConfig(), nil, nil)
	if err := m.Start("/bin/true", nil); err == nil {
		t.Error("expected error when already wrapped")
	}
}

func TestManager_WaitRecordsExitCodeAndRestoresTerminal(t *testing.T) {
	stub := &stubPTY{}
	m := NewManager(config.DefaultConfig(), nil, nil)
	m.ptyManager = stub
	m.sigChan = nil

	if err := m.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !stub.stopped {
		t.Error("Wait should restore the terminal via Stop")
	}
	if m.ExitCode() != 0 {
		t.Errorf("ExitCode = %d, want 0", m.ExitCode())
	}
}
