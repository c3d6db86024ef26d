package process

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestTapReader_HandlerSeesAllData(t *testing.T) {
	var tapped bytes.Buffer
	reader := &tapReader{
		reader:  strings.NewReader("hello world"),
		handler: func(data []byte) { tapped.Write(data) },
	}

	var out bytes.Buffer
	if _, err := io.Copy(&out, reader); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	if out.String() != "hello world" {
		t.Errorf("output = %q, want passthrough", out.String())
	}
	if tapped.String() != "hello world" {
		t.Errorf("tap = %q, want all data", tapped.String())
	}
}

func TestTapReader_NilHandler(t *testing.T) {
	reader := &tapReader{reader: strings.NewReader("data")}

	var out bytes.Buffer
	if _, err := io.Copy(&out, reader); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if out.String() != "data" {
		t.Errorf("output = %q", out.String())
	}
}

func TestPTYManager_StartInvalidCommand(t *testing.T) {
	p := NewPTYManager()
	if err := p.Start("/nonexistent/command", nil, nil); err == nil {
		t.Error("expected error for nonexistent command")
	}
}

func TestPTYManager_DoubleStartFails(t *testing.T) {
	p := NewPTYManager()
	if err := p.Start("/bin/sh", []string{"-c", "exit 0"}, nil); err != nil {
		t.Skipf("cannot start pty in this environment: %v", err)
	}
	defer func() { _ = p.Wait() }()

	if err := p.Start("/bin/sh", nil, nil); err == nil {
		t.Error("expected error for double start")
	}
}

func TestPTYManager_WaitBeforeStart(t *testing.T) {
	p := NewPTYManager()
	if err := p.Wait(); err == nil {
		t.Error("expected error waiting on unstarted process")
	}
}
