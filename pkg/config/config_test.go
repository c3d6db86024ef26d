package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"IDLEWATCH_TIMEOUT",
	"IDLEWATCH_TOPIC",
	"IDLEWATCH_SERVER",
	"IDLEWATCH_QUIET",
	"IDLEWATCH_RESPECT_KEYBOARD",
	"IDLEWATCH_STARTUP",
	"IDLEWATCH_STATUS_LINE",
	"IDLEWATCH_COMMAND_PATH",
	"IDLEWATCH_DEFAULT_ARGS",
	"IDLEWATCH_CONFIG",
}

// clearEnv unsets all idlewatch variables and restores them on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		orig, had := os.LookupEnv(name)
		_ = os.Unsetenv(name)
		if had {
			t.Cleanup(func() { _ = os.Setenv(name, orig) })
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 2*time.Minute {
		t.Errorf("expected Timeout to be 2m but got %v", cfg.Timeout)
	}
	if cfg.NtfyServer != "https://ntfy.sh" {
		t.Errorf("expected NtfyServer to be https://ntfy.sh but got %s", cfg.NtfyServer)
	}
	if !cfg.StatusLine {
		t.Error("expected StatusLine to be true by default")
	}
	if cfg.RespectKeyboard {
		t.Error("expected RespectKeyboard to be false by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name      string
		envVars   map[string]string
		checkFunc func(*testing.T, *Config)
		wantErr   bool
	}{
		{
			name: "valid environment variables",
			envVars: map[string]string{
				"IDLEWATCH_TIMEOUT":          "5m",
				"IDLEWATCH_TOPIC":            "test-topic",
				"IDLEWATCH_SERVER":           "https://test.server",
				"IDLEWATCH_QUIET":            "true",
				"IDLEWATCH_RESPECT_KEYBOARD": "1",
				"IDLEWATCH_COMMAND_PATH":     "/usr/local/bin/sometool",
				"IDLEWATCH_DEFAULT_ARGS":     "--verbose,--color",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.Timeout != 5*time.Minute {
					t.Errorf("expected Timeout to be 5m but got %v", cfg.Timeout)
				}
				if cfg.NtfyTopic != "test-topic" {
					t.Errorf("expected NtfyTopic to be test-topic but got %s", cfg.NtfyTopic)
				}
				if cfg.NtfyServer != "https://test.server" {
					t.Errorf("expected NtfyServer to be https://test.server but got %s", cfg.NtfyServer)
				}
				if !cfg.Quiet {
					t.Error("expected Quiet to be true")
				}
				if !cfg.RespectKeyboard {
					t.Error("expected RespectKeyboard to be true")
				}
				if cfg.CommandPath != "/usr/local/bin/sometool" {
					t.Errorf("unexpected CommandPath %s", cfg.CommandPath)
				}
				if len(cfg.DefaultArgs) != 2 || cfg.DefaultArgs[0] != "--verbose" {
					t.Errorf("unexpected DefaultArgs %v", cfg.DefaultArgs)
				}
			},
		},
		{
			name: "invalid timeout",
			envVars: map[string]string{
				"IDLEWATCH_TIMEOUT": "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid quiet value",
			envVars: map[string]string{
				"IDLEWATCH_QUIET": "maybe",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range envVars {
				_ = os.Unsetenv(name)
			}
			for k, v := range tt.envVars {
				_ = os.Setenv(k, v)
			}

			cfg := DefaultConfig()
			err := loadFromEnv(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadFromEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
timeout: 90s
respect_keyboard: true
ntfy_topic: file-topic
status_line: false
rate_limit:
  window: 30s
  max_messages: 3
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := DefaultConfig()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}

	if cfg.Timeout != 90*time.Second {
		t.Errorf("expected Timeout 90s, got %v", cfg.Timeout)
	}
	if !cfg.RespectKeyboard {
		t.Error("expected RespectKeyboard true")
	}
	if cfg.NtfyTopic != "file-topic" {
		t.Errorf("expected NtfyTopic file-topic, got %s", cfg.NtfyTopic)
	}
	if cfg.StatusLine {
		t.Error("expected StatusLine false")
	}
	if cfg.RateLimit.MaxMessages != 3 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("unexpected rate limit %+v", cfg.RateLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(cfg *Config) {}, false},
		{"zero timeout", func(cfg *Config) { cfg.Timeout = 0 }, true},
		{"negative timeout", func(cfg *Config) { cfg.Timeout = -time.Second }, true},
		{"negative rate limit window", func(cfg *Config) { cfg.RateLimit.Window = -time.Second }, true},
		{"negative max messages", func(cfg *Config) { cfg.RateLimit.MaxMessages = -1 }, true},
		{"negative batch window", func(cfg *Config) { cfg.BatchWindow = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_RejectsNonPositiveTimeoutFromEnv(t *testing.T) {
	clearEnv(t)
	_ = os.Setenv("IDLEWATCH_TIMEOUT", "0s")
	_ = os.Setenv("IDLEWATCH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a zero timeout")
	}
}
