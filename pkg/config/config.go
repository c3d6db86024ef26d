package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for idlewatch
type Config struct {
	// Idle timer settings
	Timeout         time.Duration `yaml:"timeout" env:"IDLEWATCH_TIMEOUT"`
	RespectKeyboard bool          `yaml:"respect_keyboard" env:"IDLEWATCH_RESPECT_KEYBOARD"`

	// Notification settings
	NtfyTopic  string `yaml:"ntfy_topic" env:"IDLEWATCH_TOPIC"`
	NtfyServer string `yaml:"ntfy_server" env:"IDLEWATCH_SERVER"`

	// Behavior flags
	Quiet         bool `yaml:"quiet" env:"IDLEWATCH_QUIET"`
	StartupNotify bool `yaml:"startup_notify" env:"IDLEWATCH_STARTUP"`
	StatusLine    bool `yaml:"status_line" env:"IDLEWATCH_STATUS_LINE"`

	// Wrapped command
	CommandPath string   `yaml:"command_path" env:"IDLEWATCH_COMMAND_PATH"`
	DefaultArgs []string `yaml:"default_args"`

	// Rate limiting
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Batching
	BatchWindow time.Duration `yaml:"batch_window"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxMessages int           `yaml:"max_messages"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:       2 * time.Minute,
		NtfyServer:    "https://ntfy.sh",
		StartupNotify: false,
		StatusLine:    true,
		RateLimit: RateLimitConfig{
			Window:      1 * time.Minute,
			MaxMessages: 5,
		},
		BatchWindow: 0,
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("IDLEWATCH_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "idlewatch", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "idlewatch", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if timeout := os.Getenv("IDLEWATCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid IDLEWATCH_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if topic := os.Getenv("IDLEWATCH_TOPIC"); topic != "" {
		cfg.NtfyTopic = topic
	}

	if server := os.Getenv("IDLEWATCH_SERVER"); server != "" {
		cfg.NtfyServer = server
	}

	if path := os.Getenv("IDLEWATCH_COMMAND_PATH"); path != "" {
		cfg.CommandPath = path
	}

	if args := os.Getenv("IDLEWATCH_DEFAULT_ARGS"); args != "" {
		cfg.DefaultArgs = strings.Split(args, ",")
	}

	boolVars := []struct {
		name   string
		target *bool
	}{
		{"IDLEWATCH_RESPECT_KEYBOARD", &cfg.RespectKeyboard},
		{"IDLEWATCH_QUIET", &cfg.Quiet},
		{"IDLEWATCH_STARTUP", &cfg.StartupNotify},
		{"IDLEWATCH_STATUS_LINE", &cfg.StatusLine},
	}
	for _, v := range boolVars {
		value := os.Getenv(v.name)
		if value == "" {
			continue
		}
		switch value {
		case "true", "1", "yes":
			*v.target = true
		case "false", "0", "no":
			*v.target = false
		default:
			return fmt.Errorf("invalid %s value: %q (use true/false)", v.name, value)
		}
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}

	if cfg.RateLimit.MaxMessages < 0 {
		return fmt.Errorf("rate_limit.max_messages must be non-negative")
	}

	if cfg.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window must be non-negative")
	}

	if cfg.BatchWindow < 0 {
		return fmt.Errorf("batch_window must be non-negative")
	}

	return nil
}
