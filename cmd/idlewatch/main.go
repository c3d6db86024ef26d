package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/idlewatch/idlewatch/pkg/config"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		configPath string
		timeout    time.Duration
		quiet      bool
		noStatus   bool
		help       bool
	)

	// Split our flags from the wrapped command. Everything from the first
	// non-flag token (or after "--") belongs to the wrapped command.
	ourArgs := []string{}
	cmdArgs := []string{}

	i := 1
	for i < len(os.Args) {
		arg := os.Args[i]

		if arg == "--" {
			cmdArgs = append(cmdArgs, os.Args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") {
			cmdArgs = append(cmdArgs, os.Args[i:]...)
			break
		}

		switch arg {
		case "--config", "-config":
			ourArgs = append(ourArgs, arg)
			if i+1 < len(os.Args) && !strings.HasPrefix(os.Args[i+1], "-") {
				ourArgs = append(ourArgs, os.Args[i+1])
				i++
			}
		case "--timeout", "-timeout":
			ourArgs = append(ourArgs, arg)
			if i+1 < len(os.Args) && !strings.HasPrefix(os.Args[i+1], "-") {
				ourArgs = append(ourArgs, os.Args[i+1])
				i++
			}
		default:
			ourArgs = append(ourArgs, arg)
		}
		i++
	}

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.DurationVar(&timeout, "timeout", 0, "Inactivity timeout (overrides config)")
	flag.BoolVar(&quiet, "quiet", false, "Disable all notifications")
	flag.BoolVar(&noStatus, "no-status", false, "Disable the status line")
	flag.BoolVar(&help, "help", false, "Show help message")

	if err := flag.CommandLine.Parse(ourArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	if help {
		printUsage()
		os.Exit(0)
	}

	// The explicit config path must be in place before Load reads it.
	if configPath != "" {
		if err := os.Setenv("IDLEWATCH_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if quiet {
		cfg.Quiet = true
	}
	if noStatus {
		cfg.StatusLine = false
	}

	command, userArgs, err := resolveCommand(cfg, cmdArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nUsage: idlewatch [OPTIONS] COMMAND [ARGS...]\n")
		fmt.Fprintf(os.Stderr, "Or set command_path in ~/.config/idlewatch/config.yaml\n")
		os.Exit(1)
	}

	var args []string
	if len(cfg.DefaultArgs) > 0 {
		args = append(args, cfg.DefaultArgs...)
	}
	args = append(args, userArgs...)

	deps, err := NewDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	app := NewApplication(deps)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Restore the terminal even on panic
	defer func() {
		if r := recover(); r != nil {
			_ = app.Stop()
			panic(r)
		}
	}()

	go func() {
		<-sigChan
		if err := app.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping process: %v\n", err)
		}
		os.Exit(130)
	}()

	if os.Getenv("IDLEWATCH_DEBUG") == "1" {
		fmt.Fprintf(os.Stderr, "idlewatch: starting %s with args: %v\n", command, args)
		fmt.Fprintf(os.Stderr, "idlewatch: timeout=%v quiet=%v topic=%q\n", cfg.Timeout, cfg.Quiet, cfg.NtfyTopic)
	}

	if err := app.Run(command, args); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			fmt.Fprintf(os.Stderr, "Error running %s: %v\n", command, err)
		}
	}

	os.Exit(app.ExitCode())
}

// resolveCommand picks the command to wrap: positional arguments first,
// then the configured command path.
func resolveCommand(cfg *config.Config, cmdArgs []string) (string, []string, error) {
	if len(cmdArgs) > 0 {
		path, err := findCommand(cmdArgs[0])
		if err != nil {
			return "", nil, err
		}
		return path, cmdArgs[1:], nil
	}

	if cfg.CommandPath != "" {
		// Use the configured path directly; let it fail at execution if wrong.
		return cfg.CommandPath, nil, nil
	}

	return "", nil, fmt.Errorf("no command given")
}

func printUsage() {
	fmt.Println("idlewatch - run a command and get notified when it goes idle")
	fmt.Println()
	fmt.Println("Usage: idlewatch [OPTIONS] COMMAND [ARGS...]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Everything after COMMAND (or after \"--\") is passed to the wrapped command")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  IDLEWATCH_TIMEOUT           Inactivity timeout (default: 2m)")
	fmt.Println("  IDLEWATCH_TOPIC             Ntfy topic for notifications")
	fmt.Println("  IDLEWATCH_SERVER            Ntfy server URL (default: https://ntfy.sh)")
	fmt.Println("  IDLEWATCH_RESPECT_KEYBOARD  Ignore keystrokes as activity (true/false)")
	fmt.Println("  IDLEWATCH_QUIET             Disable notifications (true/false)")
	fmt.Println("  IDLEWATCH_STARTUP           Send startup notification (true/false)")
	fmt.Println("  IDLEWATCH_STATUS_LINE       Show the countdown status line (default: true)")
	fmt.Println("  IDLEWATCH_COMMAND_PATH      Command to wrap when none is given")
	fmt.Println("  IDLEWATCH_DEFAULT_ARGS      Default command args (comma-separated)")
	fmt.Println("  IDLEWATCH_CONFIG            Path to config file")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/idlewatch/config.yaml")
}

// findCommand resolves name in PATH, excluding our own binary so a
// symlinked wrapper cannot recurse into itself.
func findCommand(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name, nil
	}

	ourPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get our executable path: %w", err)
	}
	ourPath, err = filepath.EvalSymlinks(ourPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve our executable path: %w", err)
	}

	pathEnv := os.Getenv("PATH")
	if pathEnv == "" {
		return "", fmt.Errorf("PATH environment variable is empty")
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		candidate := filepath.Join(dir, name)

		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}

		if info.Mode().IsRegular() && info.Mode()&0111 != 0 {
			resolved, err := filepath.EvalSymlinks(candidate)
			if err != nil {
				continue
			}
			if resolved == ourPath {
				continue
			}
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH (excluding the idlewatch wrapper)", name)
}
