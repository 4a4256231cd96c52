// Package cmd implements the kp command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/config"
	"github.com/pengelbrecht/keypad/internal/keypad"
)

// Version is set at build time.
var Version = "dev"

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "kp",
	Short: "Keypad calculator",
	Long: `kp is a four-function keypad calculator.

It runs as a terminal keypad (kp tui), as a browser keypad served over
HTTP and websockets (kp serve), or headless by pressing buttons from the
command line (kp press).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $KEYPAD_CONFIG or ~/.keypad.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if isUsageError(err) {
			return exitUsage
		}
		return exitFailure
	}
	return exitSuccess
}

func isUsageError(err error) bool {
	if errors.Is(err, keypad.ErrUnknownButton) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.Contains(msg, "arg(s)")
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveConfigPath returns --config, or the default path.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file, falling back to defaults when absent.
func loadConfig() (config.Config, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return config.Config{}, path, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, path, nil
}
