package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the keypad in the terminal",
	Long: `Run the keypad calculator in the terminal.

Click buttons with the mouse, or move between them with the arrow keys and
press the focused button with enter.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

var tuiLogFile string

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file (logs are discarded otherwise)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		w = f
	}

	logger := newLogger(w, level)
	if err := tui.Run(cfg, tui.WithLogger(logger)); err != nil {
		return fmt.Errorf("terminal keypad failed: %w", err)
	}
	return nil
}

