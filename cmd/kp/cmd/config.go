package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the keypad config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a default config file to --config, $KEYPAD_CONFIG or ~/.keypad.json.

The format follows the file extension: .json, .toml, .yaml or .yml.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var (
	configInitForce bool
	configShowJSON  bool
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output as JSON")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if configShowJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}

	fmt.Fprintf(out, "Path:          %s\n", path)
	fmt.Fprintf(out, "Title:         %s\n", cfg.Title)
	fmt.Fprintf(out, "Theme:         %s\n", cfg.Theme)
	fmt.Fprintf(out, "Listen:        %s\n", cfg.Listen)
	fmt.Fprintf(out, "Display width: %d\n", cfg.DisplayWidth)
	fmt.Fprintf(out, "Write timeout: %s\n", cfg.Web.GetWriteTimeout())
	return nil
}
