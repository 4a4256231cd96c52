package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/update"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade kp to the latest version",
	Long:  `Upgrade kp to the latest version by downloading and installing the newest release.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Current version: %s\n", Version)

		switch update.DetectInstallMethod() {
		case update.InstallHomebrew:
			fmt.Fprintln(out, "\nkp was installed via Homebrew.")
			fmt.Fprintln(out, "Run: brew upgrade keypad")
			return nil
		case update.InstallGoInstall:
			fmt.Fprintln(out, "\nkp was installed with go install.")
			fmt.Fprintln(out, "Run: go install github.com/pengelbrecht/keypad/cmd/kp@latest")
			return nil
		}

		fmt.Fprintln(out, "Checking for updates...")

		release, hasUpdate, err := update.CheckForUpdate(cmd.Context(), Version)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}

		if !hasUpdate {
			fmt.Fprintln(out, "Already at latest version.")
			return nil
		}

		fmt.Fprintf(out, "Updating to %s...\n", release.Version)

		installed, err := update.Update(cmd.Context(), Version)
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}

		fmt.Fprintf(out, "Successfully updated to %s\n", installed.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}
