package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/calculator"
	"github.com/pengelbrecht/keypad/internal/keypad"
	"github.com/pengelbrecht/keypad/internal/styles"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the keypad layout",
	Long: `Print the keypad buttons in their grid, with the display above them.

Use --plain for one label per line in layout order.`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

var layoutPlain bool

func init() {
	layoutCmd.Flags().BoolVar(&layoutPlain, "plain", false, "print one label per line")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	engine := calculator.New()
	buttons := keypad.Layout(engine)
	out := cmd.OutOrStdout()

	if layoutPlain {
		fmt.Fprintln(out, strings.Join(keypad.Labels(buttons), "\n"))
		return nil
	}

	theme := styles.ForTheme(cfg.Theme)
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(cfg.Title),
		theme.RenderDisplay(engine.Display(), styles.GridWidth()-2),
		"",
		theme.RenderGrid(buttons, -1),
	)
	fmt.Fprintln(out, theme.Box.Render(content))
	return nil
}
