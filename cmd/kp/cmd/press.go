package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/calculator"
	"github.com/pengelbrecht/keypad/internal/keypad"
)

var pressCmd = &cobra.Command{
	Use:   "press [--] <label>...",
	Short: "Press keypad buttons and print the display",
	Long: `Press keypad buttons in order and print the final display.

Labels are the keypad buttons: 0-9 . + - * / = C and -1. Put labels after
"--" when one of them starts with a dash.

Examples:
  kp press 7 + 3 =            # prints 10
  kp press --trace 9 '*' 2 =  # print the display after every press
  kp press -- -1 '*' 3 =      # the -1 quick-entry button
  kp press --json 4 +         # print the engine state as JSON`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPress,
}

var (
	pressTrace bool
	pressJSON  bool
)

func init() {
	pressCmd.Flags().BoolVar(&pressTrace, "trace", false, "print the display after every press")
	pressCmd.Flags().BoolVar(&pressJSON, "json", false, "output the final state as JSON")

	rootCmd.AddCommand(pressCmd)
}

func runPress(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	opts := []calculator.Option{
		calculator.WithNotifier(func(msg string) {
			fmt.Fprintln(errOut, msg)
		}),
	}
	if pressTrace {
		opts = append(opts, calculator.WithObserver(func(display string) {
			fmt.Fprintf(out, "[%s]\n", display)
		}))
	}

	engine := calculator.New(opts...)
	if err := keypad.PressSequence(keypad.Layout(engine), args...); err != nil {
		return err
	}

	if pressJSON {
		enc := json.NewEncoder(out)
		if err := enc.Encode(engine.State()); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}

	if !pressTrace {
		fmt.Fprintln(out, engine.Display())
	}
	return nil
}
