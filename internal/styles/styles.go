// Package styles holds the lipgloss palette shared by the terminal surfaces.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pengelbrecht/keypad/internal/config"
	"github.com/pengelbrecht/keypad/internal/keypad"
)

// Colors
var (
	ColorGray   = lipgloss.Color("#6B7280")
	ColorAccent = lipgloss.Color("#F59E0B")
	ColorError  = lipgloss.Color("#EF4444")
	ColorPurple = lipgloss.Color("#7C3AED")
	ColorGreen  = lipgloss.Color("#10B981")
)

// ButtonWidth is the inner width of a rendered keypad button.
const ButtonWidth = 4

// Theme is a set of styles for one color scheme.
type Theme struct {
	Display  lipgloss.Style
	Digit    lipgloss.Style
	Operator lipgloss.Style
	Control  lipgloss.Style
	Focused  lipgloss.Style
	Alert    lipgloss.Style
	Box      lipgloss.Style
	Help     lipgloss.Style
	Title    lipgloss.Style
}

// ForTheme returns the styles for a config theme name; unknown names get dark.
func ForTheme(name string) Theme {
	fg, bg := lipgloss.Color("#F9FAFB"), lipgloss.Color("#1F2937")
	if name == config.ThemeLight {
		fg, bg = lipgloss.Color("#111827"), lipgloss.Color("#E5E7EB")
	}

	button := lipgloss.NewStyle().
		Width(ButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray)

	return Theme{
		Display: lipgloss.NewStyle().
			Foreground(fg).
			Background(bg).
			Bold(true).
			Padding(0, 1).
			Align(lipgloss.Right),
		Digit:    button.Foreground(fg),
		Operator: button.Foreground(ColorAccent),
		Control:  button.Foreground(ColorGreen),
		Focused:  button.BorderForeground(ColorPurple).Foreground(ColorPurple).Bold(true),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorError).
			Foreground(ColorError).
			Bold(true).
			Padding(1, 3),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1),
		Help:  lipgloss.NewStyle().Foreground(ColorGray),
		Title: lipgloss.NewStyle().Bold(true).Foreground(ColorPurple),
	}
}

// FitDisplay right-aligns value in width cells. Values wider than the
// display keep their rightmost digits behind a leading ellipsis.
func FitDisplay(value string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(value)
	if w <= width {
		return strings.Repeat(" ", width-w) + value
	}
	if width == 1 {
		return "…"
	}
	// Display values are plain ASCII, so byte offsets are cell offsets.
	return "…" + value[len(value)-(width-1):]
}

// RenderDisplay renders the read-only display line.
func (t Theme) RenderDisplay(value string, width int) string {
	return t.Display.Render(FitDisplay(ansi.Strip(value), width))
}

// RenderButton renders one keypad button.
func (t Theme) RenderButton(b keypad.Button, focused bool) string {
	if focused {
		return t.Focused.Render(b.Label)
	}
	switch b.Kind {
	case keypad.KindOperator:
		return t.Operator.Render(b.Label)
	case keypad.KindControl:
		return t.Control.Render(b.Label)
	default:
		return t.Digit.Render(b.Label)
	}
}

// RenderGrid renders buttons in keypad rows. focus is the index of the
// highlighted button, or -1 for none.
func (t Theme) RenderGrid(buttons []keypad.Button, focus int) string {
	var rows []string
	for r, row := range keypad.Rows(buttons) {
		cells := make([]string, len(row))
		for c, b := range row {
			cells[c] = t.RenderButton(b, r*keypad.Columns+c == focus)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// GridWidth is the rendered width of a full keypad row.
func GridWidth() int {
	return keypad.Columns * (ButtonWidth + 2)
}
