// Package tui renders the keypad calculator in the terminal.
package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pengelbrecht/keypad/internal/calculator"
	"github.com/pengelbrecht/keypad/internal/config"
	"github.com/pengelbrecht/keypad/internal/keypad"
	"github.com/pengelbrecht/keypad/internal/styles"
)

const (
	// gridTop is the first screen row of the keypad: title plus the boxed display.
	gridTop = 4
	// cellWidth and cellHeight are the outer size of one bordered button.
	cellWidth  = styles.ButtonWidth + 2
	cellHeight = 3
)

// alerts collects notifications raised by the engine while an event is handled.
type alerts struct {
	pending []string
}

func (a *alerts) notify(msg string) {
	a.pending = append(a.pending, msg)
}

// Model is the bubbletea model for the keypad.
type Model struct {
	engine  *calculator.Engine
	buttons []keypad.Button
	alerts  *alerts

	focus int
	alert string

	title        string
	displayWidth int
	theme        styles.Theme

	keys     keyMap
	help     help.Model
	width    int
	height   int
	logger   *slog.Logger
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for the model and its engine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// NewModel creates a keypad model from cfg.
func NewModel(cfg config.Config, opts ...Option) Model {
	m := Model{
		alerts:       &alerts{},
		title:        cfg.Title,
		displayWidth: cfg.DisplayWidth,
		theme:        styles.ForTheme(cfg.Theme),
		keys:         defaultKeyMap(),
		help:         help.New(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.engine = calculator.New(
		calculator.WithNotifier(m.alerts.notify),
		calculator.WithLogger(m.logger),
	)
	m.buttons = keypad.Layout(m.engine)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Display returns the current display value.
func (m Model) Display() string {
	return m.engine.Display()
}

// Alert returns the notification currently blocking the keypad, if any.
func (m Model) Alert() string {
	return m.alert
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.alert != "" {
			if key.Matches(msg, m.keys.Dismiss) {
				m.dismiss()
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.moveFocus(-keypad.Columns)
		case key.Matches(msg, m.keys.Down):
			m.moveFocus(keypad.Columns)
		case key.Matches(msg, m.keys.Left):
			m.moveFocus(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveFocus(1)
		case key.Matches(msg, m.keys.Press):
			m.press(m.focus)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.alert != "" {
			m.dismiss()
			return m, nil
		}
		if i, ok := buttonAt(msg.X, msg.Y, len(m.buttons)); ok {
			m.focus = i
			m.press(i)
		}
		return m, nil
	}

	return m, nil
}

// press activates button i and raises the first pending notification.
func (m *Model) press(i int) {
	if i < 0 || i >= len(m.buttons) {
		return
	}
	m.buttons[i].Press()
	m.logger.Debug("button pressed", "label", m.buttons[i].Label, "display", m.engine.Display())
	if len(m.alerts.pending) > 0 {
		m.alert = m.alerts.pending[0]
		m.alerts.pending = m.alerts.pending[1:]
	}
}

func (m *Model) dismiss() {
	m.alert = ""
	if len(m.alerts.pending) > 0 {
		m.alert = m.alerts.pending[0]
		m.alerts.pending = m.alerts.pending[1:]
	}
}

func (m *Model) moveFocus(delta int) {
	next := m.focus + delta
	if next < 0 || next >= len(m.buttons) {
		return
	}
	m.focus = next
}

// buttonAt maps a screen cell to a keypad button index.
func buttonAt(x, y, count int) (int, bool) {
	if x < 0 || y < gridTop {
		return 0, false
	}
	col := x / cellWidth
	row := (y - gridTop) / cellHeight
	if col >= keypad.Columns {
		return 0, false
	}
	i := row*keypad.Columns + col
	if i >= count {
		return 0, false
	}
	return i, true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.theme.Box.Render(m.theme.RenderDisplay(m.engine.Display(), m.displayWidth)))
	b.WriteString("\n")

	if m.alert != "" {
		alert := m.theme.Alert.Render(m.alert)
		b.WriteString(lipgloss.Place(styles.GridWidth(), keypad.Columns*cellHeight+cellHeight,
			lipgloss.Center, lipgloss.Center, alert))
	} else {
		b.WriteString(m.theme.RenderGrid(m.buttons, m.focus))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the terminal program and blocks until it exits.
func Run(cfg config.Config, opts ...Option) error {
	p := tea.NewProgram(NewModel(cfg, opts...), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
