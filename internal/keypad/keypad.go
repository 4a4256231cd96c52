// Package keypad binds labeled buttons to a calculator engine.
package keypad

import (
	"errors"
	"fmt"

	"github.com/pengelbrecht/keypad/internal/calculator"
)

// Columns is the number of buttons per keypad row.
const Columns = 4

// ErrUnknownButton is returned when a label has no button on the keypad.
var ErrUnknownButton = errors.New("unknown button")

// Kind groups buttons for rendering.
type Kind int

const (
	KindDigit Kind = iota
	KindOperator
	KindControl
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// Button is a labeled control. Pressing it runs OnPress once.
type Button struct {
	Label   string
	Kind    Kind
	OnPress func()
}

// Press activates the button.
func (b Button) Press() {
	if b.OnPress != nil {
		b.OnPress()
	}
}

// Layout returns the keypad buttons wired to e, in display order.
func Layout(e *calculator.Engine) []Button {
	digit := func(d string) Button {
		return Button{Label: d, Kind: KindDigit, OnPress: func() { e.AppendDigit(d) }}
	}
	operator := func(op calculator.Operator) Button {
		return Button{Label: op.String(), Kind: KindOperator, OnPress: func() { e.SelectOperator(op) }}
	}

	return []Button{
		{Label: "C", Kind: KindControl, OnPress: e.Clear},
		digit("7"),
		digit("8"),
		digit("9"),
		operator(calculator.OpDivide),
		digit("4"),
		digit("5"),
		digit("6"),
		operator(calculator.OpMultiply),
		digit("1"),
		digit("2"),
		digit("3"),
		operator(calculator.OpSubtract),
		digit("0"),
		{Label: ".", Kind: KindDigit, OnPress: e.AppendDecimal},
		{Label: "=", Kind: KindControl, OnPress: e.Evaluate},
		operator(calculator.OpAdd),
		digit("-1"),
	}
}

// Labels returns the labels of buttons in order.
func Labels(buttons []Button) []string {
	labels := make([]string, len(buttons))
	for i, b := range buttons {
		labels[i] = b.Label
	}
	return labels
}

// Find returns the index of the button with the given label.
func Find(buttons []Button, label string) (int, error) {
	for i, b := range buttons {
		if b.Label == label {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownButton, label)
}

// PressSequence presses the buttons named by labels in order. It stops at
// the first unknown label, after pressing every label before it.
func PressSequence(buttons []Button, labels ...string) error {
	for _, label := range labels {
		i, err := Find(buttons, label)
		if err != nil {
			return err
		}
		buttons[i].Press()
	}
	return nil
}

// Rows splits buttons into rows of Columns buttons; the last row may be short.
func Rows(buttons []Button) [][]Button {
	var rows [][]Button
	for start := 0; start < len(buttons); start += Columns {
		end := start + Columns
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[start:end])
	}
	return rows
}
