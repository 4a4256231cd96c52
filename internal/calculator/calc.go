// Package calculator provides the keypad calculator engine and the
// arithmetic it evaluates.
package calculator

import (
	"errors"
	"fmt"
)

// DivideByZeroMessage is the notification shown when evaluation divides by zero.
const DivideByZeroMessage = "Cannot divide by zero!"

var (
	// ErrDivideByZero is returned by Divide and Apply when the divisor is zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrNoOperator is returned by Apply when no operator is pending.
	ErrNoOperator = errors.New("no operator selected")
	// ErrUnknownOperator is returned by ParseOperator for unrecognized symbols.
	ErrUnknownOperator = errors.New("unknown operator")
)

// Operator is a binary arithmetic operator awaiting its second operand.
type Operator int

const (
	// None means no binary operation is in progress.
	None Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the keypad symbol for the operator, or "" for None.
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return ""
	}
}

// MarshalText encodes the operator as its keypad symbol.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes a keypad symbol; the empty string decodes to None.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ParseOperator maps a keypad symbol to an Operator.
func ParseOperator(symbol string) (Operator, error) {
	switch symbol {
	case "":
		return None, nil
	case "+":
		return OpAdd, nil
	case "-":
		return OpSubtract, nil
	case "*":
		return OpMultiply, nil
	case "/":
		return OpDivide, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
	}
}

// Add returns the sum of a and b.
func Add(a, b float64) float64 {
	return a + b
}

// Subtract returns a minus b.
func Subtract(a, b float64) float64 {
	return a - b
}

// Multiply returns a times b.
func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a divided by b.
// Returns ErrDivideByZero if b is zero (either sign).
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

// Apply evaluates a op b.
func Apply(op Operator, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return Add(a, b), nil
	case OpSubtract:
		return Subtract(a, b), nil
	case OpMultiply:
		return Multiply(a, b), nil
	case OpDivide:
		return Divide(a, b)
	default:
		return 0, ErrNoOperator
	}
}
