package calculator

import (
	"log/slog"
	"strings"
)

// Notifier receives user-visible notifications. It is called synchronously
// and the engine does not continue until it returns.
type Notifier func(message string)

// Observer receives the display value after every engine operation.
type Observer func(display string)

// EntryPolicy decides how typed input extends the entry buffer.
// Returning ok=false leaves the buffer unchanged.
type EntryPolicy interface {
	AppendDigit(buffer, digit string) (next string, ok bool)
	AppendDecimal(buffer string) (next string, ok bool)
}

// LaxEntry is the default EntryPolicy. Digits are concatenated without any
// sign or length checks; a decimal point is added only if none is present.
type LaxEntry struct{}

// AppendDigit concatenates digit onto buffer.
func (LaxEntry) AppendDigit(buffer, digit string) (string, bool) {
	return buffer + digit, true
}

// AppendDecimal adds "." unless buffer already holds one.
func (LaxEntry) AppendDecimal(buffer string) (string, bool) {
	if strings.Contains(buffer, ".") {
		return buffer, false
	}
	return buffer + ".", true
}

// State is a snapshot of the engine's three fields.
type State struct {
	Entry    string   `json:"entry"`
	Operator Operator `json:"operator"`
	Operand  string   `json:"operand"`
}

// Engine holds the keypad calculator state. It is not safe for concurrent
// use; each rendering surface owns one engine and feeds it one event at a time.
type Engine struct {
	entry    string
	operator Operator
	operand  string

	notify    Notifier
	observers []Observer
	policy    EntryPolicy
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the callback used for the division-by-zero notification.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notify = n
	}
}

// WithObserver registers a display observer. Multiple observers may be added.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithEntryPolicy replaces the default LaxEntry policy.
func WithEntryPolicy(p EntryPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine with an empty entry buffer and no pending operator.
func New(opts ...Option) *Engine {
	e := &Engine{
		notify: func(string) {},
		policy: LaxEntry{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notify == nil {
		e.notify = func(string) {}
	}
	if e.policy == nil {
		e.policy = LaxEntry{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Display returns the value shown on the display, which is always the entry buffer.
func (e *Engine) Display() string {
	return e.entry
}

// State returns a snapshot of the engine fields.
func (e *Engine) State() State {
	return State{Entry: e.entry, Operator: e.operator, Operand: e.operand}
}

// Observe registers an additional display observer after construction.
func (e *Engine) Observe(o Observer) {
	e.observers = append(e.observers, o)
}

// Clear resets the entry buffer, pending operator and stored operand.
func (e *Engine) Clear() {
	e.reset()
	e.refresh()
}

// AppendDigit extends the entry buffer with d, which is a single digit or
// the "-1" quick-entry token.
func (e *Engine) AppendDigit(d string) {
	if next, ok := e.policy.AppendDigit(e.entry, d); ok {
		e.entry = next
	}
	e.refresh()
}

// AppendDecimal adds a decimal point if the entry buffer has none.
func (e *Engine) AppendDecimal() {
	if next, ok := e.policy.AppendDecimal(e.entry); ok {
		e.entry = next
	}
	e.refresh()
}

// SelectOperator stores the entry buffer as the left operand and records op.
// It does nothing while the entry buffer is empty.
func (e *Engine) SelectOperator(op Operator) {
	if e.entry != "" {
		e.operand = e.entry
		e.operator = op
		e.entry = ""
	}
	e.refresh()
}

// Evaluate applies the pending operator to the stored operand and the entry
// buffer, leaving the result in the entry buffer. It does nothing unless an
// operator is pending and the entry buffer is non-empty. Dividing by zero
// notifies the user and clears the engine instead.
func (e *Engine) Evaluate() {
	if e.operator == None || e.entry == "" {
		e.refresh()
		return
	}

	left := ParseNumber(e.operand)
	right := ParseNumber(e.entry)
	result, err := Apply(e.operator, left, right)
	if err != nil {
		e.logger.Debug("evaluation rejected",
			"operand", e.operand,
			"operator", e.operator.String(),
			"entry", e.entry,
			"error", err,
		)
		e.notify(DivideByZeroMessage)
		e.reset()
		e.refresh()
		return
	}

	e.logger.Debug("evaluated",
		"operand", e.operand,
		"operator", e.operator.String(),
		"entry", e.entry,
		"result", result,
	)
	e.entry = FormatNumber(result)
	e.operator = None
	e.operand = ""
	e.refresh()
}

func (e *Engine) reset() {
	e.entry = ""
	e.operator = None
	e.operand = ""
}

func (e *Engine) refresh() {
	for _, o := range e.observers {
		o(e.entry)
	}
}
