package web

import "github.com/pengelbrecht/keypad/internal/calculator"

// Message types exchanged on /ws.
const (
	TypeHello   = "hello"
	TypePress   = "press"
	TypeDisplay = "display"
	TypeAlert   = "alert"
	TypeError   = "error"
	TypeState   = "state"
)

// InboundMessage is sent by the browser when a button is activated.
type InboundMessage struct {
	Type  string `json:"type"`            // "press" or "state"
	Label string `json:"label,omitempty"` // Button label for press
}

// HelloMessage opens every session.
type HelloMessage struct {
	Type    string `json:"type"` // "hello"
	Session string `json:"session"`
	Value   string `json:"value"`
}

// DisplayMessage carries the display value after each engine operation.
type DisplayMessage struct {
	Type  string `json:"type"` // "display"
	Value string `json:"value"`
}

// AlertMessage carries a blocking notification; it always precedes the
// display update of the event that raised it.
type AlertMessage struct {
	Type    string `json:"type"` // "alert"
	Message string `json:"message"`
}

// ErrorMessage reports a rejected inbound message.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// StateMessage answers a "state" request with the full engine snapshot.
type StateMessage struct {
	Type  string           `json:"type"` // "state"
	State calculator.State `json:"state"`
}

// LayoutButton describes one keypad button for /api/layout.
type LayoutButton struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// LayoutResponse is served by /api/layout.
type LayoutResponse struct {
	Columns int            `json:"columns"`
	Buttons []LayoutButton `json:"buttons"`
}
