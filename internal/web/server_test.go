package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pengelbrecht/keypad/internal/calculator"
	"github.com/pengelbrecht/keypad/internal/config"
)

func newTestServer(t *testing.T, cfg config.Config) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var hello HelloMessage
	readJSON(t, conn, &hello)
	if hello.Type != TypeHello || hello.Session == "" {
		t.Fatalf("unexpected hello: %+v", hello)
	}
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	if err := conn.ReadJSON(v); err != nil {
		t.Fatalf("read: %v", err)
	}
}

// frame is a loose decoding of any outbound message.
type frame struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func pressAll(t *testing.T, conn *websocket.Conn, labels ...string) []frame {
	t.Helper()
	var frames []frame
	for _, label := range labels {
		if err := conn.WriteJSON(InboundMessage{Type: TypePress, Label: label}); err != nil {
			t.Fatalf("write: %v", err)
		}
		for {
			var f frame
			readJSON(t, conn, &f)
			frames = append(frames, f)
			if f.Type != TypeAlert {
				break
			}
		}
	}
	return frames
}

func TestSessionScenario(t *testing.T) {
	_, ts := newTestServer(t, config.Default())
	conn := dial(t, ts)

	frames := pressAll(t, conn, "7", "+", "3", "=")
	want := []string{"7", "", "3", "10"}
	if len(frames) != len(want) {
		t.Fatalf("frames = %+v, want %d display frames", frames, len(want))
	}
	for i, f := range frames {
		if f.Type != TypeDisplay || f.Value != want[i] {
			t.Errorf("frame %d = %+v, want display %q", i, f, want[i])
		}
	}
}

func TestSessionDivideByZero(t *testing.T) {
	_, ts := newTestServer(t, config.Default())
	conn := dial(t, ts)

	frames := pressAll(t, conn, "6", "/", "0", "=")
	if len(frames) != 5 {
		t.Fatalf("frames = %+v, want 5", frames)
	}
	alert, cleared := frames[3], frames[4]
	if alert.Type != TypeAlert || alert.Message != calculator.DivideByZeroMessage {
		t.Errorf("frame 3 = %+v, want divide by zero alert", alert)
	}
	if cleared.Type != TypeDisplay || cleared.Value != "" {
		t.Errorf("frame 4 = %+v, want empty display after alert", cleared)
	}

	if err := conn.WriteJSON(InboundMessage{Type: TypeState}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var state StateMessage
	readJSON(t, conn, &state)
	if state.State != (calculator.State{}) {
		t.Errorf("state = %+v, want cleared", state.State)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	_, ts := newTestServer(t, config.Default())
	a := dial(t, ts)
	b := dial(t, ts)

	pressAll(t, a, "1", "2")
	frames := pressAll(t, b, "9")
	if frames[0].Value != "9" {
		t.Errorf("second session display = %q, want 9", frames[0].Value)
	}
}

func TestSessionRejectsUnknownInput(t *testing.T) {
	_, ts := newTestServer(t, config.Default())
	conn := dial(t, ts)

	frames := pressAll(t, conn, "%")
	if frames[0].Type != TypeError || !strings.Contains(frames[0].Message, "unknown button") {
		t.Errorf("frame = %+v, want unknown button error", frames[0])
	}

	if err := conn.WriteJSON(InboundMessage{Type: "type"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var f frame
	readJSON(t, conn, &f)
	if f.Type != TypeError {
		t.Errorf("frame = %+v, want error", f)
	}
}

func TestSessionClosesOnOversizedFrame(t *testing.T) {
	s, ts := newTestServer(t, config.Default())
	conn := dial(t, ts)

	big := `{"type":"press","label":"` + strings.Repeat("1", maxMessageSize) + `"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(big)); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("read succeeded, want connection closed")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		t.Fatalf("read timed out, want close: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.SessionCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := s.SessionCount(); n != 0 {
		t.Errorf("SessionCount() = %d after oversized frame, want 0", n)
	}
}

func TestIndexRendersKeypad(t *testing.T) {
	cfg := config.Default()
	cfg.Title = "Desk Calc"
	s, ts := newTestServer(t, cfg)

	body := get(t, ts.URL+"/")
	for _, want := range []string{"Desk Calc", `id="display" readonly`, `data-label="-1"`, `data-label="="`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}

	cfg.Title = "Reloaded"
	s.SetConfig(cfg)
	if body := get(t, ts.URL+"/"); !strings.Contains(body, "Reloaded") {
		t.Errorf("index did not pick up the new title")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	_, ts := newTestServer(t, config.Default())

	var layout LayoutResponse
	if err := json.Unmarshal([]byte(get(t, ts.URL+"/api/layout")), &layout); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if layout.Columns != 4 || len(layout.Buttons) != 18 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if layout.Buttons[0].Label != "C" || layout.Buttons[0].Kind != "control" {
		t.Errorf("first button = %+v, want C control", layout.Buttons[0])
	}
}

func TestCheckOrigin(t *testing.T) {
	cfg := config.Default()
	cfg.Web = &config.WebConfig{AllowedOrigins: []string{"trusted.example"}}
	_, ts := newTestServer(t, cfg)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	cases := []struct {
		origin string
		ok     bool
	}{
		{"", true},
		{ts.URL, true},
		{"https://trusted.example", true},
		{"https://evil.example", false},
	}
	for _, tc := range cases {
		t.Run(tc.origin, func(t *testing.T) {
			header := http.Header{}
			if tc.origin != "" {
				header.Set("Origin", tc.origin)
			}
			conn, _, err := websocket.DefaultDialer.Dial(url, header)
			if tc.ok && err != nil {
				t.Fatalf("dial with origin %q: %v", tc.origin, err)
			}
			if !tc.ok && err == nil {
				conn.Close()
				t.Fatalf("dial with origin %q succeeded, want rejection", tc.origin)
			}
			if conn != nil {
				conn.Close()
			}
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	s := NewServer(config.Default(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	get(t, "http://"+ln.Addr().String()+"/api/layout")
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}
