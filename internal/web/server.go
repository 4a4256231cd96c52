// Package web serves the keypad calculator to browsers. Each websocket
// connection owns one engine and handles its events in arrival order.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pengelbrecht/keypad/internal/calculator"
	"github.com/pengelbrecht/keypad/internal/config"
	"github.com/pengelbrecht/keypad/internal/keypad"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// maxMessageSize bounds inbound frames; presses are a few dozen bytes.
const maxMessageSize = 512

// Server serves the keypad page and its websocket endpoint.
type Server struct {
	cfg   config.Config
	cfgMu sync.RWMutex

	upgrader websocket.Upgrader
	logger   *slog.Logger

	sessions   map[string]struct{}
	sessionsMu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the server and its sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for cfg.
func NewServer(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   slog.Default(),
		sessions: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Config returns the active configuration.
func (s *Server) Config() config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// SetConfig replaces the configuration used by later page loads and sessions.
// The listen address is fixed once the server is running.
func (s *Server) SetConfig(cfg config.Config) {
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	s.logger.Info("config reloaded", "title", cfg.Title, "theme", cfg.Theme)
}

// SessionCount returns the number of open websocket sessions.
func (s *Server) SessionCount() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return len(s.sessions)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/layout", s.handleLayout)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// ListenAndServe serves on the configured address until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	cfg := s.Config()
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.Config().Web.GetReadHeaderTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("serving keypad", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type indexData struct {
	Title   string
	Theme   string
	Columns int
	Buttons []LayoutButton
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	data := indexData{
		Title:   cfg.Title,
		Theme:   cfg.Theme,
		Columns: keypad.Columns,
		Buttons: layoutButtons(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := LayoutResponse{Columns: keypad.Columns, Buttons: layoutButtons()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode layout", "error", err)
	}
}

func layoutButtons() []LayoutButton {
	buttons := keypad.Layout(calculator.New())
	out := make([]LayoutButton, len(buttons))
	for i, b := range buttons {
		out[i] = LayoutButton{Label: b.Label, Kind: b.Kind.String()}
	}
	return out
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.Config().Web.GetAllowedOrigins() {
		if strings.EqualFold(u.Host, allowed) {
			return true
		}
	}
	return false
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.Config().Web.GetWriteTimeout(), s.logger)

	s.sessionsMu.Lock()
	s.sessions[sess.id] = struct{}{}
	s.sessionsMu.Unlock()
	defer func() {
		s.sessionsMu.Lock()
		delete(s.sessions, sess.id)
		s.sessionsMu.Unlock()
	}()

	sess.run()
}

// session binds one websocket connection to one engine. All reads, engine
// events and writes happen on the goroutine running run.
type session struct {
	id           string
	conn         *websocket.Conn
	engine       *calculator.Engine
	buttons      []keypad.Button
	writeTimeout time.Duration
	logger       *slog.Logger
	writeErr     error
}

func newSession(conn *websocket.Conn, writeTimeout time.Duration, logger *slog.Logger) *session {
	sess := &session{
		id:           uuid.NewString(),
		conn:         conn,
		writeTimeout: writeTimeout,
	}
	sess.logger = logger.With("session", sess.id)
	sess.engine = calculator.New(
		calculator.WithNotifier(func(msg string) {
			sess.send(AlertMessage{Type: TypeAlert, Message: msg})
		}),
		calculator.WithObserver(func(display string) {
			sess.send(DisplayMessage{Type: TypeDisplay, Value: display})
		}),
		calculator.WithLogger(sess.logger),
	)
	sess.buttons = keypad.Layout(sess.engine)
	return sess
}

func (s *session) run() {
	defer s.conn.Close()
	s.logger.Info("session opened", "remote", s.conn.RemoteAddr().String())
	defer s.logger.Info("session closed")

	s.conn.SetReadLimit(maxMessageSize)
	s.send(HelloMessage{Type: TypeHello, Session: s.id, Value: s.engine.Display()})

	for s.writeErr == nil {
		var msg InboundMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}
		s.handle(msg)
	}
}

func (s *session) handle(msg InboundMessage) {
	switch msg.Type {
	case TypePress:
		i, err := keypad.Find(s.buttons, msg.Label)
		if err != nil {
			s.send(ErrorMessage{Type: TypeError, Message: err.Error()})
			return
		}
		s.buttons[i].Press()
	case TypeState:
		s.send(StateMessage{Type: TypeState, State: s.engine.State()})
	default:
		s.send(ErrorMessage{Type: TypeError, Message: fmt.Sprintf("unknown message type: %q", msg.Type)})
	}
}

// send writes v, remembering the first failure so run stops reading.
func (s *session) send(v any) {
	if s.writeErr != nil {
		return
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		s.writeErr = err
		return
	}
	if err := s.conn.WriteJSON(v); err != nil {
		s.logger.Debug("write failed", "error", err)
		s.writeErr = err
	}
}
