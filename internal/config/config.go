package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultVersion      = 1
	DefaultTitle        = "Calculator"
	DefaultTheme        = ThemeDark
	DefaultListen       = "127.0.0.1:8080"
	DefaultDisplayWidth = 24

	// Default values for web configuration.
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second

	// EnvConfig overrides the default config path.
	EnvConfig = "KEYPAD_CONFIG"
	// FileName is the default config file in the user's home directory.
	FileName = ".keypad.json"
)

// Themes supported by the rendering surfaces.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config defines keypad configuration. The on-disk format follows the file
// extension: .json, .toml, .yaml or .yml.
type Config struct {
	Version      int        `json:"version" toml:"version" yaml:"version"`
	Title        string     `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Theme        string     `json:"theme,omitempty" toml:"theme,omitempty" yaml:"theme,omitempty"`
	Listen       string     `json:"listen,omitempty" toml:"listen,omitempty" yaml:"listen,omitempty"`
	DisplayWidth int        `json:"display_width,omitempty" toml:"display_width,omitempty" yaml:"display_width,omitempty"`
	Web          *WebConfig `json:"web,omitempty" toml:"web,omitempty" yaml:"web,omitempty"`
}

// WebConfig holds browser surface settings.
type WebConfig struct {
	// ReadHeaderTimeout bounds request header reads as a duration string (default "5s").
	ReadHeaderTimeout *string `json:"read_header_timeout,omitempty" toml:"read_header_timeout,omitempty" yaml:"read_header_timeout,omitempty"`

	// WriteTimeout bounds each websocket frame write as a duration string (default "10s").
	WriteTimeout *string `json:"write_timeout,omitempty" toml:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`

	// AllowedOrigins lists extra Origin hosts accepted on /ws (same host is always accepted).
	AllowedOrigins []string `json:"allowed_origins,omitempty" toml:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// GetReadHeaderTimeout returns the header read timeout (default 5s).
func (c *WebConfig) GetReadHeaderTimeout() time.Duration {
	return durationOr(c, func(w *WebConfig) *string { return w.ReadHeaderTimeout }, DefaultReadHeaderTimeout)
}

// GetWriteTimeout returns the websocket write timeout (default 10s).
func (c *WebConfig) GetWriteTimeout() time.Duration {
	return durationOr(c, func(w *WebConfig) *string { return w.WriteTimeout }, DefaultWriteTimeout)
}

// GetAllowedOrigins returns the extra accepted origins (default none).
func (c *WebConfig) GetAllowedOrigins() []string {
	if c == nil {
		return nil
	}
	return c.AllowedOrigins
}

func durationOr(c *WebConfig, field func(*WebConfig) *string, def time.Duration) time.Duration {
	if c == nil || field(c) == nil {
		return def
	}
	d, err := time.ParseDuration(*field(c))
	if err != nil {
		return def
	}
	return d
}

// Validate checks that web config values are within sensible ranges.
func (c *WebConfig) Validate() error {
	if c == nil {
		return nil
	}

	for name, value := range map[string]*string{
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
	} {
		if value == nil {
			continue
		}
		d, err := time.ParseDuration(*value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d < 100*time.Millisecond {
			return fmt.Errorf("%s must be at least 100ms, got %v", name, d)
		}
		if d > 5*time.Minute {
			return fmt.Errorf("%s must be at most 5m, got %v", name, d)
		}
	}

	for _, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return errors.New("allowed_origins must not contain empty entries")
		}
	}

	return nil
}

// Default returns the default config.
func Default() Config {
	return Config{
		Version:      DefaultVersion,
		Title:        DefaultTitle,
		Theme:        DefaultTheme,
		Listen:       DefaultListen,
		DisplayWidth: DefaultDisplayWidth,
	}
}

// DefaultPath returns $KEYPAD_CONFIG, or ~/.keypad.json.
func DefaultPath() (string, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads config from disk and applies defaults for zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config not found: %w", err)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parse(path, data)
}

// LoadOrDefault reads config from disk, returning defaults if file doesn't exist.
func LoadOrDefault(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parse(path, data)
}

// Save writes a config to disk in the format implied by path.
func Save(path string, cfg Config) error {
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return err
	}

	var data []byte
	var err error
	switch formatOf(path) {
	case formatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	case formatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate ensures config values are within supported ranges.
func (c Config) Validate() error {
	if c.Version != DefaultVersion {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme)
	}
	if c.DisplayWidth < 8 || c.DisplayWidth > 80 {
		return fmt.Errorf("display_width must be between 8 and 80, got %d", c.DisplayWidth)
	}
	if strings.TrimSpace(c.Listen) == "" {
		return errors.New("listen must not be empty")
	}
	if c.Web != nil {
		if err := c.Web.Validate(); err != nil {
			return fmt.Errorf("invalid web config: %w", err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.DisplayWidth == 0 {
		c.DisplayWidth = def.DisplayWidth
	}
}

type format int

const (
	formatJSON format = iota
	formatTOML
	formatYAML
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func parse(path string, data []byte) (Config, error) {
	var cfg Config
	var err error
	switch formatOf(path) {
	case formatTOML:
		_, err = toml.Decode(string(data), &cfg)
	case formatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
