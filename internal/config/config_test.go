package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Version != DefaultVersion {
		t.Fatalf("expected version %d, got %d", DefaultVersion, cfg.Version)
	}
	if cfg.DisplayWidth != DefaultDisplayWidth {
		t.Fatalf("expected display_width %d, got %d", DefaultDisplayWidth, cfg.DisplayWidth)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestLoadOrDefaultMissingConfig(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			content := "{}"
			if filepath.Ext(name) != ".json" {
				content = ""
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if cfg.Version != DefaultVersion {
				t.Fatalf("expected default version %d, got %d", DefaultVersion, cfg.Version)
			}
			if cfg.Theme != DefaultTheme {
				t.Fatalf("expected default theme %q, got %q", DefaultTheme, cfg.Theme)
			}
		})
	}
}

func TestLoadFormats(t *testing.T) {
	cases := map[string]string{
		"config.json": `{"title": "Desk", "theme": "light", "display_width": 30}`,
		"config.toml": "title = \"Desk\"\ntheme = \"light\"\ndisplay_width = 30\n",
		"config.yml":  "title: Desk\ntheme: light\ndisplay_width: 30\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if cfg.Title != "Desk" || cfg.Theme != ThemeLight || cfg.DisplayWidth != 30 {
				t.Fatalf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	cases := map[string]func(*Config){
		"theme":         func(c *Config) { c.Theme = "neon" },
		"display width": func(c *Config) { c.DisplayWidth = 2 },
		"version":       func(c *Config) { c.Version = 9 },
		"listen":        func(c *Config) { c.Listen = " " },
		"web timeout": func(c *Config) {
			bad := "soon"
			c.Web = &WebConfig{WriteTimeout: &bad}
		},
		"empty origin": func(c *Config) { c.Web = &WebConfig{AllowedOrigins: []string{""}} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestWebConfigGetters(t *testing.T) {
	var nilCfg *WebConfig
	if got := nilCfg.GetReadHeaderTimeout(); got != DefaultReadHeaderTimeout {
		t.Errorf("nil read header timeout = %v, want %v", got, DefaultReadHeaderTimeout)
	}
	if got := nilCfg.GetAllowedOrigins(); got != nil {
		t.Errorf("nil allowed origins = %v, want nil", got)
	}

	write := "2s"
	cfg := &WebConfig{WriteTimeout: &write}
	if got := cfg.GetWriteTimeout(); got != 2*time.Second {
		t.Errorf("write timeout = %v, want 2s", got)
	}
	if got := cfg.GetReadHeaderTimeout(); got != DefaultReadHeaderTimeout {
		t.Errorf("read header timeout = %v, want default", got)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			timeout := "3s"
			cfg := Config{
				Version:      DefaultVersion,
				Theme:        ThemeLight,
				DisplayWidth: 40,
				Web:          &WebConfig{WriteTimeout: &timeout, AllowedOrigins: []string{"example.com"}},
			}
			if err := Save(path, cfg); err != nil {
				t.Fatalf("save config: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if loaded.DisplayWidth != 40 || loaded.Theme != ThemeLight {
				t.Fatalf("unexpected config: %+v", loaded)
			}
			if loaded.Title != DefaultTitle {
				t.Fatalf("expected default title, got %q", loaded.Title)
			}
			if got := loaded.Web.GetWriteTimeout(); got != 3*time.Second {
				t.Fatalf("expected write timeout 3s, got %v", got)
			}
			if origins := loaded.Web.GetAllowedOrigins(); len(origins) != 1 || origins[0] != "example.com" {
				t.Fatalf("unexpected allowed origins: %v", origins)
			}
		})
	}
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/custom.toml")
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if path != "/tmp/custom.toml" {
		t.Fatalf("expected env path, got %q", path)
	}
}
