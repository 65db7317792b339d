package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollIntervalMs != 1000 {
		t.Fatalf("expected default poll interval 1000, got %d", cfg.PollIntervalMs)
	}
	if cfg.PatternCacheSize != 50 {
		t.Fatalf("expected default pattern cache size 50, got %d", cfg.PatternCacheSize)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromPathPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "poll_interval_ms: 250\nhover_activation:\n  enabled: true\n  delay_ms: 500\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollIntervalMs != 250 {
		t.Fatalf("expected poll interval 250, got %d", cfg.PollIntervalMs)
	}
	if !cfg.HoverActivation.Enabled || cfg.HoverActivation.DelayMs != 500 {
		t.Fatalf("hover activation not applied: %+v", cfg.HoverActivation)
	}
	if cfg.PatternCacheSize != 50 {
		t.Fatalf("expected untouched default cache size, got %d", cfg.PatternCacheSize)
	}
}

func TestLoadFromPathRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		path    string
	}{
		{"bad poll interval", "poll_interval_ms: 0\n", "poll_interval_ms"},
		{"bad log level", "log_level: verbose\n", "log_level"},
		{"bad cache size", "pattern_cache_size: -1\n", "pattern_cache_size"},
		{"hover without delay", "hover_activation:\n  enabled: true\n  delay_ms: 0\n", "hover_activation.delay_ms"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(c.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			_, err := LoadFromPath(path)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Path != c.path {
				t.Fatalf("expected path %q, got %q", c.path, verr.Path)
			}
		})
	}
}

func TestSaveToPathRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.PollIntervalMs = 2000
	cfg.LogLevel = "debug"
	if err := cfg.SaveToPath(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.PollIntervalMs != 2000 || loaded.LogLevel != "debug" {
		t.Fatalf("round trip lost values: %+v", loaded)
	}
}
