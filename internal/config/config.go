// Package config handles the daemon's YAML configuration and the persisted
// table arrangements (configurations) users switch between.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidationError reports which config field failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// HoverActivation configures raising the table under the pointer after it
// has hovered in place for a while.
type HoverActivation struct {
	Enabled bool `yaml:"enabled"`
	DelayMs int  `yaml:"delay_ms"`
}

// Config is the daemon configuration loaded from config.yaml.
type Config struct {
	// PollIntervalMs is how often the daemon rescans windows.
	PollIntervalMs int `yaml:"poll_interval_ms"`
	// LogLevel is one of debug, info, warning, error.
	LogLevel string `yaml:"log_level"`
	// PatternCacheSize bounds the compiled-pattern cache in the matcher.
	PatternCacheSize int             `yaml:"pattern_cache_size"`
	HoverActivation  HoverActivation `yaml:"hover_activation"`
	// Display overrides $DISPLAY when connecting to the X server.
	Display string `yaml:"display,omitempty"`
	// Xauthority overrides $XAUTHORITY when connecting to the X server.
	Xauthority string `yaml:"xauthority,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMs:   1000,
		LogLevel:         "info",
		PatternCacheSize: 50,
		HoverActivation: HoverActivation{
			Enabled: false,
			DelayMs: 350,
		},
	}
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// HoverDelay returns the hover activation delay as a duration.
func (c *Config) HoverDelay() time.Duration {
	return time.Duration(c.HoverActivation.DelayMs) * time.Millisecond
}

// Validate performs strict validation of the configuration.
func (c *Config) Validate() error {
	if c.PollIntervalMs <= 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("must be > 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of: debug, info, warning, error")}
	}
	if c.PatternCacheSize <= 0 {
		return &ValidationError{Path: "pattern_cache_size", Err: fmt.Errorf("must be > 0")}
	}
	if c.HoverActivation.Enabled && c.HoverActivation.DelayMs <= 0 {
		return &ValidationError{Path: "hover_activation.delay_ms", Err: fmt.Errorf("must be > 0 when hover activation is enabled")}
	}
	return nil
}

// DefaultConfigPath returns ~/.config/pokertile/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pokertile", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file is
// not an error; defaults apply.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates a configuration file. Fields the file
// omits keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath writes the configuration to path, creating parent directories.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
