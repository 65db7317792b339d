package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/layout"
)

// AutoActivation describes when a configuration should activate on its own.
// Empty criteria never match, so configurations without auto activation are
// only ever applied by hand.
type AutoActivation struct {
	// WindowCount activates when the total managed window count equals
	// this value. Zero disables the total-count criterion.
	WindowCount int `json:"window_count,omitempty"`
	// WindowTypeCount activates when, for every listed type, the number
	// of windows of that type equals the given value.
	WindowTypeCount map[string]int `json:"window_type_count,omitempty"`
}

// Matches reports whether the detected snapshot satisfies the criteria.
func (a *AutoActivation) Matches(windows []detect.ManagedWindow) bool {
	if a == nil {
		return false
	}
	if a.WindowCount <= 0 && len(a.WindowTypeCount) == 0 {
		return false
	}
	if a.WindowCount > 0 && len(windows) != a.WindowCount {
		return false
	}
	if len(a.WindowTypeCount) > 0 {
		counts := make(map[string]int)
		for _, w := range windows {
			counts[w.Type.ID]++
		}
		for typeID, want := range a.WindowTypeCount {
			if counts[typeID] != want {
				return false
			}
		}
	}
	return true
}

// Configuration is a named, persisted arrangement: a layout plus optional
// auto-activation criteria.
type Configuration struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Layout         layout.Layout   `json:"layout"`
	AutoActivation *AutoActivation `json:"auto_activation,omitempty"`
}

// ConfigurationStore persists the configuration list and the active selection
// as a single JSON document.
type ConfigurationStore struct {
	// Path overrides the storage location; empty means the default.
	Path string
}

type configurationState struct {
	Configurations []Configuration `json:"configurations"`
	ActiveID       string          `json:"active_id,omitempty"`
}

// DefaultConfigurationsPath returns ~/.config/pokertile/configurations.json.
func DefaultConfigurationsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pokertile", "configurations.json"), nil
}

func (s *ConfigurationStore) path() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	return DefaultConfigurationsPath()
}

// Load reads all configurations and the active ID. A missing file yields an
// empty list.
func (s *ConfigurationStore) Load() ([]Configuration, string, error) {
	path, err := s.path()
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read configurations: %w", err)
	}

	var state configurationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, "", fmt.Errorf("failed to parse configurations: %w", err)
	}
	return state.Configurations, state.ActiveID, nil
}

// Save writes all configurations and the active ID, validating IDs and every
// embedded layout first.
func (s *ConfigurationStore) Save(configurations []Configuration, activeID string) error {
	seen := make(map[string]bool, len(configurations))
	for _, c := range configurations {
		if c.ID == "" {
			return fmt.Errorf("configuration %q has no id", c.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate configuration id %q", c.ID)
		}
		seen[c.ID] = true
		if err := c.Layout.Validate(); err != nil {
			return fmt.Errorf("configuration %q: %w", c.ID, err)
		}
	}
	if activeID != "" && !seen[activeID] {
		return fmt.Errorf("active configuration %q does not exist", activeID)
	}

	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(configurationState{
		Configurations: configurations,
		ActiveID:       activeID,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configurations: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configurations: %w", err)
	}
	return nil
}

// Get returns the configuration with the given ID.
func (s *ConfigurationStore) Get(id string) (*Configuration, error) {
	configurations, _, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range configurations {
		if configurations[i].ID == id {
			return &configurations[i], nil
		}
	}
	return nil, fmt.Errorf("configuration %q not found", id)
}

// Upsert adds or replaces a configuration by ID.
func (s *ConfigurationStore) Upsert(c Configuration) error {
	configurations, activeID, err := s.Load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range configurations {
		if configurations[i].ID == c.ID {
			configurations[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		configurations = append(configurations, c)
	}
	return s.Save(configurations, activeID)
}

// SetActive records which configuration is active.
func (s *ConfigurationStore) SetActive(id string) error {
	configurations, _, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(configurations, id)
}
