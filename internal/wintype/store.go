package wintype

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the WindowType list as a JSON file.
type Store struct {
	Path string
}

// DefaultStorePath returns the standard window types file location.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pokertile", "window_types.json"), nil
}

func (s *Store) path() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	return DefaultStorePath()
}

// Load reads the stored window types. A missing file yields the built-in
// defaults.
func (s *Store) Load() ([]WindowType, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWindowTypes(), nil
		}
		return nil, fmt.Errorf("failed to read window types: %w", err)
	}

	var types []WindowType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to parse window types: %w", err)
	}
	return types, nil
}

// Save writes the window types, creating the directory if needed.
func (s *Store) Save(types []WindowType) error {
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		if t.ID == "" {
			return fmt.Errorf("window type %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate window type id %q", t.ID)
		}
		seen[t.ID] = true
	}

	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(types, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode window types: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write window types: %w", err)
	}
	return nil
}
