// Package layout holds the slot model, grid generators, grid inference, and
// the window-to-slot assignment engine. Everything here is pure computation
// over immutable snapshots.
package layout

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/pokertile/internal/platform"
)

// MatchingStrategy selects how windows map onto slots.
type MatchingStrategy string

const (
	// StrategySequential fills slots in priority order per display.
	StrategySequential MatchingStrategy = "sequential"
	// StrategyByType clusters windows of the same type onto consecutive slots.
	StrategyByType MatchingStrategy = "by_type"
)

// Slot is a named rectangular placement target tied to a display. Higher
// priority slots fill first. IDs are unique within a layout.
type Slot struct {
	ID        string
	Frame     platform.Rect
	DisplayID int
	Priority  int
}

// Layout is a named set of slots plus a matching strategy.
type Layout struct {
	Name     string           `json:"name"`
	Strategy MatchingStrategy `json:"matching_strategy"`
	Slots    []Slot           `json:"slots"`
}

// slotJSON flattens the frame to four numeric fields so persisted layouts
// stay toolable and diffable.
type slotJSON struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	DisplayID int     `json:"display_id"`
	Priority  int     `json:"priority"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(slotJSON{
		ID:        s.ID,
		X:         s.Frame.X,
		Y:         s.Frame.Y,
		Width:     s.Frame.Width,
		Height:    s.Frame.Height,
		DisplayID: s.DisplayID,
		Priority:  s.Priority,
	})
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw slotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Slot{
		ID:        raw.ID,
		Frame:     platform.Rect{X: raw.X, Y: raw.Y, Width: raw.Width, Height: raw.Height},
		DisplayID: raw.DisplayID,
		Priority:  raw.Priority,
	}
	return nil
}

// Validate checks layout structural invariants.
func (l *Layout) Validate() error {
	if l == nil || len(l.Slots) == 0 {
		return fmt.Errorf("layout has no slots")
	}
	switch l.Strategy {
	case StrategySequential, StrategyByType:
	default:
		return fmt.Errorf("unknown matching strategy %q", l.Strategy)
	}
	seen := make(map[string]bool, len(l.Slots))
	for _, s := range l.Slots {
		if s.ID == "" {
			return fmt.Errorf("slot has no id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate slot id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
