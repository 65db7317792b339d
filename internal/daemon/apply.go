// Package daemon contains the long-running pieces: the window watcher, the
// layout applier, auto activation, and hover activation.
package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/layout"
	"github.com/1broseidon/pokertile/internal/platform"
)

// MoveFailure records a window that could not be placed into its slot.
type MoveFailure struct {
	Window detect.ManagedWindow
	Err    error
}

// ApplyResult reports the outcome of applying a layout.
type ApplyResult struct {
	Moved  int
	Failed []MoveFailure
}

// Applier moves windows into their assigned slots. Applications are
// serialized; concurrent triggers (IPC, auto activation) queue up rather
// than interleave window moves.
type Applier struct {
	mu      sync.Mutex
	backend platform.Backend
	logger  *slog.Logger
}

// NewApplier creates an applier on top of the platform backend.
func NewApplier(backend platform.Backend, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{backend: backend, logger: logger}
}

// Apply assigns windows to the layout's slots and moves each one. A window
// that fails to move is recorded and skipped; the rest still move.
func (a *Applier) Apply(l *layout.Layout, windows []detect.ManagedWindow) (*ApplyResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	assignments, err := layout.Assign(l, windows)
	if err != nil {
		return nil, fmt.Errorf("failed to assign windows: %w", err)
	}

	result := &ApplyResult{}
	for _, assignment := range assignments {
		w := assignment.Window
		if err := a.backend.MoveResize(w.ID, w.PID, assignment.Slot.Frame); err != nil {
			a.logger.Error("failed to move window",
				"window_id", w.ID,
				"title", w.Title,
				"slot", assignment.Slot.ID,
				"error", err)
			result.Failed = append(result.Failed, MoveFailure{Window: w, Err: err})
			continue
		}
		a.logger.Debug("moved window",
			"window_id", w.ID,
			"slot", assignment.Slot.ID,
			"frame", assignment.Slot.Frame)
		result.Moved++
	}

	a.logger.Info("layout applied",
		"layout", l.Name,
		"moved", result.Moved,
		"failed", len(result.Failed))
	return result, nil
}
