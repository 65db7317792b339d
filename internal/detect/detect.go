// Package detect turns raw window enumeration into classified, managed
// window snapshots.
package detect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/pokertile/internal/platform"
	"github.com/1broseidon/pokertile/internal/wintype"
)

// ManagedWindow is a detected, classified window snapshot eligible for
// placement. Identity is by ID alone: every detection cycle rebuilds these
// values, so two cycles produce structurally fresh but logically identical
// records for the same window.
type ManagedWindow struct {
	ID          platform.WindowID
	PID         int
	Title       string
	WindowClass string
	Frame       platform.Rect
	DisplayID   int
	Type        wintype.WindowType
}

// Detector classifies on-screen windows against configured window types.
// Detection is read-only with respect to the windowing system.
type Detector struct {
	backend platform.Backend
	matcher *wintype.Matcher
	logger  *slog.Logger
}

// NewDetector creates a detector over the given backend.
func NewDetector(backend platform.Backend, matcher *wintype.Matcher, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		backend: backend,
		matcher: matcher,
		logger:  logger,
	}
}

// Detect enumerates windows and returns those matching an enabled window
// type, in enumeration order. Types are tested in list order; the first
// match wins and a window appears at most once.
func (d *Detector) Detect(types []wintype.WindowType) ([]ManagedWindow, error) {
	raw, err := d.backend.ListWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}

	displays, err := d.backend.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate displays: %w", err)
	}

	var managed []ManagedWindow
	seen := make(map[platform.WindowID]bool)

	for _, w := range raw {
		if w.ID == 0 || w.PID <= 0 || w.Title == "" {
			d.logger.Debug("skipping malformed window record",
				"id", w.ID, "pid", w.PID)
			continue
		}
		if w.Bounds.Empty() {
			continue
		}
		if w.Alpha <= 0 {
			continue
		}
		if seen[w.ID] {
			continue
		}

		class := d.classifyOwner(w)

		matched, ok := d.matchType(types, w.Title, class)
		if !ok {
			continue
		}

		seen[w.ID] = true
		managed = append(managed, ManagedWindow{
			ID:          w.ID,
			PID:         w.PID,
			Title:       w.Title,
			WindowClass: class,
			Frame:       w.Bounds,
			DisplayID:   displayFor(displays, w.Bounds),
			Type:        matched,
		})
	}

	return managed, nil
}

func (d *Detector) matchType(types []wintype.WindowType, title, class string) (wintype.WindowType, bool) {
	for _, t := range types {
		if d.matcher.Matches(t, title, class) {
			return t, true
		}
	}
	return wintype.WindowType{}, false
}

// classifyOwner derives the windowClass string: a stable application
// identifier when available, else "app.<lowercased-name>", else "unknown".
func (d *Detector) classifyOwner(w platform.RawWindow) string {
	if identity := d.backend.ResolveOwnerIdentity(w.PID); identity != "" {
		return identity
	}
	if w.Owner != "" {
		return "app." + strings.ToLower(w.Owner)
	}
	return "unknown"
}

// displayFor returns the ID of the display containing the window's center,
// falling back to the first display.
func displayFor(displays []platform.Display, frame platform.Rect) int {
	center := frame.Center()
	for _, d := range displays {
		if d.Bounds.Contains(center) {
			return d.ID
		}
	}
	if len(displays) > 0 {
		return displays[0].ID
	}
	return 0
}
