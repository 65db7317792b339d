package detect

import (
	"fmt"
	"strings"

	"github.com/1broseidon/pokertile/internal/platform"
)

// Picking uses stricter thresholds than detection to avoid selecting
// decorative slivers under the cursor.
const (
	pickMinDimension = 10.0
	pickMinAlpha     = 0.1
)

// SystemClassPrefixes identifies system-chrome owners that are never valid
// pick targets (dock, window server, notification/control centers, file
// manager).
var SystemClassPrefixes = []string{
	"com.apple.dock",
	"com.apple.windowserver",
	"com.apple.notificationcenterui",
	"com.apple.controlcenter",
	"com.apple.finder",
}

// PickAt returns the topmost qualifying window under the given point, or
// nil when nothing qualifies.
func (d *Detector) PickAt(p platform.Point) (*platform.RawWindow, error) {
	raw, err := d.backend.ListWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}

	picked := pickAt(raw, p, func(w platform.RawWindow) string {
		return d.classifyOwner(w)
	})
	return picked, nil
}

// pickAt selects the qualifying window containing p with the lowest layer
// index. Ties keep the first-encountered window.
func pickAt(windows []platform.RawWindow, p platform.Point, classify func(platform.RawWindow) string) *platform.RawWindow {
	var best *platform.RawWindow
	for i := range windows {
		w := windows[i]
		if w.Bounds.Width <= pickMinDimension || w.Bounds.Height <= pickMinDimension {
			continue
		}
		if w.Alpha <= pickMinAlpha {
			continue
		}
		if !w.Bounds.Contains(p) {
			continue
		}
		if isSystemClass(classify(w)) {
			continue
		}
		if best == nil || w.Layer < best.Layer {
			best = &windows[i]
		}
	}
	return best
}

func isSystemClass(class string) bool {
	lower := strings.ToLower(class)
	for _, prefix := range SystemClassPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
