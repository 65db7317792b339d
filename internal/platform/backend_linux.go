//go:build linux

package platform

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/pokertile/internal/x11"
)

// X11Backend wraps an X11 connection behind the platform Backend interface.
type X11Backend struct {
	conn *x11.Connection

	mu         sync.Mutex
	ownerByPID map[int]string // WM_CLASS seen during enumeration, keyed by pid
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend creates a backend by opening a fresh X11 connection.
func NewX11Backend() (*X11Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Backend{
		conn:       conn,
		ownerByPID: make(map[int]string),
	}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *X11Backend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// ListWindows enumerates on-screen windows in stacking order. Layer 0 is the
// topmost window.
func (b *X11Backend) ListWindows() ([]RawWindow, error) {
	stacking, err := b.conn.StackingOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to get stacking order: %w", err)
	}

	windows := make([]RawWindow, 0, len(stacking))
	// _NET_CLIENT_LIST_STACKING is bottom-to-top; invert so 0 is topmost.
	for i := len(stacking) - 1; i >= 0; i-- {
		windowID := stacking[i]

		x, y, w, h, ok := b.conn.WindowGeometry(windowID)
		if !ok {
			continue
		}

		pid := b.conn.WindowPID(windowID)
		class := b.conn.WindowClass(windowID)
		if pid > 0 && class != "" {
			b.mu.Lock()
			b.ownerByPID[pid] = class
			b.mu.Unlock()
		}

		owner := b.conn.WindowInstance(windowID)
		if owner == "" {
			owner = class
		}

		windows = append(windows, RawWindow{
			ID:     WindowID(windowID),
			PID:    pid,
			Title:  b.conn.WindowTitle(windowID),
			Bounds: Rect{X: float64(x), Y: float64(y), Width: float64(w), Height: float64(h)},
			Layer:  len(stacking) - 1 - i,
			Alpha:  b.conn.WindowOpacity(windowID),
			Owner:  owner,
		})
	}

	return windows, nil
}

// Displays returns all active displays.
func (b *X11Backend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no displays found")
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:   m.ID,
			Name: m.Name,
			Bounds: Rect{
				X:      float64(m.X),
				Y:      float64(m.Y),
				Width:  float64(m.Width),
				Height: float64(m.Height),
			},
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// DisplayContaining returns the ID of the display whose bounds contain p.
func (b *X11Backend) DisplayContaining(p Point) (int, error) {
	displays, err := b.Displays()
	if err != nil {
		return 0, err
	}
	for _, d := range displays {
		if d.Bounds.Contains(p) {
			return d.ID, nil
		}
	}
	return displays[0].ID, nil
}

// PointerPosition returns the current mouse position in root coordinates.
func (b *X11Backend) PointerPosition() (Point, error) {
	x, y, err := b.conn.PointerPosition()
	if err != nil {
		return Point{}, err
	}
	return Point{X: float64(x), Y: float64(y)}, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *X11Backend) MoveResize(id WindowID, pid int, bounds Rect) error {
	return b.conn.MoveResizeWindow(
		xproto.Window(id),
		int(bounds.X),
		int(bounds.Y),
		int(bounds.Width),
		int(bounds.Height),
	)
}

// Activate raises and focuses a window.
func (b *X11Backend) Activate(id WindowID, pid int) error {
	return b.conn.ActivateWindow(xproto.Window(id))
}

// ResolveOwnerIdentity returns the WM_CLASS last seen for pid, falling back
// to the process name from /proc.
func (b *X11Backend) ResolveOwnerIdentity(pid int) string {
	if pid <= 0 {
		return ""
	}

	b.mu.Lock()
	class, ok := b.ownerByPID[pid]
	b.mu.Unlock()
	if ok && class != "" {
		return class
	}

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(comm))
}
