package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Point describes a position in screen coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether r has no usable area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Display describes a physical display and its usable bounds.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// RawWindow is one entry from window enumeration, before any filtering or
// classification. Layer is the stacking index with 0 topmost. Alpha is the
// window opacity in [0,1]. Owner is the best-effort owning application name.
type RawWindow struct {
	ID     WindowID
	PID    int
	Title  string
	Bounds Rect
	Layer  int
	Alpha  float64
	Owner  string
}

// Backend abstracts window-system operations across platforms. Detection is
// read-only; only MoveResize and Activate mutate window state.
type Backend interface {
	ListWindows() ([]RawWindow, error)
	Displays() ([]Display, error)
	DisplayContaining(p Point) (int, error)
	PointerPosition() (Point, error)
	MoveResize(id WindowID, pid int, bounds Rect) error
	Activate(id WindowID, pid int) error
	// ResolveOwnerIdentity returns a stable identifier for the application
	// owning pid, or "" when none is known.
	ResolveOwnerIdentity(pid int) string
}
