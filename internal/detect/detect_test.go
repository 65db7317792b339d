package detect

import (
	"testing"

	"github.com/1broseidon/pokertile/internal/platform"
	"github.com/1broseidon/pokertile/internal/wintype"
)

// fakeBackend implements platform.Backend for tests.
type fakeBackend struct {
	windows    []platform.RawWindow
	displays   []platform.Display
	identities map[int]string
	moved      []platform.WindowID
}

func (f *fakeBackend) ListWindows() ([]platform.RawWindow, error) { return f.windows, nil }
func (f *fakeBackend) Displays() ([]platform.Display, error)      { return f.displays, nil }
func (f *fakeBackend) PointerPosition() (platform.Point, error)   { return platform.Point{}, nil }

func (f *fakeBackend) DisplayContaining(p platform.Point) (int, error) {
	for _, d := range f.displays {
		if d.Bounds.Contains(p) {
			return d.ID, nil
		}
	}
	return 0, nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, pid int, bounds platform.Rect) error {
	f.moved = append(f.moved, id)
	return nil
}

func (f *fakeBackend) Activate(id platform.WindowID, pid int) error { return nil }

func (f *fakeBackend) ResolveOwnerIdentity(pid int) string {
	if f.identities == nil {
		return ""
	}
	return f.identities[pid]
}

func singleDisplay() []platform.Display {
	return []platform.Display{
		{ID: 0, Name: "primary", Bounds: platform.Rect{Width: 1920, Height: 1080}},
	}
}

func tableWindow(id platform.WindowID, title string) platform.RawWindow {
	return platform.RawWindow{
		ID:     id,
		PID:    100,
		Title:  title,
		Bounds: platform.Rect{X: 10, Y: 10, Width: 800, Height: 600},
		Alpha:  1.0,
		Owner:  "PokerStars",
	}
}

func tableType() wintype.WindowType {
	return wintype.WindowType{
		ID:           "table",
		Name:         "Table",
		TitlePattern: "*table*",
		ClassPattern: "*pokerstars*",
		Enabled:      true,
	}
}

func newTestDetector(backend platform.Backend) *Detector {
	return NewDetector(backend, wintype.NewMatcher(0, nil), nil)
}

func TestDetect_FiltersMalformedAndInvisible(t *testing.T) {
	backend := &fakeBackend{
		displays:   singleDisplay(),
		identities: map[int]string{100: "com.pokerstars.client"},
		windows: []platform.RawWindow{
			{ID: 0, PID: 100, Title: "Table 0", Bounds: platform.Rect{Width: 10, Height: 10}, Alpha: 1},
			{ID: 2, PID: 0, Title: "Table no pid", Bounds: platform.Rect{Width: 10, Height: 10}, Alpha: 1},
			{ID: 3, PID: 100, Title: "", Bounds: platform.Rect{Width: 10, Height: 10}, Alpha: 1},
			{ID: 4, PID: 100, Title: "Table zero size", Bounds: platform.Rect{Width: 0, Height: 300}, Alpha: 1},
			{ID: 5, PID: 100, Title: "Table transparent", Bounds: platform.Rect{Width: 10, Height: 10}, Alpha: 0},
			tableWindow(6, "Table ok"),
		},
	}

	managed, err := newTestDetector(backend).Detect([]wintype.WindowType{tableType()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(managed) != 1 {
		t.Fatalf("expected 1 managed window, got %d", len(managed))
	}
	if managed[0].ID != 6 {
		t.Fatalf("expected window 6, got %d", managed[0].ID)
	}
	if managed[0].WindowClass != "com.pokerstars.client" {
		t.Fatalf("unexpected window class %q", managed[0].WindowClass)
	}
}

func TestDetect_FirstMatchWinsInListOrder(t *testing.T) {
	backend := &fakeBackend{
		displays:   singleDisplay(),
		identities: map[int]string{100: "com.pokerstars.client"},
		windows:    []platform.RawWindow{tableWindow(1, "Table 1")},
	}

	broad := tableType()
	broad.ID = "broad"
	broad.TitlePattern = "*"
	broad.ClassPattern = "*"

	managed, err := newTestDetector(backend).Detect([]wintype.WindowType{broad, tableType()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(managed) != 1 {
		t.Fatalf("expected 1 managed window, got %d", len(managed))
	}
	if managed[0].Type.ID != "broad" {
		t.Fatalf("expected first type in list order to win, got %q", managed[0].Type.ID)
	}
}

func TestDetect_DeduplicatesByWindowID(t *testing.T) {
	backend := &fakeBackend{
		displays:   singleDisplay(),
		identities: map[int]string{100: "com.pokerstars.client"},
		windows: []platform.RawWindow{
			tableWindow(7, "Table 7"),
			tableWindow(7, "Table 7"),
		},
	}

	managed, err := newTestDetector(backend).Detect([]wintype.WindowType{tableType()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(managed) != 1 {
		t.Fatalf("expected deduplicated result, got %d windows", len(managed))
	}
}

func TestDetect_OwnerFallbacks(t *testing.T) {
	named := tableWindow(1, "Table 1")
	anonymous := tableWindow(2, "Table 2")
	anonymous.Owner = ""

	backend := &fakeBackend{
		displays: singleDisplay(),
		windows:  []platform.RawWindow{named, anonymous},
	}

	anyClass := tableType()
	anyClass.ClassPattern = "*"

	managed, err := newTestDetector(backend).Detect([]wintype.WindowType{anyClass})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(managed) != 2 {
		t.Fatalf("expected 2 managed windows, got %d", len(managed))
	}
	if managed[0].WindowClass != "app.pokerstars" {
		t.Fatalf("expected app.<name> fallback, got %q", managed[0].WindowClass)
	}
	if managed[1].WindowClass != "unknown" {
		t.Fatalf("expected unknown fallback, got %q", managed[1].WindowClass)
	}
}

func TestDetect_AssignsDisplayByCenter(t *testing.T) {
	backend := &fakeBackend{
		displays: []platform.Display{
			{ID: 0, Bounds: platform.Rect{Width: 1920, Height: 1080}},
			{ID: 1, Bounds: platform.Rect{X: 1920, Width: 1920, Height: 1080}},
		},
		identities: map[int]string{100: "com.pokerstars.client"},
	}
	w := tableWindow(1, "Table 1")
	w.Bounds.X = 2000
	backend.windows = []platform.RawWindow{w}

	managed, err := newTestDetector(backend).Detect([]wintype.WindowType{tableType()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if managed[0].DisplayID != 1 {
		t.Fatalf("expected display 1, got %d", managed[0].DisplayID)
	}
}

func TestPickAt_TopmostWins(t *testing.T) {
	classify := func(w platform.RawWindow) string { return w.Owner }
	p := platform.Point{X: 100, Y: 100}

	windows := []platform.RawWindow{
		{ID: 1, Layer: 3, Alpha: 1, Owner: "app.a", Bounds: platform.Rect{Width: 500, Height: 500}},
		{ID: 2, Layer: 1, Alpha: 1, Owner: "app.b", Bounds: platform.Rect{Width: 500, Height: 500}},
		{ID: 3, Layer: 2, Alpha: 1, Owner: "app.c", Bounds: platform.Rect{Width: 500, Height: 500}},
	}

	picked := pickAt(windows, p, classify)
	if picked == nil || picked.ID != 2 {
		t.Fatalf("expected lowest layer index to win, got %+v", picked)
	}
}

func TestPickAt_FiltersChromeSliversAndMisses(t *testing.T) {
	classify := func(w platform.RawWindow) string { return w.Owner }
	p := platform.Point{X: 100, Y: 100}

	windows := []platform.RawWindow{
		// System chrome at a lower (topmost) layer.
		{ID: 1, Layer: 0, Alpha: 1, Owner: "com.apple.dock", Bounds: platform.Rect{Width: 500, Height: 500}},
		// Too small.
		{ID: 2, Layer: 1, Alpha: 1, Owner: "app.a", Bounds: platform.Rect{X: 95, Y: 95, Width: 10, Height: 10}},
		// Near-transparent.
		{ID: 3, Layer: 2, Alpha: 0.05, Owner: "app.b", Bounds: platform.Rect{Width: 500, Height: 500}},
		// Doesn't contain the point.
		{ID: 4, Layer: 3, Alpha: 1, Owner: "app.c", Bounds: platform.Rect{X: 600, Y: 600, Width: 500, Height: 500}},
		// Qualifies.
		{ID: 5, Layer: 4, Alpha: 1, Owner: "app.d", Bounds: platform.Rect{Width: 500, Height: 500}},
	}

	picked := pickAt(windows, p, classify)
	if picked == nil || picked.ID != 5 {
		t.Fatalf("expected window 5, got %+v", picked)
	}

	if got := pickAt(windows, platform.Point{X: 5000, Y: 5000}, classify); got != nil {
		t.Fatalf("expected no pick outside all windows, got %+v", got)
	}
}
