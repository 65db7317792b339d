package daemon

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/layout"
	"github.com/1broseidon/pokertile/internal/platform"
	"github.com/1broseidon/pokertile/internal/wintype"
)

type fakeBackend struct {
	windows   []platform.RawWindow
	displays  []platform.Display
	pointer   platform.Point
	moved     map[platform.WindowID]platform.Rect
	activated []platform.WindowID
	failMove  map[platform.WindowID]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		displays: []platform.Display{
			{ID: 0, Name: "primary", Bounds: platform.Rect{Width: 1600, Height: 900}},
		},
		moved:    make(map[platform.WindowID]platform.Rect),
		failMove: make(map[platform.WindowID]bool),
	}
}

func (b *fakeBackend) ListWindows() ([]platform.RawWindow, error) { return b.windows, nil }
func (b *fakeBackend) Displays() ([]platform.Display, error)      { return b.displays, nil }

func (b *fakeBackend) DisplayContaining(p platform.Point) (int, error) {
	for _, d := range b.displays {
		if d.Bounds.Contains(p) {
			return d.ID, nil
		}
	}
	return b.displays[0].ID, nil
}

func (b *fakeBackend) PointerPosition() (platform.Point, error) { return b.pointer, nil }

func (b *fakeBackend) MoveResize(id platform.WindowID, pid int, bounds platform.Rect) error {
	if b.failMove[id] {
		return fmt.Errorf("window %d is unmovable", id)
	}
	b.moved[id] = bounds
	return nil
}

func (b *fakeBackend) Activate(id platform.WindowID, pid int) error {
	b.activated = append(b.activated, id)
	return nil
}

func (b *fakeBackend) ResolveOwnerIdentity(pid int) string { return "pokerstars" }

func testWindows(n int) []detect.ManagedWindow {
	windows := make([]detect.ManagedWindow, n)
	for i := range windows {
		windows[i] = detect.ManagedWindow{
			ID:        platform.WindowID(i + 1),
			PID:       100 + i,
			Title:     fmt.Sprintf("Table %d", i+1),
			DisplayID: 0,
			Type:      wintype.WindowType{ID: "cash", Enabled: true},
		}
	}
	return windows
}

func testLayout(slots int) *layout.Layout {
	l := &layout.Layout{Name: "test", Strategy: layout.StrategySequential}
	for i := 0; i < slots; i++ {
		l.Slots = append(l.Slots, layout.Slot{
			ID:        fmt.Sprintf("slot_%d", i+1),
			DisplayID: 0,
			Priority:  slots - i,
			Frame:     platform.Rect{X: float64(i * 400), Width: 400, Height: 300},
		})
	}
	return l
}

func TestApplierMovesAssignedWindows(t *testing.T) {
	backend := newFakeBackend()
	applier := NewApplier(backend, slog.Default())

	result, err := applier.Apply(testLayout(3), testWindows(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Moved != 3 || len(result.Failed) != 0 {
		t.Fatalf("expected 3 moved 0 failed, got %d/%d", result.Moved, len(result.Failed))
	}

	frame, ok := backend.moved[2]
	if !ok {
		t.Fatalf("window 2 never moved")
	}
	if frame.X != 400 {
		t.Fatalf("window 2 moved to wrong slot: %+v", frame)
	}
}

func TestApplierContinuesPastFailures(t *testing.T) {
	backend := newFakeBackend()
	backend.failMove[2] = true
	applier := NewApplier(backend, slog.Default())

	result, err := applier.Apply(testLayout(3), testWindows(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Moved != 2 {
		t.Fatalf("expected 2 moved, got %d", result.Moved)
	}
	if len(result.Failed) != 1 || result.Failed[0].Window.ID != 2 {
		t.Fatalf("expected window 2 in failures, got %+v", result.Failed)
	}
	if _, ok := backend.moved[3]; !ok {
		t.Fatalf("window 3 should still move after window 2 failed")
	}
}

func TestApplierRejectsInvalidLayout(t *testing.T) {
	applier := NewApplier(newFakeBackend(), slog.Default())

	if _, err := applier.Apply(&layout.Layout{Name: "empty"}, testWindows(1)); err == nil {
		t.Fatalf("expected error for invalid layout")
	}
}
