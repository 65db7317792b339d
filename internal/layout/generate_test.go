package layout

import (
	"math"
	"testing"

	"github.com/1broseidon/pokertile/internal/platform"
)

func testDisplay() platform.Display {
	return platform.Display{
		ID:     0,
		Name:   "primary",
		Bounds: platform.Rect{X: 0, Y: 0, Width: 1600, Height: 900},
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestNewGridLayout(t *testing.T) {
	l, err := NewGridLayout(2, 3, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(l.Slots))
	}
	if l.Strategy != StrategySequential {
		t.Fatalf("expected sequential strategy, got %q", l.Strategy)
	}

	for _, s := range l.Slots {
		if !approxEqual(s.Frame.Width, 1600.0/3) || !approxEqual(s.Frame.Height, 450) {
			t.Fatalf("slot %s has wrong cell size %+v", s.ID, s.Frame)
		}
	}

	// Second row, third column.
	last := l.Slots[5]
	if last.ID != "1_2" {
		t.Fatalf("expected id 1_2, got %q", last.ID)
	}
	if !approxEqual(last.Frame.X, 2*1600.0/3) || !approxEqual(last.Frame.Y, 450) {
		t.Fatalf("unexpected position %+v", last.Frame)
	}
}

func TestNewGridLayoutRespectsDisplayOrigin(t *testing.T) {
	display := platform.Display{
		ID:     1,
		Bounds: platform.Rect{X: 1600, Y: 100, Width: 800, Height: 600},
	}
	l, err := NewGridLayout(1, 2, display)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(l.Slots[0].Frame.X, 1600) || !approxEqual(l.Slots[1].Frame.X, 2000) {
		t.Fatalf("slots ignore display origin: %+v %+v", l.Slots[0].Frame, l.Slots[1].Frame)
	}
	for _, s := range l.Slots {
		if s.DisplayID != 1 {
			t.Fatalf("slot %s tagged with display %d", s.ID, s.DisplayID)
		}
	}
}

func TestNewGridLayoutRejectsBadInput(t *testing.T) {
	if _, err := NewGridLayout(0, 3, testDisplay()); err == nil {
		t.Fatalf("expected error for zero rows")
	}
	if _, err := NewGridLayout(2, -1, testDisplay()); err == nil {
		t.Fatalf("expected error for negative cols")
	}
	empty := platform.Display{ID: 0}
	if _, err := NewGridLayout(2, 2, empty); err == nil {
		t.Fatalf("expected error for degenerate bounds")
	}
}

func TestNewOverlappingGridLayout(t *testing.T) {
	l, err := NewOverlappingGridLayout(2, 2, 0.25, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(l.Slots))
	}

	base := 800.0
	wantWidth := base * 1.25
	wantStride := base * 0.75
	if !approxEqual(l.Slots[0].Frame.Width, wantWidth) {
		t.Fatalf("expected cell width %v, got %v", wantWidth, l.Slots[0].Frame.Width)
	}
	if !approxEqual(l.Slots[1].Frame.X, wantStride) {
		t.Fatalf("expected stride %v, got x=%v", wantStride, l.Slots[1].Frame.X)
	}
}

func TestNewOverlappingGridLayoutClampsOverlap(t *testing.T) {
	high, err := NewOverlappingGridLayout(1, 2, 0.9, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	capped, err := NewOverlappingGridLayout(1, 2, MaxOverlap, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(high.Slots[0].Frame.Width, capped.Slots[0].Frame.Width) {
		t.Fatalf("overlap 0.9 not clamped: %v vs %v",
			high.Slots[0].Frame.Width, capped.Slots[0].Frame.Width)
	}

	negative, err := NewOverlappingGridLayout(1, 2, -0.3, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plain, err := NewGridLayout(1, 2, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(negative.Slots[0].Frame.Width, plain.Slots[0].Frame.Width) {
		t.Fatalf("negative overlap not clamped to zero")
	}
}

func TestNewPokerLayoutFourTables(t *testing.T) {
	l, err := NewPokerLayout(4, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Slots) != 4 {
		t.Fatalf("expected exactly 4 slots, got %d", len(l.Slots))
	}

	for _, s := range l.Slots {
		ratio := s.Frame.Width / s.Frame.Height
		if math.Abs(ratio-TableAspectRatio) > aspectTolerance+1e-9 {
			t.Fatalf("slot %s aspect ratio %v outside tolerance of %v", s.ID, ratio, TableAspectRatio)
		}
		if s.Frame.Width > 800+1e-9 || s.Frame.Height > 450+1e-9 {
			t.Fatalf("slot %s exceeds its 2x2 cell: %+v", s.ID, s.Frame)
		}
	}
}

func TestNewPokerLayoutEmitsAtMostCount(t *testing.T) {
	// 5 tables on a 2x3 grid leaves one cell unused.
	l, err := NewPokerLayout(5, testDisplay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Slots) != 5 {
		t.Fatalf("expected exactly 5 slots, got %d", len(l.Slots))
	}
}

func TestAspectGridDimensions(t *testing.T) {
	cases := []struct {
		count, rows, cols int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{6, 2, 3},
		{9, 3, 3},
		{12, 3, 4},
		{16, 4, 4},
		{20, 4, 5},
	}
	for _, c := range cases {
		rows, cols := aspectGridDimensions(c.count)
		if rows != c.rows || cols != c.cols {
			t.Fatalf("count %d: expected %dx%d, got %dx%d", c.count, c.rows, c.cols, rows, cols)
		}
		if rows*cols < c.count {
			t.Fatalf("count %d: grid %dx%d too small", c.count, rows, cols)
		}
	}
}

func TestNewAspectLayoutRejectsBadInput(t *testing.T) {
	if _, err := NewPokerLayout(0, testDisplay()); err == nil {
		t.Fatalf("expected error for zero count")
	}
	if _, err := NewAspectLayout(4, testDisplay(), -1); err == nil {
		t.Fatalf("expected error for negative aspect ratio")
	}
	if _, err := NewPokerLayout(4, platform.Display{}); err == nil {
		t.Fatalf("expected error for degenerate bounds")
	}
}
