package layout

import (
	"fmt"
	"math"

	"github.com/1broseidon/pokertile/internal/platform"
)

// TableAspectRatio is the width/height ratio poker tables render best at.
const TableAspectRatio = 1.25

// aspectTolerance is how far a cell's natural ratio may deviate from the
// target before the cell is shrunk to compensate.
const aspectTolerance = 0.2

// MaxOverlap caps how much adjacent overlapping cells may share.
const MaxOverlap = 0.5

// NewGridLayout divides the display into rows x cols equal cells.
func NewGridLayout(rows, cols int, display platform.Display) (*Layout, error) {
	if err := validateGrid(rows, cols, display.Bounds); err != nil {
		return nil, err
	}

	bounds := display.Bounds
	cellWidth := bounds.Width / float64(cols)
	cellHeight := bounds.Height / float64(rows)

	l := &Layout{
		Name:     fmt.Sprintf("%dx%d grid", rows, cols),
		Strategy: StrategySequential,
		Slots:    make([]Slot, 0, rows*cols),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			l.Slots = append(l.Slots, Slot{
				ID:        fmt.Sprintf("%d_%d", row, col),
				DisplayID: display.ID,
				Frame: platform.Rect{
					X:      bounds.X + float64(col)*cellWidth,
					Y:      bounds.Y + float64(row)*cellHeight,
					Width:  cellWidth,
					Height: cellHeight,
				},
			})
		}
	}
	return l, nil
}

// NewOverlappingGridLayout builds a grid whose cells deliberately overlap,
// fitting more windows on small screens where full separation isn't needed.
// Cells are sized (1+overlap) times the non-overlapping cell and placed with
// a (1-overlap)-scaled stride. Overlap is clamped to [0, MaxOverlap].
func NewOverlappingGridLayout(rows, cols int, overlap float64, display platform.Display) (*Layout, error) {
	if err := validateGrid(rows, cols, display.Bounds); err != nil {
		return nil, err
	}

	if overlap < 0 {
		overlap = 0
	}
	if overlap > MaxOverlap {
		overlap = MaxOverlap
	}

	bounds := display.Bounds
	baseWidth := bounds.Width / float64(cols)
	baseHeight := bounds.Height / float64(rows)
	cellWidth := baseWidth * (1 + overlap)
	cellHeight := baseHeight * (1 + overlap)
	strideX := baseWidth * (1 - overlap)
	strideY := baseHeight * (1 - overlap)

	l := &Layout{
		Name:     fmt.Sprintf("%dx%d overlapping grid", rows, cols),
		Strategy: StrategySequential,
		Slots:    make([]Slot, 0, rows*cols),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			l.Slots = append(l.Slots, Slot{
				ID:        fmt.Sprintf("%d_%d", row, col),
				DisplayID: display.ID,
				Frame: platform.Rect{
					X:      bounds.X + float64(col)*strideX,
					Y:      bounds.Y + float64(row)*strideY,
					Width:  cellWidth,
					Height: cellHeight,
				},
			})
		}
	}
	return l, nil
}

// NewPokerLayout builds an aspect-ratio-optimized grid for count tables.
func NewPokerLayout(count int, display platform.Display) (*Layout, error) {
	return NewAspectLayout(count, display, TableAspectRatio)
}

// NewAspectLayout picks a near-square grid covering count cells and shrinks
// cells whose natural aspect ratio strays too far from the target, centering
// the shrunk window within its cell so neighbors don't touch. At most count
// slots are emitted even when the grid has spare capacity.
func NewAspectLayout(count int, display platform.Display, targetAspect float64) (*Layout, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid slot count %d", count)
	}
	if display.Bounds.Empty() {
		return nil, fmt.Errorf("degenerate display bounds %+v", display.Bounds)
	}
	if targetAspect <= 0 {
		return nil, fmt.Errorf("invalid target aspect ratio %v", targetAspect)
	}

	rows, cols := aspectGridDimensions(count)
	bounds := display.Bounds
	cellWidth := bounds.Width / float64(cols)
	cellHeight := bounds.Height / float64(rows)

	slotWidth := cellWidth
	slotHeight := cellHeight
	if math.Abs(cellWidth/cellHeight-targetAspect) > aspectTolerance {
		if cellWidth/cellHeight > targetAspect {
			slotWidth = cellHeight * targetAspect
		} else {
			slotHeight = cellWidth / targetAspect
		}
	}
	// Center the (possibly shrunk) slot within its cell.
	padX := (cellWidth - slotWidth) / 2
	padY := (cellHeight - slotHeight) / 2

	l := &Layout{
		Name:     fmt.Sprintf("%d tables", count),
		Strategy: StrategySequential,
		Slots:    make([]Slot, 0, count),
	}
	for row := 0; row < rows && len(l.Slots) < count; row++ {
		for col := 0; col < cols && len(l.Slots) < count; col++ {
			l.Slots = append(l.Slots, Slot{
				ID:        fmt.Sprintf("%d_%d", row, col),
				DisplayID: display.ID,
				Frame: platform.Rect{
					X:      bounds.X + float64(col)*cellWidth + padX,
					Y:      bounds.Y + float64(row)*cellHeight + padY,
					Width:  slotWidth,
					Height: slotHeight,
				},
			})
		}
	}
	return l, nil
}

// aspectGridDimensions maps table counts to near-square grids. Small counts
// use a fixed table; beyond it a ceil-sqrt approximation takes over.
func aspectGridDimensions(count int) (rows, cols int) {
	switch {
	case count == 1:
		return 1, 1
	case count == 2:
		return 1, 2
	case count <= 4:
		return 2, 2
	case count <= 6:
		return 2, 3
	case count <= 9:
		return 3, 3
	case count <= 12:
		return 3, 4
	case count <= 16:
		return 4, 4
	default:
		cols = int(math.Ceil(math.Sqrt(float64(count))))
		rows = int(math.Ceil(float64(count) / float64(cols)))
		return rows, cols
	}
}

func validateGrid(rows, cols int, bounds platform.Rect) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}
	if bounds.Empty() {
		return fmt.Errorf("degenerate display bounds %+v", bounds)
	}
	return nil
}
