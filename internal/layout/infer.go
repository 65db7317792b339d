package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/1broseidon/pokertile/internal/platform"
)

const (
	// clusterTolerance groups window edges that are nearly aligned into
	// one grid line.
	clusterTolerance = 15.0
	// minSlotsForInference is the smallest set worth analyzing; below it
	// there is too little signal to call anything a grid.
	minSlotsForInference = 3
	// cellFill leaves a small margin so inferred cells don't touch.
	cellFill = 0.95
)

// Optimize converts an arbitrary captured arrangement into clean grids, one
// display at a time. Slots whose positions plausibly form a rows x cols
// grid snap to it; otherwise the display falls back to a regular grid that
// ignores the original positions entirely. This two-tier strategy preserves
// intentional arrangements while always producing something usable.
func Optimize(slots []Slot, displays []platform.Display) []Slot {
	byDisplay := make(map[int][]Slot)
	for _, s := range slots {
		byDisplay[s.DisplayID] = append(byDisplay[s.DisplayID], s)
	}

	ids := make([]int, 0, len(byDisplay))
	for id := range byDisplay {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	bounds := make(map[int]platform.Rect, len(displays))
	for _, d := range displays {
		bounds[d.ID] = d.Bounds
	}

	var out []Slot
	for _, id := range ids {
		group := byDisplay[id]
		displayBounds, ok := bounds[id]
		if !ok {
			displayBounds = boundingBox(group)
		}
		out = append(out, optimizeDisplay(group, id, displayBounds)...)
	}
	return out
}

func optimizeDisplay(slots []Slot, displayID int, displayBounds platform.Rect) []Slot {
	if len(slots) < minSlotsForInference {
		out := make([]Slot, len(slots))
		copy(out, slots)
		return out
	}

	xs := make([]float64, len(slots))
	ys := make([]float64, len(slots))
	for i, s := range slots {
		xs[i] = s.Frame.X
		ys[i] = s.Frame.Y
	}

	colPositions := clusterPositions(xs, clusterTolerance)
	rowPositions := clusterPositions(ys, clusterTolerance)
	cols := len(colPositions)
	rows := len(rowPositions)

	// A plausible grid is dense: enough cells for every window, but not
	// wildly more cells than windows.
	cells := rows * cols
	if cells < len(slots) || cells > 2*len(slots) {
		return regularGrid(len(slots), displayID, displayBounds)
	}

	avgWidth := averageGap(colPositions, func() float64 { return meanWidth(slots) })
	avgHeight := averageGap(rowPositions, func() float64 { return meanHeight(slots) })

	out := make([]Slot, 0, cells)
	for r, y := range rowPositions {
		height := avgHeight
		if r < rows-1 {
			height = rowPositions[r+1] - y
		}
		for c, x := range colPositions {
			width := avgWidth
			if c < cols-1 {
				width = colPositions[c+1] - x
			}
			out = append(out, Slot{
				ID:        fmt.Sprintf("%d_%d", r, c),
				DisplayID: displayID,
				Frame: platform.Rect{
					X:      x,
					Y:      y,
					Width:  width * cellFill,
					Height: height * cellFill,
				},
			})
		}
	}
	return out
}

// regularGrid ignores the observed positions and evenly divides 95% of the
// display into a floor(sqrt(n)) x ceil(n/cols) grid.
func regularGrid(count, displayID int, bounds platform.Rect) []Slot {
	cols := int(math.Floor(math.Sqrt(float64(count))))
	if cols < 1 {
		cols = 1
	}
	rows := int(math.Ceil(float64(count) / float64(cols)))

	marginX := bounds.Width * (1 - cellFill) / 2
	marginY := bounds.Height * (1 - cellFill) / 2
	cellWidth := bounds.Width * cellFill / float64(cols)
	cellHeight := bounds.Height * cellFill / float64(rows)

	out := make([]Slot, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, Slot{
				ID:        fmt.Sprintf("%d_%d", r, c),
				DisplayID: displayID,
				Frame: platform.Rect{
					X:      bounds.X + marginX + float64(c)*cellWidth,
					Y:      bounds.Y + marginY + float64(r)*cellHeight,
					Width:  cellWidth,
					Height: cellHeight,
				},
			})
		}
	}
	return out
}

// clusterPositions reduces raw edge coordinates to unique grid-line
// positions. Values are sorted, then each joins the current cluster when
// within tolerance of its representative (the cluster's first value).
func clusterPositions(values []float64, tolerance float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var reps []float64
	for _, v := range sorted {
		if len(reps) == 0 || v-reps[len(reps)-1] > tolerance {
			reps = append(reps, v)
		}
	}
	return reps
}

// averageGap returns the mean distance between consecutive positions, or
// the fallback when only a single row/column exists.
func averageGap(positions []float64, fallback func() float64) float64 {
	if len(positions) < 2 {
		return fallback()
	}
	total := 0.0
	for i := 1; i < len(positions); i++ {
		total += positions[i] - positions[i-1]
	}
	return total / float64(len(positions)-1)
}

func meanWidth(slots []Slot) float64 {
	total := 0.0
	for _, s := range slots {
		total += s.Frame.Width
	}
	return total / float64(len(slots))
}

func meanHeight(slots []Slot) float64 {
	total := 0.0
	for _, s := range slots {
		total += s.Frame.Height
	}
	return total / float64(len(slots))
}

func boundingBox(slots []Slot) platform.Rect {
	if len(slots) == 0 {
		return platform.Rect{}
	}
	minX, minY := slots[0].Frame.X, slots[0].Frame.Y
	maxX := slots[0].Frame.X + slots[0].Frame.Width
	maxY := slots[0].Frame.Y + slots[0].Frame.Height
	for _, s := range slots[1:] {
		minX = math.Min(minX, s.Frame.X)
		minY = math.Min(minY, s.Frame.Y)
		maxX = math.Max(maxX, s.Frame.X+s.Frame.Width)
		maxY = math.Max(maxY, s.Frame.Y+s.Frame.Height)
	}
	return platform.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
