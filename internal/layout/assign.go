package layout

import (
	"sort"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/platform"
)

// Assignment pairs a managed window with the slot it should occupy.
type Assignment struct {
	Window detect.ManagedWindow
	Slot   Slot
}

// Assign computes a deterministic window-to-slot mapping for the layout's
// strategy. Inputs are never mutated; identical inputs always produce the
// identical mapping. Windows that cannot be placed are simply absent from
// the result (best effort, not an error).
func Assign(l *Layout, windows []detect.ManagedWindow) ([]Assignment, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	switch l.Strategy {
	case StrategyByType:
		return assignByType(l, windows), nil
	default:
		return assignSequential(l, windows), nil
	}
}

// assignSequential pairs the i-th window on a display with the i-th slot in
// priority order. Windows beyond the slot count stay unplaced.
func assignSequential(l *Layout, windows []detect.ManagedWindow) []Assignment {
	slotPools := slotsByDisplay(l.Slots)
	winGroups, displayOrder := windowsByDisplay(windows)

	var out []Assignment
	for _, displayID := range displayOrder {
		pool := slotPools[displayID]
		for i, w := range winGroups[displayID] {
			if i >= len(pool) {
				break
			}
			out = append(out, Assignment{Window: w, Slot: pool[i]})
		}
	}
	return out
}

// assignByType clusters windows of the same type onto consecutive slots per
// display, then places per-display leftovers, then falls back to any unused
// slot anywhere. The global fallback can place a window on another display;
// that tradeoff is accepted so no window is silently lost while slots remain.
func assignByType(l *Layout, windows []detect.ManagedWindow) []Assignment {
	slotPools := slotsByDisplay(l.Slots)
	winGroups, displayOrder := windowsByDisplay(windows)

	var out []Assignment
	assigned := make(map[platform.WindowID]bool)
	usedSlots := make(map[string]bool)

	take := func(w detect.ManagedWindow, s Slot) {
		out = append(out, Assignment{Window: w, Slot: s})
		assigned[w.ID] = true
		usedSlots[s.ID] = true
	}

	for _, displayID := range displayOrder {
		pool := slotPools[displayID]
		wins := winGroups[displayID]

		// Type groups in first-appearance order keep the mapping
		// deterministic regardless of how callers group their windows.
		for _, group := range typeGroups(wins) {
			n := len(group)
			if n > len(pool) {
				n = len(pool)
			}
			for i := 0; i < n; i++ {
				take(group[i], pool[i])
			}
			pool = pool[n:]
		}

		// Leftover windows on this display take whatever slots remain.
		for _, w := range wins {
			if assigned[w.ID] || len(pool) == 0 {
				continue
			}
			take(w, pool[0])
			pool = pool[1:]
		}
	}

	// Global fallback: recover windows whose own display had no slots.
	var free []Slot
	for _, displayID := range sortedDisplayIDs(slotPools) {
		for _, s := range slotPools[displayID] {
			if !usedSlots[s.ID] {
				free = append(free, s)
			}
		}
	}
	sort.SliceStable(free, func(i, j int) bool {
		if free[i].Priority != free[j].Priority {
			return free[i].Priority > free[j].Priority
		}
		return free[i].ID < free[j].ID
	})

	for _, w := range windows {
		if assigned[w.ID] || len(free) == 0 {
			continue
		}
		take(w, free[0])
		free = free[1:]
	}

	return out
}

// slotsByDisplay partitions slots per display, each pool sorted by priority
// descending. The sort is stable so equal priorities keep layout order.
func slotsByDisplay(slots []Slot) map[int][]Slot {
	pools := make(map[int][]Slot)
	for _, s := range slots {
		pools[s.DisplayID] = append(pools[s.DisplayID], s)
	}
	for id := range pools {
		pool := pools[id]
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].Priority > pool[j].Priority
		})
	}
	return pools
}

// windowsByDisplay partitions windows per display preserving input order,
// and returns the display IDs in ascending order.
func windowsByDisplay(windows []detect.ManagedWindow) (map[int][]detect.ManagedWindow, []int) {
	groups := make(map[int][]detect.ManagedWindow)
	for _, w := range windows {
		groups[w.DisplayID] = append(groups[w.DisplayID], w)
	}

	order := make([]int, 0, len(groups))
	for id := range groups {
		order = append(order, id)
	}
	sort.Ints(order)
	return groups, order
}

// typeGroups splits windows into per-type groups, groups ordered by the
// first appearance of each type, windows in input order within a group.
func typeGroups(windows []detect.ManagedWindow) [][]detect.ManagedWindow {
	index := make(map[string]int)
	var groups [][]detect.ManagedWindow
	for _, w := range windows {
		i, ok := index[w.Type.ID]
		if !ok {
			i = len(groups)
			index[w.Type.ID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], w)
	}
	return groups
}

func sortedDisplayIDs(pools map[int][]Slot) []int {
	ids := make([]int, 0, len(pools))
	for id := range pools {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
