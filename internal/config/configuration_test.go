package config

import (
	"path/filepath"
	"testing"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/layout"
	"github.com/1broseidon/pokertile/internal/platform"
	"github.com/1broseidon/pokertile/internal/wintype"
)

func testConfiguration(id string) Configuration {
	return Configuration{
		ID:   id,
		Name: "Test " + id,
		Layout: layout.Layout{
			Name:     "grid",
			Strategy: layout.StrategySequential,
			Slots: []layout.Slot{
				{ID: "a", Frame: platform.Rect{Width: 800, Height: 600}},
				{ID: "b", Frame: platform.Rect{X: 800, Width: 800, Height: 600}},
			},
		},
	}
}

func typedWindows(typeIDs ...string) []detect.ManagedWindow {
	windows := make([]detect.ManagedWindow, len(typeIDs))
	for i, id := range typeIDs {
		windows[i] = detect.ManagedWindow{
			ID:   platform.WindowID(i + 1),
			Type: wintype.WindowType{ID: id, Enabled: true},
		}
	}
	return windows
}

func TestConfigurationStoreRoundTrip(t *testing.T) {
	store := &ConfigurationStore{Path: filepath.Join(t.TempDir(), "configurations.json")}

	configurations, activeID, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error on missing file: %v", err)
	}
	if len(configurations) != 0 || activeID != "" {
		t.Fatalf("expected empty store, got %d configurations active=%q", len(configurations), activeID)
	}

	if err := store.Save([]Configuration{testConfiguration("cash-4"), testConfiguration("sng-6")}, "cash-4"); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	configurations, activeID, err = store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(configurations) != 2 {
		t.Fatalf("expected 2 configurations, got %d", len(configurations))
	}
	if activeID != "cash-4" {
		t.Fatalf("expected active cash-4, got %q", activeID)
	}
	if len(configurations[0].Layout.Slots) != 2 {
		t.Fatalf("layout slots lost in round trip: %+v", configurations[0].Layout)
	}
	if configurations[0].Layout.Slots[1].Frame.X != 800 {
		t.Fatalf("slot frame lost in round trip: %+v", configurations[0].Layout.Slots[1])
	}
}

func TestConfigurationStoreValidatesOnSave(t *testing.T) {
	store := &ConfigurationStore{Path: filepath.Join(t.TempDir(), "configurations.json")}

	dup := []Configuration{testConfiguration("x"), testConfiguration("x")}
	if err := store.Save(dup, ""); err == nil {
		t.Fatalf("expected error for duplicate ids")
	}

	empty := testConfiguration("")
	if err := store.Save([]Configuration{empty}, ""); err == nil {
		t.Fatalf("expected error for empty id")
	}

	invalid := testConfiguration("bad")
	invalid.Layout.Slots = nil
	if err := store.Save([]Configuration{invalid}, ""); err == nil {
		t.Fatalf("expected error for invalid layout")
	}

	if err := store.Save([]Configuration{testConfiguration("a")}, "ghost"); err == nil {
		t.Fatalf("expected error for unknown active id")
	}
}

func TestConfigurationStoreUpsertAndActivate(t *testing.T) {
	store := &ConfigurationStore{Path: filepath.Join(t.TempDir(), "configurations.json")}

	if err := store.Upsert(testConfiguration("one")); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	updated := testConfiguration("one")
	updated.Name = "Renamed"
	if err := store.Upsert(updated); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	got, err := store.Get("one")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("upsert did not replace: %q", got.Name)
	}

	if err := store.SetActive("one"); err != nil {
		t.Fatalf("failed to set active: %v", err)
	}
	_, activeID, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if activeID != "one" {
		t.Fatalf("expected active one, got %q", activeID)
	}

	if _, err := store.Get("missing"); err == nil {
		t.Fatalf("expected error for missing configuration")
	}
}

func TestAutoActivationMatches(t *testing.T) {
	var nilCriteria *AutoActivation
	if nilCriteria.Matches(typedWindows("cash")) {
		t.Fatalf("nil criteria must never match")
	}
	if (&AutoActivation{}).Matches(typedWindows("cash")) {
		t.Fatalf("empty criteria must never match")
	}

	byCount := &AutoActivation{WindowCount: 2}
	if !byCount.Matches(typedWindows("cash", "cash")) {
		t.Fatalf("expected count criterion to match")
	}
	if byCount.Matches(typedWindows("cash")) {
		t.Fatalf("count criterion matched wrong total")
	}

	byType := &AutoActivation{WindowTypeCount: map[string]int{"cash": 2, "tourney": 1}}
	if !byType.Matches(typedWindows("cash", "tourney", "cash")) {
		t.Fatalf("expected type criterion to match")
	}
	if byType.Matches(typedWindows("cash", "cash")) {
		t.Fatalf("type criterion matched missing type")
	}
	if byType.Matches(typedWindows("cash", "cash", "tourney", "tourney")) {
		t.Fatalf("type criterion matched wrong per-type count")
	}

	both := &AutoActivation{WindowCount: 3, WindowTypeCount: map[string]int{"cash": 2}}
	if !both.Matches(typedWindows("cash", "cash", "tourney")) {
		t.Fatalf("expected combined criteria to match")
	}
	if both.Matches(typedWindows("cash", "cash")) {
		t.Fatalf("combined criteria ignored total count")
	}
}
