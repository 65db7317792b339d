package daemon

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/pokertile/internal/config"
	"github.com/1broseidon/pokertile/internal/detect"
)

// AutoSelector activates a stored configuration when the detected table set
// matches its criteria. Evaluation runs on every snapshot; a configuration
// is applied once per match episode, not on every tick.
type AutoSelector struct {
	store   *config.ConfigurationStore
	applier *Applier
	logger  *slog.Logger

	mu          sync.Mutex
	lastApplied string
	onActivate  func(id string)
}

// NewAutoSelector creates an auto selector. onActivate, if set, is called
// after a configuration is applied so the daemon can record the new active
// selection.
func NewAutoSelector(store *config.ConfigurationStore, applier *Applier, onActivate func(id string), logger *slog.Logger) *AutoSelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoSelector{
		store:      store,
		applier:    applier,
		logger:     logger,
		onActivate: onActivate,
	}
}

// Evaluate checks the snapshot against every configuration's auto-activation
// criteria and applies the first match in stored order.
func (s *AutoSelector) Evaluate(windows []detect.ManagedWindow) {
	configurations, _, err := s.store.Load()
	if err != nil {
		s.logger.Error("auto selector: failed to load configurations", "error", err)
		return
	}

	var match *config.Configuration
	for i := range configurations {
		if configurations[i].AutoActivation.Matches(windows) {
			match = &configurations[i]
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if match == nil {
		// The episode ended; the next match may apply again.
		s.lastApplied = ""
		return
	}
	if match.ID == s.lastApplied {
		return
	}

	s.logger.Info("auto activating configuration",
		"id", match.ID,
		"name", match.Name,
		"windows", len(windows))

	if _, err := s.applier.Apply(&match.Layout, windows); err != nil {
		s.logger.Error("auto selector: failed to apply configuration",
			"id", match.ID, "error", err)
		return
	}
	s.lastApplied = match.ID

	if err := s.store.SetActive(match.ID); err != nil {
		s.logger.Error("auto selector: failed to record active configuration",
			"id", match.ID, "error", err)
	}
	if s.onActivate != nil {
		s.onActivate(match.ID)
	}
}
