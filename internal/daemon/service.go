package daemon

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/pokertile/internal/config"
	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/ipc"
	"github.com/1broseidon/pokertile/internal/layout"
	"github.com/1broseidon/pokertile/internal/platform"
	"github.com/1broseidon/pokertile/internal/wintype"
)

// Service ties the daemon's pieces together and implements the IPC command
// surface.
type Service struct {
	backend   platform.Backend
	detector  *detect.Detector
	typeStore *wintype.Store
	confStore *config.ConfigurationStore
	applier   *Applier
	watcher   *Watcher
	logger    *slog.Logger
	startTime time.Time

	mu       sync.RWMutex
	cfg      *config.Config
	types    []wintype.WindowType
	snapshot []detect.ManagedWindow
}

// NewService wires the detector, stores, and applier. The matcher's pattern
// cache is sized from the config; changing pattern_cache_size needs a
// daemon restart.
func NewService(cfg *config.Config, backend platform.Backend, typeStore *wintype.Store, confStore *config.ConfigurationStore, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	types, err := typeStore.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load window types: %w", err)
	}

	matcher := wintype.NewMatcher(cfg.PatternCacheSize, logger)
	detector := detect.NewDetector(backend, matcher, logger)

	return &Service{
		backend:   backend,
		detector:  detector,
		typeStore: typeStore,
		confStore: confStore,
		applier:   NewApplier(backend, logger),
		logger:    logger,
		startTime: time.Now(),
		cfg:       cfg,
		types:     types,
	}, nil
}

// Detector exposes the service's detector for the hover activator.
func (s *Service) Detector() *detect.Detector { return s.detector }

// Applier exposes the service's applier for the auto selector.
func (s *Service) Applier() *Applier { return s.applier }

// SetWatcher registers the watcher so Reload can trigger a rescan.
func (s *Service) SetWatcher(w *Watcher) { s.watcher = w }

// Types returns the current window type list.
func (s *Service) Types() []wintype.WindowType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]wintype.WindowType, len(s.types))
	copy(out, s.types)
	return out
}

// Config returns the current configuration.
func (s *Service) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateSnapshot records the latest detection pass. The watcher calls this.
func (s *Service) UpdateSnapshot(windows []detect.ManagedWindow) {
	s.mu.Lock()
	s.snapshot = windows
	s.mu.Unlock()
}

// Snapshot returns the most recent detection pass.
func (s *Service) Snapshot() []detect.ManagedWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]detect.ManagedWindow, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Status implements ipc.Controller.
func (s *Service) Status() ipc.StatusData {
	_, activeID, err := s.confStore.Load()
	if err != nil {
		s.logger.Error("failed to load active configuration", "error", err)
	}

	s.mu.RLock()
	windowCount := len(s.snapshot)
	s.mu.RUnlock()

	return ipc.StatusData{
		ActiveConfiguration: activeID,
		WindowCount:         windowCount,
		UptimeSeconds:       int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:       true,
	}
}

// Displays implements ipc.Controller.
func (s *Service) Displays() (*ipc.DisplaysData, error) {
	displays, err := s.backend.Displays()
	if err != nil {
		return nil, err
	}

	infos := make([]ipc.DisplayInfo, len(displays))
	for i, d := range displays {
		infos[i] = ipc.DisplayInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}
	return &ipc.DisplaysData{Displays: infos}, nil
}

// Windows implements ipc.Controller. It runs a fresh detection pass rather
// than serving the possibly stale snapshot.
func (s *Service) Windows() (*ipc.WindowsData, error) {
	windows, err := s.detector.Detect(s.Types())
	if err != nil {
		return nil, err
	}
	s.UpdateSnapshot(windows)

	infos := make([]ipc.WindowInfo, len(windows))
	for i, w := range windows {
		infos[i] = ipc.WindowInfo{
			ID:          uint32(w.ID),
			PID:         w.PID,
			Title:       w.Title,
			WindowClass: w.WindowClass,
			TypeID:      w.Type.ID,
			TypeName:    w.Type.Name,
			DisplayID:   w.DisplayID,
			X:           w.Frame.X,
			Y:           w.Frame.Y,
			Width:       w.Frame.Width,
			Height:      w.Frame.Height,
		}
	}
	return &ipc.WindowsData{Windows: infos}, nil
}

// Configurations implements ipc.Controller.
func (s *Service) Configurations() (*ipc.ConfigsData, error) {
	configurations, activeID, err := s.confStore.Load()
	if err != nil {
		return nil, err
	}

	infos := make([]ipc.ConfigInfo, len(configurations))
	for i, c := range configurations {
		infos[i] = ipc.ConfigInfo{
			ID:             c.ID,
			Name:           c.Name,
			SlotCount:      len(c.Layout.Slots),
			Active:         c.ID == activeID,
			AutoActivation: c.AutoActivation != nil,
		}
	}
	return &ipc.ConfigsData{Configurations: infos}, nil
}

// ApplyConfiguration implements ipc.Controller.
func (s *Service) ApplyConfiguration(id string) (*ipc.ApplyResultData, error) {
	configuration, err := s.confStore.Get(id)
	if err != nil {
		return nil, err
	}

	windows, err := s.detector.Detect(s.Types())
	if err != nil {
		return nil, err
	}
	s.UpdateSnapshot(windows)

	result, err := s.applier.Apply(&configuration.Layout, windows)
	if err != nil {
		return nil, err
	}
	if err := s.confStore.SetActive(id); err != nil {
		s.logger.Error("failed to record active configuration", "id", id, "error", err)
	}

	data := &ipc.ApplyResultData{Moved: result.Moved}
	for _, f := range result.Failed {
		data.Failed = append(data.Failed, f.Window.Title)
	}
	return data, nil
}

// CaptureLayout implements ipc.Controller. It snapshots the current table
// positions into a new sequential configuration.
func (s *Service) CaptureLayout(name string, optimize bool) (*ipc.CaptureResultData, error) {
	windows, err := s.detector.Detect(s.Types())
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("no managed windows to capture")
	}

	slots := make([]layout.Slot, len(windows))
	for i, w := range windows {
		slots[i] = layout.Slot{
			ID:        fmt.Sprintf("slot_%d", i+1),
			Frame:     w.Frame,
			DisplayID: w.DisplayID,
		}
	}

	if optimize {
		displays, err := s.backend.Displays()
		if err != nil {
			return nil, fmt.Errorf("failed to get displays: %w", err)
		}
		slots = layout.Optimize(slots, displays)
	}

	configuration := config.Configuration{
		ID:   slugify(name),
		Name: name,
		Layout: layout.Layout{
			Name:     name,
			Strategy: layout.StrategySequential,
			Slots:    slots,
		},
	}
	if err := s.confStore.Upsert(configuration); err != nil {
		return nil, err
	}

	s.logger.Info("captured layout",
		"id", configuration.ID,
		"windows", len(windows),
		"slots", len(slots),
		"optimized", optimize)

	return &ipc.CaptureResultData{
		ConfigurationID: configuration.ID,
		SlotCount:       len(slots),
	}, nil
}

// Reload implements ipc.Controller. It re-reads the config file and the
// window type store, then forces a rescan.
func (s *Service) Reload() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	types, err := s.typeStore.Load()
	if err != nil {
		return fmt.Errorf("failed to reload window types: %w", err)
	}

	s.mu.Lock()
	if cfg.PatternCacheSize != s.cfg.PatternCacheSize {
		s.logger.Warn("pattern_cache_size changed; restart the daemon to apply it")
	}
	s.cfg = cfg
	s.types = types
	s.mu.Unlock()

	s.logger.Info("configuration reloaded", "types", len(types))

	if s.watcher != nil {
		s.watcher.Refresh()
	}
	return nil
}

// slugify turns a human name into a stable configuration ID.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, slug)
}
