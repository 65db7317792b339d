package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/wintype"
)

// TypesFunc returns the window types to match against. It is a function so
// a reload can swap the type list without restarting the watcher.
type TypesFunc func() []wintype.WindowType

// SnapshotFunc receives each detection pass's result.
type SnapshotFunc func([]detect.ManagedWindow)

// WatcherConfig holds configuration for the watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher periodically rescans windows and hands each snapshot to the
// callback. Refresh forces an immediate rescan between ticks.
type Watcher struct {
	interval   time.Duration
	detector   *detect.Detector
	types      TypesFunc
	onSnapshot SnapshotFunc
	refresh    chan struct{}
	logger     *slog.Logger
}

// NewWatcher creates a watcher over the detector.
func NewWatcher(cfg WatcherConfig, detector *detect.Detector, types TypesFunc, onSnapshot SnapshotFunc) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		interval:   interval,
		detector:   detector,
		types:      types,
		onSnapshot: onSnapshot,
		refresh:    make(chan struct{}, 1),
		logger:     logger,
	}
}

// Refresh requests a rescan outside the regular tick. Non-blocking; a
// pending refresh absorbs further requests.
func (w *Watcher) Refresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Run starts the watch loop. Blocks until context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watcher started", "interval", w.interval)

	w.scan()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			w.scan()
		case <-w.refresh:
			w.scan()
		}
	}
}

// scan performs a single detection pass.
func (w *Watcher) scan() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("watcher panic recovered", "error", err)
		}
	}()

	windows, err := w.detector.Detect(w.types())
	if err != nil {
		w.logger.Error("watcher: detection failed", "error", err)
		return
	}
	w.onSnapshot(windows)
}
