package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/platform"
)

// hoverPollInterval is how often the pointer is sampled.
const hoverPollInterval = 100 * time.Millisecond

// HoverConfig holds configuration for hover activation.
type HoverConfig struct {
	Delay  time.Duration
	Logger *slog.Logger
}

// HoverActivator raises the table under the pointer once the pointer has
// rested on it for the configured delay. Useful with overlapping layouts
// where tables hide behind each other.
type HoverActivator struct {
	backend  platform.Backend
	detector *detect.Detector
	delay    time.Duration
	logger   *slog.Logger

	candidate     platform.WindowID
	candidateTime time.Time
	activated     platform.WindowID
}

// NewHoverActivator creates a hover activator.
func NewHoverActivator(cfg HoverConfig, backend platform.Backend, detector *detect.Detector) *HoverActivator {
	delay := cfg.Delay
	if delay <= 0 {
		delay = 350 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HoverActivator{
		backend:  backend,
		detector: detector,
		delay:    delay,
		logger:   logger,
	}
}

// Run starts the hover loop. Blocks until context is cancelled.
func (h *HoverActivator) Run(ctx context.Context) {
	ticker := time.NewTicker(hoverPollInterval)
	defer ticker.Stop()

	h.logger.Info("hover activation started", "delay", h.delay)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hover activation stopped")
			return
		case now := <-ticker.C:
			h.sample(now)
		}
	}
}

// sample takes one pointer reading and activates the hovered window once it
// has been stable for the delay.
func (h *HoverActivator) sample(now time.Time) {
	defer func() {
		if err := recover(); err != nil {
			h.logger.Error("hover panic recovered", "error", err)
		}
	}()

	p, err := h.backend.PointerPosition()
	if err != nil {
		h.logger.Debug("hover: pointer query failed", "error", err)
		return
	}

	w, err := h.detector.PickAt(p)
	if err != nil || w == nil {
		h.reset()
		return
	}

	if w.ID != h.candidate {
		h.candidate = w.ID
		h.candidateTime = now
		return
	}
	if w.ID == h.activated || now.Sub(h.candidateTime) < h.delay {
		return
	}

	if err := h.backend.Activate(w.ID, w.PID); err != nil {
		h.logger.Error("hover: failed to activate window",
			"window_id", w.ID, "error", err)
		return
	}
	h.logger.Debug("hover activated window", "window_id", w.ID, "title", w.Title)
	h.activated = w.ID
}

func (h *HoverActivator) reset() {
	h.candidate = 0
	h.candidateTime = time.Time{}
	h.activated = 0
}
