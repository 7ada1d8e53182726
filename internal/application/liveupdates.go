package application

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// DefaultLiveInterval is how often the decorative live pulse fires.
const DefaultLiveInterval = 5 * time.Second

// Pulse is the decorative state produced by the live updater.
type Pulse struct {
	Emotion    model.Emotion
	LastUpdate time.Time
}

// LiveUpdater periodically picks an emotion bubble to pulse and stamps the
// "last update" time. It never writes analysis state and skips ticks while an
// analysis is in flight.
type LiveUpdater struct {
	service  *AnalysisService
	interval time.Duration
	pick     func(n int) int

	mu    sync.RWMutex
	pulse Pulse

	logger *slog.Logger
}

// NewLiveUpdater creates a LiveUpdater. A non-positive interval falls back to
// DefaultLiveInterval.
func NewLiveUpdater(service *AnalysisService, interval time.Duration, logger *slog.Logger) *LiveUpdater {
	if interval <= 0 {
		interval = DefaultLiveInterval
	}
	return &LiveUpdater{
		service:  service,
		interval: interval,
		pick:     rand.IntN,
		logger:   logger,
	}
}

// Run ticks until ctx is cancelled. It always returns nil so it can share an
// errgroup with servers whose shutdown is driven by the same context.
func (u *LiveUpdater) Run(ctx context.Context) error {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info("live updater stopped")
			return nil
		case now := <-ticker.C:
			u.Tick(now)
		}
	}
}

// Tick advances the pulse once, unless an analysis is running.
func (u *LiveUpdater) Tick(now time.Time) {
	if u.service != nil && u.service.IsAnalyzing() {
		return
	}

	emotion := model.BubbleEmotions[u.pick(len(model.BubbleEmotions))]

	u.mu.Lock()
	u.pulse = Pulse{Emotion: emotion, LastUpdate: now}
	u.mu.Unlock()
}

// Current returns the most recent pulse. The zero Pulse means no tick yet.
func (u *LiveUpdater) Current() Pulse {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.pulse
}
