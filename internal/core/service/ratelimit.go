package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/pkg/cmap"
)

// DefaultMaxRequestsPerMinute is the default per-client ceiling.
const DefaultMaxRequestsPerMinute = 60

// RateLimiter counts requests per client key in fixed windows.
//
// A window opens at the first request of a key and lasts Window. Every
// call to Admit increments the count, including rejected calls, so a
// client that keeps hammering stays rejected until the window rolls over.
// A client may get up to twice the limit across a window boundary.
type RateLimiter struct {
	windows *cmap.Map[string, domain.RateWindow]
	limit   atomic.Int64
	window  time.Duration
	now     func() time.Time
	logger  *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// RateLimiterConfig holds configuration for RateLimiter.
type RateLimiterConfig struct {
	// Limit is the maximum number of admitted requests per window (default: 60).
	Limit int

	// Window is the window length (default: 1 minute).
	Window time.Duration

	// Now is the time source (default: time.Now).
	Now func() time.Time

	Logger *slog.Logger
}

// NewRateLimiter creates a new RateLimiter.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultMaxRequestsPerMinute
	}
	if cfg.Window <= 0 {
		cfg.Window = domain.RateWindowDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rl := &RateLimiter{
		windows:   cmap.New[string, domain.RateWindow](),
		window:    cfg.Window,
		now:       cfg.Now,
		logger:    cfg.Logger,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	rl.limit.Store(int64(cfg.Limit))
	return rl
}

// Admit counts one request for key and reports whether it is within the limit.
func (rl *RateLimiter) Admit(key string) bool {
	ok, _ := rl.AdmitWithRetry(key)
	return ok
}

// AdmitWithRetry is Admit that also returns, for rejected requests, the
// time left until the client's window rolls over.
func (rl *RateLimiter) AdmitWithRetry(key string) (bool, time.Duration) {
	now := rl.now()
	limit := int(rl.limit.Load())

	var admitted bool
	w := rl.windows.Compute(key, func(w domain.RateWindow, exists bool) (domain.RateWindow, bool) {
		if !exists || w.Expired(now, rl.window) {
			w = domain.RateWindow{WindowStart: now}
		}
		admitted = w.Count < limit
		w.Count++
		return w, true
	})

	if admitted {
		return true, 0
	}
	retry := w.WindowStart.Add(rl.window).Sub(now)
	if retry < time.Second {
		retry = time.Second
	}
	return false, retry
}

// Count returns the request count of key in its current window.
// An expired window counts as zero.
func (rl *RateLimiter) Count(key string) int {
	w, ok := rl.windows.Get(key)
	if !ok || w.Expired(rl.now(), rl.window) {
		return 0
	}
	return w.Count
}

// Limit returns the current per-window ceiling.
func (rl *RateLimiter) Limit() int {
	return int(rl.limit.Load())
}

// SetLimit changes the ceiling. Counts already recorded are kept.
func (rl *RateLimiter) SetLimit(n int) {
	if n <= 0 {
		return
	}
	old := rl.limit.Swap(int64(n))
	if old != int64(n) {
		rl.logger.Info("rate limit changed", "old", old, "new", n)
	}
}

// Sweep removes expired windows and returns how many were removed.
func (rl *RateLimiter) Sweep() int {
	now := rl.now()
	return rl.windows.DeleteIf(func(_ string, w domain.RateWindow) bool {
		return w.Expired(now, rl.window)
	})
}

// Start runs the background sweeper until ctx is done or Stop is called.
// Calling Start more than once has no effect.
func (rl *RateLimiter) Start(ctx context.Context) {
	rl.startOnce.Do(func() {
		go rl.sweepLoop(ctx)
	})
}

// Stop stops the sweeper and waits for it to exit.
func (rl *RateLimiter) Stop() {
	started := true
	rl.startOnce.Do(func() { started = false })
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	if started {
		<-rl.stoppedCh
	}
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	defer close(rl.stoppedCh)

	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rl.stopCh:
			return
		case <-ticker.C:
			if n := rl.Sweep(); n > 0 {
				rl.logger.Debug("rate limiter sweep", "removed", n, "remaining", rl.windows.Count())
			}
		}
	}
}
