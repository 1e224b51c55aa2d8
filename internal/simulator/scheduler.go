package simulator

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/InsiderP/smart-energy/internal/observability/metrics"
)

// TickRunner is one execution of the telemetry-generation cycle.
type TickRunner interface {
	Tick(ctx context.Context, now time.Time) error
}

// Scheduler drives a TickRunner on a fixed period. At most one tick
// runs at a time; a tick still in flight when the next period fires
// causes that period to be skipped. Tick errors are logged and the
// loop continues, so the schedule survives indefinitely.
type Scheduler struct {
	runner   TickRunner
	interval time.Duration
	logger   *log.Logger
	inFlight atomic.Bool
}

// NewScheduler constructs a Scheduler.
func NewScheduler(runner TickRunner, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{runner: runner, interval: interval, logger: logger}
}

// Start runs the tick loop until ctx is cancelled. The first tick
// fires immediately so the dashboard has data right after boot.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.runner == nil {
		return
	}
	s.TryTick(ctx, time.Now().UTC())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.TryTick(ctx, now.UTC())
		}
	}
}

// TryTick runs one tick unless a previous tick is still in flight, in
// which case it reports false and does nothing.
func (s *Scheduler) TryTick(ctx context.Context, now time.Time) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.TickSkipped()
		if s.logger != nil {
			s.logger.Printf("tick skipped: previous tick still running")
		}
		return false
	}
	defer s.inFlight.Store(false)

	if err := s.runner.Tick(ctx, now); err != nil {
		metrics.ObserveTick(metrics.ResultError)
		if s.logger != nil {
			s.logger.Printf("tick error: ts=%s err=%v", now.Format(time.RFC3339), err)
		}
		return true
	}
	metrics.ObserveTick(metrics.ResultSuccess)
	return true
}
