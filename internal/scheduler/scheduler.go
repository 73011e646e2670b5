// Package scheduler drives the periodic background scan.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"lead_bot/internal/model"
)

// Scanner runs one discovery cycle and returns the newly seen listings.
type Scanner interface {
	RunScan(ctx context.Context, keywords []string) []model.Listing
}

// Notifier fans a cycle's new listings out to subscribers.
type Notifier interface {
	Notify(ctx context.Context, listings []model.Listing)
}

// Scheduler alternates between waiting and running one scan cycle.
// Cycles never overlap: the interval timer is armed only after the
// cycle, including its fan-out, has finished. A notifier may be nil
// when the process runs headless (scan without notification).
type Scheduler struct {
	scanner  Scanner
	notifier Notifier
	keywords []string
	interval time.Duration
	log      *slog.Logger
}

// New creates a Scheduler.
func New(scanner Scanner, notifier Notifier, keywords []string, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		notifier: notifier,
		keywords: keywords,
		interval: interval,
		log:      log,
	}
}

// Run starts the scan loop, blocking until ctx is cancelled. The first
// cycle starts immediately; each following cycle starts one full
// interval after the previous one finished, whether it succeeded or
// failed.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

// runCycle executes one scan plus fan-out. A panic inside the cycle is
// recovered so the loop survives; the next attempt happens after the
// regular interval.
func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scan cycle panicked", "panic", r)
		}
	}()

	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	fresh := s.scanner.RunScan(ctx, s.keywords)
	s.log.Info("scan cycle finished",
		"keywords", len(s.keywords), "new", len(fresh), "took", time.Since(start))

	if s.notifier != nil {
		s.notifier.Notify(ctx, fresh)
	}
}
