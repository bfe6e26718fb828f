// Package sweeper runs the periodic auto-cancel sweep over standby
// bookings.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"velamar/internal/metrics"
)

// Canceller is the service operation the sweeper drives.
type Canceller interface {
	CancelOverdue(ctx context.Context, now time.Time) (int, error)
}

// Config holds the sweep schedule.
type Config struct {
	// Interval is how often the sweep runs.
	Interval time.Duration
}

// DefaultConfig returns the default sweep schedule.
func DefaultConfig() Config {
	return Config{Interval: 15 * time.Minute}
}

// Sweeper owns the sweep loop and its last-run bookkeeping. Each run
// is independent; a sweep that finds nothing is a no-op.
type Sweeper struct {
	config    Config
	canceller Canceller
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	lastRun time.Time
	running bool
	stopCh  chan struct{}
}

// New creates a sweeper. An interval of zero falls back to the default.
func New(config Config, canceller Canceller, logger zerolog.Logger) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Sweeper{
		config:    config,
		canceller: canceller,
		logger:    logger,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the sweep loop. It runs once immediately, then on every
// tick until the context is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("auto-cancel sweeper started")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("auto-cancel sweeper stopped by context")
			return
		case <-s.stopCh:
			s.logger.Info().Msg("auto-cancel sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// Stop stops the sweep loop.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.stopCh)
	}
	s.mu.Unlock()
}

// RunOnce executes a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.now()
	cancelled, err := s.canceller.CancelOverdue(ctx, now)
	metrics.IncSweepRun()
	if err != nil {
		s.logger.Error().Err(err).Msg("auto-cancel sweep failed")
		return
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()

	if cancelled > 0 {
		s.logger.Info().Int("cancelled", cancelled).Msg("auto-cancel sweep completed")
	}
}

// LastRun reports when the sweep last completed, zero if never.
func (s *Sweeper) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
