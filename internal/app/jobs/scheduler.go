package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"
)

// Sweeper is a job the scheduler can trigger
type Sweeper interface {
	RunSweep(ctx context.Context) (SweepResult, error)
}

// Scheduler triggers a Sweeper on a cron schedule plus once shortly after start.
// Triggers that arrive while a run is still in progress are dropped.
type Scheduler struct {
	job          Sweeper
	spec         string
	startupDelay time.Duration
	logger       zerolog.Logger

	cron    *cron.Cron
	running atomic.Bool
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	timer   *time.Timer
}

// NewScheduler validates the six-field cron spec (seconds first) and builds a Scheduler
func NewScheduler(job Sweeper, spec string, startupDelay time.Duration, logger zerolog.Logger) (*Scheduler, error) {
	if _, err := cron.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &Scheduler{
		job:          job,
		spec:         spec,
		startupDelay: startupDelay,
		logger:       logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Start registers the cron entry and arms the startup run. Runs use a context derived from ctx
// that is cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.cron = cron.New()
	if err := s.cron.AddFunc(s.spec, func() { s.trigger("cron") }); err != nil {
		s.cancel()
		return fmt.Errorf("register cron job: %w", err)
	}
	s.cron.Start()

	if s.startupDelay >= 0 {
		s.timer = time.AfterFunc(s.startupDelay, func() { s.trigger("startup") })
	}

	s.logger.Info().Str("cron", s.spec).Dur("startupDelay", s.startupDelay).Msg("Scheduler started")
	return nil
}

// Stop halts future triggers, cancels a sweep in progress and waits for it to return
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.cron.Stop()
	s.cancel()
	s.wg.Wait()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) trigger(reason string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.mu.Unlock()
		s.logger.Warn().Str("trigger", reason).Msg("Previous sweep still running, skipping trigger")
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer func() {
		s.running.Store(false)
		s.wg.Done()
	}()

	start := time.Now()
	result, err := s.job.RunSweep(s.ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("trigger", reason).Msg("Sweep failed")
		return
	}
	s.logger.Info().
		Str("trigger", reason).
		Dur("took", time.Since(start)).
		Int("notified", result.Notified).
		Msg("Sweep completed")
}
