// Package scheduler runs catalog maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/career-recommender/internal/catalog"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work.
type Job interface {
	Run(ctx context.Context) (catalog.Report, error)
}

// Scheduler wraps robfig/cron and manages the backfill loop.
type Scheduler struct {
	cron   *cron.Cron
	job    Job
	spec   string // cron spec, e.g. "@every 6h" or "0 3 * * *"
	logger *zap.Logger

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler that runs job on spec. The spec is checked here so
// a bad CATALOG_BACKFILL_SCHEDULE fails at startup.
func New(job Job, spec string, logger *zap.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		job:    job,
		spec:   spec,
		logger: logger.Named("scheduler"),
	}, nil
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cron started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron stopped")
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// runOnce runs the job unless the previous run is still in progress.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report, err := s.job.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err), zap.Int("failed", report.Failed))
		return
	}
	s.logger.Info("scheduled run complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
	)
}
