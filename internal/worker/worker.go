// Package worker runs the periodic retention sweep and notification dispatch.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler wraps a cron runner with logging, metrics and per-run timeouts.
type Scheduler struct {
	log     *zap.SugaredLogger
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// New creates a scheduler. Each job run gets its own context bounded by timeout.
func New(log *zap.SugaredLogger, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		log:     log.Named("worker"),
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}
}

// Add registers a job. Schedules use standard cron syntax or descriptors such as "@every 10m".
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job name and func are required")
	}
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.runOnce(job) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name, job.Schedule, err)
	}
	s.log.Infow("job scheduled", "job", job.Name, "schedule", job.Schedule)
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infow("worker started", "jobs", len(s.cron.Entries()))
}

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Infow("worker stopped")
}

func (s *Scheduler) runOnce(job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	metrics.RecordJob(job.Name, time.Since(start), err == nil)
	if err != nil {
		s.log.Errorw("job failed", "job", job.Name, "error", err)
	}
}
