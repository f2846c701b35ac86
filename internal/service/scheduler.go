package service

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps cron-based background jobs. Jobs run on the standard
// 5-field cron syntax; panics are recovered and logged so a misbehaving
// job never takes the host process down.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
		)),
		logger: logger.With(slog.String("component", "scheduler")),
	}
}

// Schedule registers a job under the given cron expression.
// Returns an error if the expression is invalid.
func (s *Scheduler) Schedule(spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, err
	}

	s.logger.Info("job scheduled", slog.String("spec", spec))
	return id, nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
