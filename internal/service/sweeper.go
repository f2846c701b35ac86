package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/scriptly/scriptly-api/internal/config"
	"github.com/scriptly/scriptly-api/internal/store"
)

// Sweeper periodically deletes low-usage, stale scripts to keep the
// collection from accumulating abandoned recommendation candidates. Its
// thresholds are independent of the recommendation thresholds; the two
// predicates are not complements of each other.
type Sweeper struct {
	scripts store.ScriptStore
	cfg     config.SweeperConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewSweeper creates a new Sweeper.
// If now is nil, time.Now is used.
func NewSweeper(
	scripts store.ScriptStore,
	cfg config.SweeperConfig,
	logger *slog.Logger,
	now func() time.Time,
) *Sweeper {
	if scripts == nil {
		panic("scripts store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &Sweeper{
		scripts: scripts,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "sweeper")),
		now:     now,
	}
}

// Sweep deletes every script whose usage count is below the configured
// maximum and whose last-used timestamp is older than the configured
// staleness cutoff. Returns the number of scripts deleted.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-time.Duration(s.cfg.StaleAfterDays) * 24 * time.Hour)

	deleted, err := s.scripts.DeleteStale(ctx, s.cfg.MaxUsageCount, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("sweep completed",
		slog.Int64("deleted", deleted),
		slog.Int("max_usage", s.cfg.MaxUsageCount),
		slog.Time("cutoff", cutoff))
	return deleted, nil
}

// Run executes a sweep, downgrading any failure to a log line. The sweeper
// has no caller to report to; the next scheduled run retries naturally
// against the same predicate.
func (s *Sweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("sweep failed", slog.String("error", err.Error()))
	}
}
