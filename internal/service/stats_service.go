package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/store"
)

// UserStats aggregates the activity data the dashboard renders: when the
// user logged in, when they completed tasks, and the tasks themselves.
type UserStats struct {
	LoginTimestamps          []time.Time      `json:"login_timestamps"`
	TaskCompletionTimestamps []time.Time      `json:"task_completion_timestamps"`
	Scripts                  []*domain.Script `json:"scripts"`
}

// StatsService assembles per-user activity statistics from the user and
// script stores. It is read-only.
type StatsService struct {
	users   store.UserStore
	scripts store.ScriptStore
	logger  *slog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(users store.UserStore, scripts store.ScriptStore, logger *slog.Logger) *StatsService {
	if users == nil || scripts == nil {
		panic("stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsService{
		users:   users,
		scripts: scripts,
		logger:  logger.With(slog.String("component", "stats_service")),
	}
}

// ForUser returns the activity statistics for the given user.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *StatsService) ForUser(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	logins, err := s.users.ListLogins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list logins: %w", err)
	}

	scripts, err := s.scripts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}

	completions := []time.Time{}
	for _, script := range scripts {
		if script.Completed && script.CompletionDate != nil {
			completions = append(completions, *script.CompletionDate)
		}
	}

	return &UserStats{
		LoginTimestamps:          logins,
		TaskCompletionTimestamps: completions,
		Scripts:                  scripts,
	}, nil
}
