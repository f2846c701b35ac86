package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/config"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/platform/logger"
	"github.com/scriptly/scriptly-api/internal/store"
)

// RecommendationService derives the subset of a user's scripts worth
// re-surfacing. Recommendations are a query-time view over the script
// collection, not a separately persisted entity.
type RecommendationService struct {
	scripts store.ScriptStore
	cfg     config.RecommendationConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewRecommendationService creates a new RecommendationService.
// If now is nil, time.Now is used.
func NewRecommendationService(
	scripts store.ScriptStore,
	cfg config.RecommendationConfig,
	logger *slog.Logger,
	now func() time.Time,
) *RecommendationService {
	if scripts == nil {
		panic("scripts store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &RecommendationService{
		scripts: scripts,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "recommendation_service")),
		now:     now,
	}
}

// List returns the owner's scripts with usage count at or above the
// configured minimum that were last used within the configured window.
// Both boundaries are inclusive.
func (s *RecommendationService) List(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Script, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	since := s.now().UTC().Add(-time.Duration(s.cfg.WindowDays) * 24 * time.Hour)
	return s.scripts.ListRecommended(ctx, ownerID, s.cfg.MinUsageCount, since)
}

// Promote records that the owner acted on a recommendation. If the owner
// already has a script promoted from the given source script, that script's
// usage is bumped and it is returned with created=false. Otherwise a new
// script carrying the source reference is inserted and returned with
// created=true. This mirrors the create operation's dedup policy but keyed
// on the source ID rather than the name.
func (s *RecommendationService) Promote(
	ctx context.Context,
	ownerID, sourceID uuid.UUID,
	name, content string,
) (*domain.Script, bool, error) {
	if ownerID == uuid.Nil {
		return nil, false, ErrUnauthorized
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	existing, err := s.scripts.FindByUserAndSource(ctx, ownerID, sourceID)
	if err == nil {
		existing.Reuse(now)
		if err := s.scripts.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to record promotion reuse: %w", err)
		}
		log.Info("recommendation re-promoted",
			slog.String("script_id", existing.ID.String()),
			slog.String("source_id", sourceID.String()),
			slog.Int("usage_count", existing.UsageCount))
		return existing, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, fmt.Errorf("failed to look up promoted script: %w", err)
	}

	script, err := domain.NewScript(ownerID, name, content, time.Time{}, now)
	if err != nil {
		return nil, false, err
	}
	script.SourceID = sourceID

	if err := s.scripts.Create(ctx, script); err != nil {
		return nil, false, fmt.Errorf("failed to create promoted script: %w", err)
	}

	log.Info("recommendation promoted",
		slog.String("script_id", script.ID.String()),
		slog.String("source_id", sourceID.String()))
	return script, true, nil
}
