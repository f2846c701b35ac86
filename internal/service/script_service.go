package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/platform/logger"
	"github.com/scriptly/scriptly-api/internal/store"
)

// ScriptUpdate describes a partial update to a script. Nil fields are
// left unchanged.
type ScriptUpdate struct {
	Name        *string
	Content     *string
	ScheduledOn *time.Time
}

// ScriptService owns the task lifecycle: creation (with the
// create-or-reuse dedup policy), listing, partial updates (with the
// reset-usage-on-rename policy), completion and deletion.
type ScriptService struct {
	scripts store.ScriptStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewScriptService creates a new ScriptService.
// If now is nil, time.Now is used.
func NewScriptService(
	scripts store.ScriptStore,
	logger *slog.Logger,
	now func() time.Time,
) *ScriptService {
	if scripts == nil {
		panic("scripts store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &ScriptService{
		scripts: scripts,
		logger:  logger.With(slog.String("component", "script_service")),
		now:     now,
	}
}

// CreateOrReuse creates a new script for the owner, unless a script with
// the same name already exists for them, in which case the existing script
// is treated as reused: its usage count is incremented and its last-used
// timestamp refreshed. The content of a reused script is deliberately not
// updated. The returned bool is true when a new script was created.
//
// The find-then-insert pair is not atomic; concurrent identical
// submissions can race and produce duplicate (owner, name) rows. The
// dedup key is soft and the sweep criteria are heuristic, so last-write-
// wins is accepted here.
func (s *ScriptService) CreateOrReuse(
	ctx context.Context,
	ownerID uuid.UUID,
	name, content string,
	scheduledOn time.Time,
) (*domain.Script, bool, error) {
	if ownerID == uuid.Nil {
		return nil, false, ErrUnauthorized
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	existing, err := s.scripts.FindByUserAndName(ctx, ownerID, name)
	if err == nil {
		existing.Reuse(now)
		if err := s.scripts.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to record script reuse: %w", err)
		}
		log.Info("script reused",
			slog.String("script_id", existing.ID.String()),
			slog.Int("usage_count", existing.UsageCount))
		return existing, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, fmt.Errorf("failed to look up script by name: %w", err)
	}

	script, err := domain.NewScript(ownerID, name, content, scheduledOn, now)
	if err != nil {
		return nil, false, err
	}

	if err := s.scripts.Create(ctx, script); err != nil {
		return nil, false, fmt.Errorf("failed to create script: %w", err)
	}

	log.Info("script created", slog.String("script_id", script.ID.String()))
	return script, true, nil
}

// List returns all scripts owned by the given owner.
func (s *ScriptService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Script, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return s.scripts.ListByUser(ctx, ownerID)
}

// Get returns the script with the given ID.
// Returns store.ErrScriptNotFound if it does not exist.
func (s *ScriptService) Get(ctx context.Context, id uuid.UUID) (*domain.Script, error) {
	return s.scripts.GetByID(ctx, id)
}

// Update applies a partial update to the script with the given ID. When the
// update carries a name different from the current one, the script's usage
// count resets to 1: a rename gives the script a new identity as far as
// usage tracking is concerned.
// Returns store.ErrScriptNotFound if the script does not exist.
func (s *ScriptService) Update(
	ctx context.Context,
	id uuid.UUID,
	update ScriptUpdate,
) (*domain.Script, error) {
	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	script.ApplyUpdate(update.Name, update.Content, update.ScheduledOn)

	if err := s.scripts.Update(ctx, script); err != nil {
		return nil, fmt.Errorf("failed to update script: %w", err)
	}

	return script, nil
}

// Complete marks the script completed with the current time. There is no
// guard against double completion: completing twice refreshes the
// completion date.
// Returns store.ErrScriptNotFound if the script does not exist.
func (s *ScriptService) Complete(ctx context.Context, id uuid.UUID) (*domain.Script, error) {
	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	script.MarkCompleted(s.now().UTC())

	if err := s.scripts.Update(ctx, script); err != nil {
		return nil, fmt.Errorf("failed to mark script completed: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("script completed",
		slog.String("script_id", script.ID.String()))
	return script, nil
}

// Delete removes the script with the given ID.
// Returns store.ErrScriptNotFound if it does not exist.
func (s *ScriptService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scripts.Delete(ctx, id)
}
