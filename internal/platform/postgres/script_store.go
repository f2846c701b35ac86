package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/platform/logger"
	"github.com/scriptly/scriptly-api/internal/store"
)

// PostgresScriptStore implements the store.ScriptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresScriptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScriptStore creates a new PostgreSQL implementation of the ScriptStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresScriptStore(db store.DBTX, logger *slog.Logger) *PostgresScriptStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScriptStore{
		db:     db,
		logger: logger.With(slog.String("component", "script_store")),
	}
}

// Ensure PostgresScriptStore implements store.ScriptStore interface
var _ store.ScriptStore = (*PostgresScriptStore)(nil)

const scriptColumns = `id, user_id, name, content, completed, completion_date,
		scheduled_on, usage_count, last_used_at, created_at, status, source_id`

// Create implements store.ScriptStore.Create
// It saves a new script to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresScriptStore) Create(ctx context.Context, script *domain.Script) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := script.Validate(); err != nil {
		log.Warn("script validation failed during create",
			slog.String("error", err.Error()),
			slog.String("script_id", script.ID.String()))
		return err
	}

	query := `
		INSERT INTO scripts (id, user_id, name, content, completed, completion_date,
			scheduled_on, usage_count, last_used_at, created_at, status, source_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		script.ID,
		script.UserID,
		script.Name,
		script.Content,
		script.Completed,
		script.CompletionDate,
		script.ScheduledOn,
		script.UsageCount,
		script.LastUsedAt,
		script.CreatedAt,
		script.Status,
		nullableUUID(script.SourceID),
	)

	if err != nil {
		log.Error("failed to create script",
			slog.String("error", err.Error()),
			slog.String("script_id", script.ID.String()),
			slog.String("user_id", script.UserID.String()))
		return MapError(err)
	}

	log.Info("script created successfully",
		slog.String("script_id", script.ID.String()),
		slog.String("user_id", script.UserID.String()))
	return nil
}

// GetByID implements store.ScriptStore.GetByID
// Returns store.ErrScriptNotFound if the script does not exist.
func (s *PostgresScriptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// FindByUserAndName implements store.ScriptStore.FindByUserAndName
// Returns store.ErrScriptNotFound if no script with that name is owned by the user.
func (s *PostgresScriptStore) FindByUserAndName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE user_id = $1 AND name = $2`
	return s.getOne(ctx, query, userID, name)
}

// FindByUserAndSource implements store.ScriptStore.FindByUserAndSource
// Returns store.ErrScriptNotFound if the user has no script promoted from sourceID.
func (s *PostgresScriptStore) FindByUserAndSource(
	ctx context.Context,
	userID, sourceID uuid.UUID,
) (*domain.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE user_id = $1 AND source_id = $2`
	return s.getOne(ctx, query, userID, sourceID)
}

// ListByUser implements store.ScriptStore.ListByUser
// Returns an empty slice when the user owns no scripts.
func (s *PostgresScriptStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Script, error) {
	query := `
		SELECT ` + scriptColumns + `
		FROM scripts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, userID)
}

// ListRecommended implements store.ScriptStore.ListRecommended
// Both filter boundaries are inclusive: usage_count >= minUsage and
// last_used_at >= since.
func (s *PostgresScriptStore) ListRecommended(
	ctx context.Context,
	userID uuid.UUID,
	minUsage int,
	since time.Time,
) ([]*domain.Script, error) {
	query := `
		SELECT ` + scriptColumns + `
		FROM scripts
		WHERE user_id = $1 AND usage_count >= $2 AND last_used_at >= $3
		ORDER BY usage_count DESC, last_used_at DESC
	`
	return s.list(ctx, query, userID, minUsage, since)
}

// Update implements store.ScriptStore.Update
// It persists the full state of an existing script.
// Returns store.ErrScriptNotFound if the script does not exist.
func (s *PostgresScriptStore) Update(ctx context.Context, script *domain.Script) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := script.Validate(); err != nil {
		log.Warn("script validation failed during update",
			slog.String("error", err.Error()),
			slog.String("script_id", script.ID.String()))
		return err
	}

	query := `
		UPDATE scripts
		SET name = $1, content = $2, completed = $3, completion_date = $4,
			scheduled_on = $5, usage_count = $6, last_used_at = $7, status = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		script.Name,
		script.Content,
		script.Completed,
		script.CompletionDate,
		script.ScheduledOn,
		script.UsageCount,
		script.LastUsedAt,
		script.Status,
		script.ID,
	)

	if err != nil {
		log.Error("failed to update script",
			slog.String("error", err.Error()),
			slog.String("script_id", script.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrScriptNotFound); err != nil {
		log.Debug("script not found for update",
			slog.String("script_id", script.ID.String()))
		return err
	}

	log.Info("script updated successfully",
		slog.String("script_id", script.ID.String()))
	return nil
}

// Delete implements store.ScriptStore.Delete
// Returns store.ErrScriptNotFound if the script does not exist.
func (s *PostgresScriptStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM scripts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete script",
			slog.String("error", err.Error()),
			slog.String("script_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrScriptNotFound); err != nil {
		log.Debug("script not found for delete",
			slog.String("script_id", id.String()))
		return err
	}

	log.Info("script deleted successfully", slog.String("script_id", id.String()))
	return nil
}

// DeleteStale implements store.ScriptStore.DeleteStale
// It removes every script matching the sweeper's predicate and returns the
// number of rows deleted.
func (s *PostgresScriptStore) DeleteStale(
	ctx context.Context,
	maxUsage int,
	lastUsedBefore time.Time,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM scripts WHERE usage_count < $1 AND last_used_at < $2`,
		maxUsage,
		lastUsedBefore,
	)
	if err != nil {
		log.Error("failed to delete stale scripts",
			slog.String("error", err.Error()),
			slog.Int("max_usage", maxUsage),
			slog.Time("last_used_before", lastUsedBefore))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected for stale delete",
			slog.String("error", err.Error()))
		return 0, err
	}

	return deleted, nil
}

// WithTx implements store.ScriptStore.WithTx
func (s *PostgresScriptStore) WithTx(tx *sql.Tx) store.ScriptStore {
	return &PostgresScriptStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresScriptStore) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.Script, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	script, err := scanScript(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScriptNotFound
		}
		log.Error("failed to get script", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return script, nil
}

func (s *PostgresScriptStore) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Script, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query scripts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	scripts := []*domain.Script{}
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			log.Error("failed to scan script row", slog.String("error", err.Error()))
			return nil, err
		}
		scripts = append(scripts, script)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return scripts, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScript(row rowScanner) (*domain.Script, error) {
	var script domain.Script
	var completionDate sql.NullTime
	var sourceID uuid.NullUUID

	err := row.Scan(
		&script.ID,
		&script.UserID,
		&script.Name,
		&script.Content,
		&script.Completed,
		&completionDate,
		&script.ScheduledOn,
		&script.UsageCount,
		&script.LastUsedAt,
		&script.CreatedAt,
		&script.Status,
		&sourceID,
	)
	if err != nil {
		return nil, err
	}

	if completionDate.Valid {
		t := completionDate.Time
		script.CompletionDate = &t
	}
	if sourceID.Valid {
		script.SourceID = sourceID.UUID
	}

	return &script, nil
}

// nullableUUID converts uuid.Nil to a SQL NULL so the partial index on
// (user_id, source_id) only covers promoted scripts.
func nullableUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
