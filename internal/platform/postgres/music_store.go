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

// PostgresMusicStore implements the store.MusicStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMusicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMusicStore creates a new PostgreSQL implementation of the MusicStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresMusicStore(db store.DBTX, logger *slog.Logger) *PostgresMusicStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMusicStore{
		db:     db,
		logger: logger.With(slog.String("component", "music_store")),
	}
}

// Ensure PostgresMusicStore implements store.MusicStore interface
var _ store.MusicStore = (*PostgresMusicStore)(nil)

// Create implements store.MusicStore.Create
// Returns store.ErrInvalidEntity if the user ID doesn't exist.
func (s *PostgresMusicStore) Create(ctx context.Context, track *domain.MusicTrack) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := track.Validate(); err != nil {
		log.Warn("track validation failed during create",
			slog.String("error", err.Error()),
			slog.String("track_id", track.ID.String()))
		return err
	}

	query := `
		INSERT INTO music_tracks (id, user_id, title, file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		track.ID,
		track.UserID,
		track.Title,
		track.FileID,
		track.CreatedAt,
		track.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create track",
			slog.String("error", err.Error()),
			slog.String("track_id", track.ID.String()),
			slog.String("user_id", track.UserID.String()))
		return MapError(err)
	}

	log.Info("track created successfully",
		slog.String("track_id", track.ID.String()),
		slog.String("user_id", track.UserID.String()))
	return nil
}

// GetByID implements store.MusicStore.GetByID
// Returns store.ErrTrackNotFound if the track does not exist.
func (s *PostgresMusicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MusicTrack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, file_id, created_at, updated_at
		FROM music_tracks
		WHERE id = $1
	`

	var track domain.MusicTrack
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&track.ID,
		&track.UserID,
		&track.Title,
		&track.FileID,
		&track.CreatedAt,
		&track.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrackNotFound
		}
		log.Error("failed to get track by ID",
			slog.String("error", err.Error()),
			slog.String("track_id", id.String()))
		return nil, MapError(err)
	}

	return &track, nil
}

// ListByUser implements store.MusicStore.ListByUser
func (s *PostgresMusicStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MusicTrack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, file_id, created_at, updated_at
		FROM music_tracks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query tracks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tracks := []*domain.MusicTrack{}
	for rows.Next() {
		var track domain.MusicTrack
		err := rows.Scan(
			&track.ID,
			&track.UserID,
			&track.Title,
			&track.FileID,
			&track.CreatedAt,
			&track.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan track row", slog.String("error", err.Error()))
			return nil, err
		}
		tracks = append(tracks, &track)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tracks, nil
}

// UpdateTitle implements store.MusicStore.UpdateTitle
// Returns store.ErrTrackNotFound if the track does not exist.
func (s *PostgresMusicStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if title == "" {
		return domain.ErrTrackTitleEmpty
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE music_tracks SET title = $1, updated_at = $2 WHERE id = $3`,
		title,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to update track title",
			slog.String("error", err.Error()),
			slog.String("track_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTrackNotFound)
}

// Delete implements store.MusicStore.Delete
// Returns store.ErrTrackNotFound if the track does not exist.
func (s *PostgresMusicStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM music_tracks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete track",
			slog.String("error", err.Error()),
			slog.String("track_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTrackNotFound); err != nil {
		return err
	}

	log.Info("track deleted successfully", slog.String("track_id", id.String()))
	return nil
}

// WithTx implements store.MusicStore.WithTx
func (s *PostgresMusicStore) WithTx(tx *sql.Tx) store.MusicStore {
	return &PostgresMusicStore{
		db:     tx,
		logger: s.logger,
	}
}
