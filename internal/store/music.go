package store

import (
	"context"
	"database/sql"
	"io"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
)

// MusicStore defines the interface for music track metadata persistence.
type MusicStore interface {
	// Create saves a new track's metadata to the store.
	// Returns validation errors from the domain MusicTrack if data is invalid.
	Create(ctx context.Context, track *domain.MusicTrack) error

	// GetByID retrieves a track by its unique ID.
	// Returns ErrTrackNotFound if the track does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MusicTrack, error)

	// ListByUser returns all tracks owned by the given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MusicTrack, error)

	// UpdateTitle changes the title of an existing track.
	// Returns ErrTrackNotFound if the track does not exist.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error

	// Delete removes a track's metadata from the store by its ID.
	// The caller is responsible for deleting the referenced blob.
	// Returns ErrTrackNotFound if the track does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new MusicStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) MusicStore
}

// BlobStore abstracts storage of uploaded file bytes. The music handlers
// treat it as an external collaborator; only this interface boundary is
// part of the application's design.
type BlobStore interface {
	// Save streams the reader's contents into the blob identified by id,
	// overwriting any previous contents.
	Save(ctx context.Context, id uuid.UUID, r io.Reader) error

	// Open returns a reader over the blob's contents.
	// Returns ErrFileNotFound if the blob does not exist.
	Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
