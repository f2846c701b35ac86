package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
)

// ScriptStore defines the interface for script (task) data persistence.
type ScriptStore interface {
	// Create saves a new script to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	// Returns validation errors from the domain Script if data is invalid.
	Create(ctx context.Context, script *domain.Script) error

	// GetByID retrieves a script by its unique ID.
	// Returns ErrScriptNotFound if the script does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Script, error)

	// FindByUserAndName retrieves the script with the given name owned by
	// the given user. (user, name) is a soft-unique key: the create flow
	// treats an existing match as a reuse rather than inserting a duplicate.
	// Returns ErrScriptNotFound if no such script exists.
	FindByUserAndName(ctx context.Context, userID uuid.UUID, name string) (*domain.Script, error)

	// FindByUserAndSource retrieves the script owned by the given user that
	// was promoted from the given source script ID.
	// Returns ErrScriptNotFound if no such script exists.
	FindByUserAndSource(ctx context.Context, userID, sourceID uuid.UUID) (*domain.Script, error)

	// ListByUser returns all scripts owned by the given user, newest first.
	// Returns an empty slice when the user owns no scripts.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Script, error)

	// ListRecommended returns the scripts owned by the given user with
	// usage count >= minUsage and last used at or after the since instant.
	// Both boundaries are inclusive.
	ListRecommended(
		ctx context.Context,
		userID uuid.UUID,
		minUsage int,
		since time.Time,
	) ([]*domain.Script, error)

	// Update persists the full state of an existing script.
	// Returns ErrScriptNotFound if the script does not exist.
	Update(ctx context.Context, script *domain.Script) error

	// Delete removes a script from the store by its ID.
	// Returns ErrScriptNotFound if the script does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteStale removes every script with usage count < maxUsage whose
	// last-used timestamp is strictly before the given instant, regardless
	// of owner. Returns the number of scripts deleted. This is the
	// sweeper's bulk predicate; it intentionally shares no thresholds with
	// ListRecommended.
	DeleteStale(ctx context.Context, maxUsage int, lastUsedBefore time.Time) (int64, error)

	// WithTx returns a new ScriptStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ScriptStore
}
