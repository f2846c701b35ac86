// Package blob provides a local filesystem implementation of the
// store.BlobStore interface for uploaded music files. The layout is flat:
// one file per blob, named by its UUID.
package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/store"
)

// FilesystemStore stores blobs as files under a single directory.
type FilesystemStore struct {
	dir    string
	logger *slog.Logger
}

// NewFilesystemStore creates the backing directory if needed and returns
// a FilesystemStore rooted there.
func NewFilesystemStore(dir string, logger *slog.Logger) (*FilesystemStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory %q: %w", dir, err)
	}

	return &FilesystemStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "blob_store")),
	}, nil
}

// Ensure FilesystemStore implements store.BlobStore
var _ store.BlobStore = (*FilesystemStore)(nil)

// Save implements store.BlobStore.Save
// The write goes to a temp file first and is renamed into place so a
// failed upload never leaves a truncated blob behind.
func (s *FilesystemStore) Save(ctx context.Context, id uuid.UUID, r io.Reader) error {
	tmp, err := os.CreateTemp(s.dir, "upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write blob %s: %w", id, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close blob %s: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize blob %s: %w", id, err)
	}

	s.logger.Debug("blob saved", slog.String("file_id", id.String()))
	return nil
}

// Open implements store.BlobStore.Open
// Returns store.ErrFileNotFound if the blob does not exist.
func (s *FilesystemStore) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	f, err := os.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open blob %s: %w", id, err)
	}
	return f, nil
}

// Delete implements store.BlobStore.Delete
// Deleting a missing blob is not an error.
func (s *FilesystemStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}
	return nil
}

func (s *FilesystemStore) path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String())
}
