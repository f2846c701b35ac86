package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MusicTrack-specific validation errors
var (
	ErrTrackIDEmpty     = errors.New("track ID cannot be empty")
	ErrTrackUserIDEmpty = errors.New("track user ID cannot be empty")
	ErrTrackTitleEmpty  = errors.New("track title cannot be empty")
	ErrTrackFileIDEmpty = errors.New("track file ID cannot be empty")
)

// MusicTrack represents metadata for an uploaded background music file.
// The FileID is an opaque reference into the blob store; the bytes
// themselves never pass through the database.
type MusicTrack struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	FileID    uuid.UUID `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMusicTrack creates a new MusicTrack owned by the given user,
// referencing an already-stored blob.
// Returns an error if validation fails.
func NewMusicTrack(userID uuid.UUID, title string, fileID uuid.UUID) (*MusicTrack, error) {
	track := &MusicTrack{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := track.Validate(); err != nil {
		return nil, err
	}

	return track, nil
}

// Validate checks if the MusicTrack has valid data.
func (t *MusicTrack) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTrackIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTrackUserIDEmpty
	}

	if t.Title == "" {
		return ErrTrackTitleEmpty
	}

	if t.FileID == uuid.Nil {
		return ErrTrackFileIDEmpty
	}

	return nil
}
