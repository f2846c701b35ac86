package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMusicTrack(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	fileID := uuid.New()

	track, err := NewMusicTrack(userID, "rain sounds", fileID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, track.ID)
	assert.Equal(t, userID, track.UserID)
	assert.Equal(t, "rain sounds", track.Title)
	assert.Equal(t, fileID, track.FileID)
	assert.False(t, track.CreatedAt.IsZero())
}

func TestNewMusicTrackValidation(t *testing.T) {
	t.Parallel()

	_, err := NewMusicTrack(uuid.Nil, "rain sounds", uuid.New())
	assert.ErrorIs(t, err, ErrTrackUserIDEmpty)

	_, err = NewMusicTrack(uuid.New(), "", uuid.New())
	assert.ErrorIs(t, err, ErrTrackTitleEmpty)

	_, err = NewMusicTrack(uuid.New(), "rain sounds", uuid.Nil)
	assert.ErrorIs(t, err, ErrTrackFileIDEmpty)
}
