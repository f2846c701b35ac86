package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/config"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recommendationTestConfig() config.RecommendationConfig {
	return config.RecommendationConfig{MinUsageCount: 3, WindowDays: 5}
}

// seedScript inserts a script with the given usage stats directly into the
// fake store.
func seedScript(
	t *testing.T,
	scripts *fakeScriptStore,
	ownerID uuid.UUID,
	name string,
	usageCount int,
	lastUsedAt time.Time,
) *domain.Script {
	t.Helper()

	script, err := domain.NewScript(ownerID, name, "content of "+name, lastUsedAt, lastUsedAt)
	require.NoError(t, err)
	script.UsageCount = usageCount
	script.LastUsedAt = lastUsedAt
	require.NoError(t, scripts.Create(context.Background(), script))
	return script
}

func TestRecommendationListFiltersByUsageAndRecency(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	svc := NewRecommendationService(scripts, recommendationTestConfig(), nil, fixedClock(now))

	ownerID := uuid.New()
	wanted := seedScript(t, scripts, ownerID, "frequent and recent", 3, now.Add(-time.Hour))
	seedScript(t, scripts, ownerID, "too rare", 2, now.Add(-time.Hour))
	seedScript(t, scripts, ownerID, "too old", 10, now.Add(-6*24*time.Hour))

	recommended, err := svc.List(context.Background(), ownerID)
	require.NoError(t, err)

	require.Len(t, recommended, 1)
	assert.Equal(t, wanted.ID, recommended[0].ID)
}

func TestRecommendationListBoundariesAreInclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	svc := NewRecommendationService(scripts, recommendationTestConfig(), nil, fixedClock(now))

	ownerID := uuid.New()
	// Exactly at the usage minimum and exactly at the window edge.
	seedScript(t, scripts, ownerID, "edge case", 3, now.Add(-5*24*time.Hour))

	recommended, err := svc.List(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Len(t, recommended, 1)
}

func TestRecommendationListScopedToOwner(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	svc := NewRecommendationService(scripts, recommendationTestConfig(), nil, fixedClock(now))

	ownerID := uuid.New()
	seedScript(t, scripts, uuid.New(), "someone else's", 10, now.Add(-time.Hour))

	recommended, err := svc.List(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Empty(t, recommended)
}

func TestRecommendationListRequiresOwner(t *testing.T) {
	t.Parallel()

	svc := NewRecommendationService(newFakeScriptStore(), recommendationTestConfig(), nil, nil)

	_, err := svc.List(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPromoteCreatesScriptWithSourceReference(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	svc := NewRecommendationService(scripts, recommendationTestConfig(), nil, fixedClock(now))

	ownerID := uuid.New()
	source := seedScript(t, scripts, ownerID, "morning run", 4, now.Add(-time.Hour))

	promoted, created, err := svc.Promote(context.Background(), ownerID, source.ID, "morning run again", "5k around the park")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, source.ID, promoted.SourceID)
	assert.NotEqual(t, source.ID, promoted.ID)
	assert.Equal(t, "morning run again", promoted.Name)
}

func TestPromoteTwiceBumpsExistingPromotion(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	svc := NewRecommendationService(scripts, recommendationTestConfig(), nil, fixedClock(now))

	ownerID := uuid.New()
	source := seedScript(t, scripts, ownerID, "morning run", 4, now.Add(-time.Hour))

	first, created, err := svc.Promote(context.Background(), ownerID, source.ID, "run", "5k")
	require.NoError(t, err)
	require.True(t, created)

	later := now.Add(time.Hour)
	svc.now = fixedClock(later)

	second, created, err := svc.Promote(context.Background(), ownerID, source.ID, "run renamed", "10k")
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, second.UsageCount)
	assert.Equal(t, later, second.LastUsedAt)
	assert.Equal(t, "5k", second.Content, "re-promotion must not overwrite the content")
}

func TestPromoteDedupIsPerOwner(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	svc := NewRecommendationService(scripts, recommendationTestConfig(), nil, fixedClock(now))

	sourceID := uuid.New()

	_, created, err := svc.Promote(context.Background(), uuid.New(), sourceID, "run", "5k")
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.Promote(context.Background(), uuid.New(), sourceID, "run", "5k")
	require.NoError(t, err)
	assert.True(t, created, "a different owner promoting the same source gets their own script")
}

func TestPromoteRequiresOwner(t *testing.T) {
	t.Parallel()

	svc := NewRecommendationService(newFakeScriptStore(), recommendationTestConfig(), nil, nil)

	_, _, err := svc.Promote(context.Background(), uuid.Nil, uuid.New(), "run", "5k")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
