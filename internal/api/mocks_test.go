package api

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/api/shared"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/service/auth"
	"github.com/scriptly/scriptly-api/internal/store"
)

// fakeScriptStore is an in-memory store.ScriptStore for handler tests.
type fakeScriptStore struct {
	mu      sync.Mutex
	scripts map[uuid.UUID]*domain.Script
}

func newFakeScriptStore() *fakeScriptStore {
	return &fakeScriptStore{scripts: make(map[uuid.UUID]*domain.Script)}
}

func (f *fakeScriptStore) Create(ctx context.Context, script *domain.Script) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *script
	f.scripts[script.ID] = &cp
	return nil
}

func (f *fakeScriptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	script, ok := f.scripts[id]
	if !ok {
		return nil, store.ErrScriptNotFound
	}
	cp := *script
	return &cp, nil
}

func (f *fakeScriptStore) FindByUserAndName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, script := range f.scripts {
		if script.UserID == userID && script.Name == name {
			cp := *script
			return &cp, nil
		}
	}
	return nil, store.ErrScriptNotFound
}

func (f *fakeScriptStore) FindByUserAndSource(
	ctx context.Context,
	userID, sourceID uuid.UUID,
) (*domain.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, script := range f.scripts {
		if script.UserID == userID && script.SourceID == sourceID {
			cp := *script
			return &cp, nil
		}
	}
	return nil, store.ErrScriptNotFound
}

func (f *fakeScriptStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Script{}
	for _, script := range f.scripts {
		if script.UserID == userID {
			cp := *script
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeScriptStore) ListRecommended(
	ctx context.Context,
	userID uuid.UUID,
	minUsage int,
	since time.Time,
) ([]*domain.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Script{}
	for _, script := range f.scripts {
		if script.UserID != userID {
			continue
		}
		if script.UsageCount >= minUsage && !script.LastUsedAt.Before(since) {
			cp := *script
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeScriptStore) Update(ctx context.Context, script *domain.Script) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scripts[script.ID]; !ok {
		return store.ErrScriptNotFound
	}
	cp := *script
	f.scripts[script.ID] = &cp
	return nil
}

func (f *fakeScriptStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scripts[id]; !ok {
		return store.ErrScriptNotFound
	}
	delete(f.scripts, id)
	return nil
}

func (f *fakeScriptStore) DeleteStale(
	ctx context.Context,
	maxUsage int,
	lastUsedBefore time.Time,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, script := range f.scripts {
		if script.UsageCount < maxUsage && script.LastUsedAt.Before(lastUsedBefore) {
			delete(f.scripts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeScriptStore) WithTx(tx *sql.Tx) store.ScriptStore { return f }

// fakeUserStore is an in-memory store.UserStore for handler tests.
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*domain.User
	logins map[uuid.UUID][]time.Time
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:  make(map[uuid.UUID]*domain.User),
		logins: make(map[uuid.UUID][]time.Time),
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) RecordLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins[userID] = append(f.logins[userID], at)
	return nil
}

func (f *fakeUserStore) ListLogins(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time{}, f.logins[userID]...), nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

// fakeMusicStore is an in-memory store.MusicStore for handler tests.
type fakeMusicStore struct {
	mu     sync.Mutex
	tracks map[uuid.UUID]*domain.MusicTrack
}

func newFakeMusicStore() *fakeMusicStore {
	return &fakeMusicStore{tracks: make(map[uuid.UUID]*domain.MusicTrack)}
}

func (f *fakeMusicStore) Create(ctx context.Context, track *domain.MusicTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *track
	f.tracks[track.ID] = &cp
	return nil
}

func (f *fakeMusicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MusicTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	track, ok := f.tracks[id]
	if !ok {
		return nil, store.ErrTrackNotFound
	}
	cp := *track
	return &cp, nil
}

func (f *fakeMusicStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MusicTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.MusicTrack{}
	for _, track := range f.tracks {
		if track.UserID == userID {
			cp := *track
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMusicStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	track, ok := f.tracks[id]
	if !ok {
		return store.ErrTrackNotFound
	}
	track.Title = title
	return nil
}

func (f *fakeMusicStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tracks[id]; !ok {
		return store.ErrTrackNotFound
	}
	delete(f.tracks, id)
	return nil
}

func (f *fakeMusicStore) WithTx(tx *sql.Tx) store.MusicStore { return f }

// fakeBlobStore keeps blob contents in a map.
type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[uuid.UUID][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[uuid.UUID][]byte)}
}

func (f *fakeBlobStore) Save(ctx context.Context, id uuid.UUID, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[id] = data
	return nil
}

func (f *fakeBlobStore) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[id]
	if !ok {
		return nil, store.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, id)
	return nil
}

// stubJWTService returns canned tokens and accepts any validation call.
type stubJWTService struct {
	generateErr error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "access-token-" + userID.String(), nil
}

func (s *stubJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "refresh-token-" + userID.String(), nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (s *stubJWTService) ValidateRefreshToken(
	ctx context.Context,
	token string,
) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

// withOwner attaches an authenticated user ID to the request context the
// same way the auth middleware does.
func withOwner(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// doRequest dispatches the request through the given handler and returns
// the recorder.
func doRequest(handler http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}
