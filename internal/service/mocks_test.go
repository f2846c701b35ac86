package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/store"
)

// fakeScriptStore is an in-memory store.ScriptStore used by the service
// tests. Individual operations can be forced to fail via the error fields.
type fakeScriptStore struct {
	mu      sync.Mutex
	scripts map[uuid.UUID]*domain.Script

	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeScriptStore() *fakeScriptStore {
	return &fakeScriptStore{scripts: make(map[uuid.UUID]*domain.Script)}
}

func (f *fakeScriptStore) Create(ctx context.Context, script *domain.Script) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

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

	if f.listErr != nil {
		return nil, f.listErr
	}

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

	if f.listErr != nil {
		return nil, f.listErr
	}

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

	if f.updateErr != nil {
		return f.updateErr
	}

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

	if f.deleteErr != nil {
		return f.deleteErr
	}

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

	if f.deleteErr != nil {
		return 0, f.deleteErr
	}

	var deleted int64
	for id, script := range f.scripts {
		if script.UsageCount < maxUsage && script.LastUsedAt.Before(lastUsedBefore) {
			delete(f.scripts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeScriptStore) WithTx(tx *sql.Tx) store.ScriptStore {
	return f
}

// count reports how many scripts the fake currently holds.
func (f *fakeScriptStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scripts)
}

// fakeUserStore is a minimal in-memory store.UserStore for the stats tests.
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

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return f
}

// fixedClock returns a now func pinned to the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
