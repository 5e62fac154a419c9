package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func TestManager_SaveLoadRoundTrip(t *testing.T) {
	mgr := NewManager(newMemStore(), time.Hour)
	ctx := context.Background()

	state := mgr.NewState()
	assert.NotEmpty(t, state.Token)
	state.User = &UserIdentity{ID: 1, Name: "Ann Lee"}
	state.PushFlash("success", "hello")

	assert.NoError(t, mgr.Save(ctx, state))

	loaded, err := mgr.Load(ctx, state.Token)
	assert.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Equal(t, state.Token, loaded.Token)
	assert.Equal(t, &UserIdentity{ID: 1, Name: "Ann Lee"}, loaded.User)
	assert.Nil(t, loaded.Admin)
	assert.Equal(t, []Flash{{Kind: "success", Message: "hello"}}, loaded.Flashes)
}

func TestManager_LoadUnknownToken(t *testing.T) {
	mgr := NewManager(newMemStore(), time.Hour)

	state, err := mgr.Load(context.Background(), "no-such-token")
	assert.NoError(t, err)
	assert.Nil(t, state)
}

func TestManager_Destroy(t *testing.T) {
	mgr := NewManager(newMemStore(), time.Hour)
	ctx := context.Background()

	state := mgr.NewState()
	assert.NoError(t, mgr.Save(ctx, state))
	assert.NoError(t, mgr.Destroy(ctx, state.Token))

	loaded, err := mgr.Load(ctx, state.Token)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestManager_IndependentSlots(t *testing.T) {
	mgr := NewManager(newMemStore(), time.Hour)
	ctx := context.Background()

	state := mgr.NewState()
	state.User = &UserIdentity{ID: 1, Name: "Ann Lee"}
	state.Admin = &AdminIdentity{ID: 9, Email: "root@portal.com"}
	assert.NoError(t, mgr.Save(ctx, state))

	loaded, err := mgr.Load(ctx, state.Token)
	assert.NoError(t, err)
	assert.NotNil(t, loaded.User)
	assert.NotNil(t, loaded.Admin)

	// Clearing one slot leaves the other authenticated.
	loaded.User = nil
	assert.NoError(t, mgr.Save(ctx, loaded))

	again, err := mgr.Load(ctx, state.Token)
	assert.NoError(t, err)
	assert.Nil(t, again.User)
	assert.Equal(t, &AdminIdentity{ID: 9, Email: "root@portal.com"}, again.Admin)
}
