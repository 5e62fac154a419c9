package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"userportal/internal/cache"
)

// Store is the backing key-value store for session records. Implemented by
// cache.Client.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var _ Store = (*cache.Client)(nil)

const keyPrefix = "session:"

// CookieName is the cookie carrying the opaque session token.
const CookieName = "sid"

// UserIdentity is the user slot of an authenticated session.
type UserIdentity struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AdminIdentity is the admin slot of an authenticated session.
type AdminIdentity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// Flash is a one-shot notice shown on the next rendered page and then
// discarded.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// State is the server-side session record. The user and admin slots are
// independent; either, both, or neither may be set.
type State struct {
	Token   string         `json:"-"`
	User    *UserIdentity  `json:"user,omitempty"`
	Admin   *AdminIdentity `json:"admin,omitempty"`
	Flashes []Flash        `json:"flashes,omitempty"`
}

// PushFlash queues a one-shot notice on the session.
func (s *State) PushFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// Manager stores session state in Redis keyed by an opaque token.
type Manager struct {
	store  Store
	maxAge time.Duration
}

// NewManager creates a session manager with the given max session age.
func NewManager(store Store, maxAge time.Duration) *Manager {
	return &Manager{store: store, maxAge: maxAge}
}

// MaxAge returns the configured session lifetime.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// NewState creates an empty session with a fresh token.
func (m *Manager) NewState() *State {
	return &State{Token: uuid.New().String()}
}

// Load fetches the session for token. A missing or unreadable record is
// reported as (nil, nil) so callers treat it as an anonymous session.
func (m *Manager) Load(ctx context.Context, token string) (*State, error) {
	data, err := m.store.Get(ctx, keyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil
	}
	state.Token = token
	return &state, nil
}

// Save persists the session, resetting its TTL to the configured max age.
func (m *Manager) Save(ctx context.Context, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := m.store.Set(ctx, keyPrefix+state.Token, payload, m.maxAge); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy removes the session record.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
