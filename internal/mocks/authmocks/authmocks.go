// Package authmocks contains simple hand-written test doubles for the auth
// ports. These are lightweight and suitable for unit tests without codegen:
// the in-memory session repo honors the same sliding-expiration and lazy
// expiry semantics as the postgres implementation.
package authmocks

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// Ensure compile-time conformance to ports.
var (
	_ core.SessionRepository = (*MemorySessionRepo)(nil)
	_ core.UserRepository    = (*MemoryUserRepo)(nil)
	_ core.SnapshotCache     = (*MemorySnapshotCache)(nil)
)

// MemorySessionRepo is an in-memory session repository for unit tests.
type MemorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	lifetime time.Duration
	tp       data.TimeProvider
}

// NewMemorySessionRepo creates an in-memory session repo with the given
// lifetime and time provider.
func NewMemorySessionRepo(lifetime time.Duration, tp data.TimeProvider) *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.Session),
		lifetime: lifetime,
		tp:       tp,
	}
}

func (m *MemorySessionRepo) Create(_ context.Context, userID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	now := m.tp.Now()
	sess := &model.Session{
		Token:     hex.EncodeToString(buf),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
		Status:    model.SessionStatusActive,
	}
	m.sessions[sess.Token] = sess
	out := *sess
	return &out, nil
}

func (m *MemorySessionRepo) Lookup(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return nil, data.ErrSessionNotFound
	}
	out := *sess
	return &out, nil
}

func (m *MemorySessionRepo) Refresh(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tp.Now()
	if sess, ok := m.sessions[token]; ok && sess.UsableAt(now) {
		sess.ExpiresAt = now.Add(m.lifetime)
	}
	// A dead or absent session is a successful no-op, matching the
	// conditional update in the postgres repo.
	return nil
}

func (m *MemorySessionRepo) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return data.ErrSessionNotFound
	}
	if sess.Status == model.SessionStatusRevoked {
		return data.ErrSessionRevoked
	}
	sess.Status = model.SessionStatusRevoked
	return nil
}

// Corrupt force-sets a session's fields for edge-case tests.
func (m *MemorySessionRepo) Corrupt(token string, mutate func(*model.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[token]; ok {
		mutate(sess)
	}
}

// MemoryUserRepo is an in-memory user repository for unit tests.
type MemoryUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int
	tp     data.TimeProvider
}

// NewMemoryUserRepo creates an empty in-memory user repo.
func NewMemoryUserRepo(tp data.TimeProvider) *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*model.User), tp: tp}
}

// Seed inserts a user directly, bypassing validation.
func (m *MemoryUserRepo) Seed(user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[u.ID] = &u
}

func (m *MemoryUserRepo) Create(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ProviderSub == req.ProviderSub && u.AuthProvider == req.AuthProvider {
			return nil, apperrors.Conflict("duplicate identity")
		}
	}
	m.nextID++
	user := &model.User{
		ID:           "user-" + hex.EncodeToString([]byte{byte(m.nextID)}),
		ProviderSub:  req.ProviderSub,
		AuthProvider: req.AuthProvider,
		Status:       model.UserStatusActive,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         model.RoleMember,
		JoinedAt:     m.tp.Now(),
	}
	m.users[user.ID] = user
	out := *user
	return &out, nil
}

func (m *MemoryUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (m *MemoryUserRepo) GetByProvider(_ context.Context, providerSub, authProvider string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ProviderSub == providerSub && u.AuthProvider == authProvider {
			out := *u
			return &out, nil
		}
	}
	return nil, data.ErrUserNotFound
}

func (m *MemoryUserRepo) TouchLastLogin(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return data.ErrUserNotFound
	}
	now := m.tp.Now()
	user.LastLogin = &now
	return nil
}

func (m *MemoryUserRepo) UpdateDisplayName(_ context.Context, id, displayName string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	now := m.tp.Now()
	user.DisplayName = displayName
	user.ModAt = &now
	out := *user
	return &out, nil
}

func (m *MemoryUserRepo) Snapshot(_ context.Context, id string) (*model.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	return &model.UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		JoinedAt:    user.JoinedAt,
	}, nil
}

// MemorySnapshotCache is an in-memory snapshot cache that counts operations
// so tests can assert on cache behavior.
type MemorySnapshotCache struct {
	mu      sync.Mutex
	entries map[string]*model.UserSummary

	Hits    int
	Misses  int
	Sets    int
	Deletes int
}

// NewMemorySnapshotCache creates an empty in-memory snapshot cache.
func NewMemorySnapshotCache() *MemorySnapshotCache {
	return &MemorySnapshotCache{entries: make(map[string]*model.UserSummary)}
}

func (m *MemorySnapshotCache) Get(_ context.Context, userID string) (*model.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if summary, ok := m.entries[userID]; ok {
		m.Hits++
		out := *summary
		return &out, nil
	}
	m.Misses++
	return nil, nil
}

func (m *MemorySnapshotCache) Set(_ context.Context, summary *model.UserSummary, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	out := *summary
	m.entries[summary.ID] = &out
	return nil
}

func (m *MemorySnapshotCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	delete(m.entries, userID)
	return nil
}
