package session

import (
	"context"
	"sync"
	"time"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/model"
)

// memoryEntry pairs an identity with its expiry time.
type memoryEntry struct {
	identity  model.Identity
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and Redis-less
// development. Expired entries are dropped lazily on Resolve.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory creates a MemoryStore with the given session TTL.
func NewMemory(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores the identity under a fresh session ID.
func (s *MemoryStore) Create(ctx context.Context, identity *model.Identity) (string, error) {
	id, err := auth.GenerateSessionID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[id] = memoryEntry{
		identity:  *identity,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return id, nil
}

// Resolve returns the identity for a session ID.
func (s *MemoryStore) Resolve(ctx context.Context, id string) (*model.Identity, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	identity := entry.identity
	return &identity, nil
}

// Destroy removes a session. Removing an absent session is a no-op.
func (s *MemoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live entries. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
