package store

import (
	"context"
	"sync"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// MemoryStore is an in-memory implementation of the TokenStore interface.
// It does not survive restarts and is primarily intended for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	set     bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() ports.TokenStore {
	return &MemoryStore{}
}

// Set overwrites both tokens under a single lock.
func (s *MemoryStore) Set(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	s.refresh = refresh
	s.set = true
	return nil
}

// Access returns the stored access token.
func (s *MemoryStore) Access(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return "", core.ErrNoToken
	}
	return s.access, nil
}

// Refresh returns the stored refresh token.
func (s *MemoryStore) Refresh(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return "", core.ErrNoToken
	}
	return s.refresh, nil
}

// Clear removes both tokens.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
	s.set = false
	return nil
}
