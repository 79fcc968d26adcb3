package auth

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory Store used when no database is configured.
type MemStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]User)}
}

// Find returns the record for the exact username or ErrNotFound.
func (s *MemStore) Find(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

// Insert stores the record. The existence check and the write share one
// critical section, so duplicate registrations race to a single winner.
func (s *MemStore) Insert(ctx context.Context, user *User) error {
	if user == nil || user.Username == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.Username] = *user
	return nil
}

// UpdateRole swaps the role on an existing record. Role changes take effect
// on the next token resolution without reissuing tokens.
func (s *MemStore) UpdateRole(ctx context.Context, username string, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	s.users[username] = u
	return nil
}
