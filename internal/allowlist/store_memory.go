package allowlist

import (
	"context"
	"sync"

	id "tokenguard/pkg/domain"
)

// InMemoryStore keeps allowlist membership in a map.
type InMemoryStore struct {
	mu      sync.RWMutex
	members map[id.Address]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{members: make(map[id.Address]bool)}
}

func (s *InMemoryStore) Set(_ context.Context, account id.Address, status bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status {
		s.members[account] = true
	} else {
		delete(s.members, account)
	}
	return nil
}

func (s *InMemoryStore) IsAllowlisted(_ context.Context, account id.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members[account], nil
}
