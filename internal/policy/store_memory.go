package policy

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryStore holds the policy singleton and blocklist behind one RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	policy  Policy
	blocked map[string]bool
}

// NewInMemoryStore creates a store seeded with the default policy.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		policy:  Default(),
		blocked: make(map[string]bool),
	}
}

func (s *InMemoryStore) Policy(_ context.Context) (Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy, nil
}

func (s *InMemoryStore) Mutate(_ context.Context, fn func(*Policy)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.policy)
	return nil
}

func (s *InMemoryStore) SetJurisdictionBlocked(_ context.Context, code string, blocked bool) error {
	code = canonicalJurisdiction(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if blocked {
		s.blocked[code] = true
	} else {
		delete(s.blocked, code)
	}
	return nil
}

func (s *InMemoryStore) IsJurisdictionBlocked(_ context.Context, code string) (bool, error) {
	code = canonicalJurisdiction(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocked[code], nil
}

func (s *InMemoryStore) BlockedJurisdictions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.blocked))
	for code := range s.blocked {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// canonicalJurisdiction normalizes codes so "kp" and "KP " block the same
// jurisdiction.
func canonicalJurisdiction(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
