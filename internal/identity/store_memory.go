package identity

import (
	"context"
	"sync"

	id "tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

// InMemoryStore keeps identity records in a map. Default store for dev and
// unit tests; production deployments point at the Postgres store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.Address]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.Address]Record)}
}

func (s *InMemoryStore) Get(_ context.Context, account id.Address) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[account]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *InMemoryStore) Put(_ context.Context, account id.Address, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[account] = record
	return nil
}
