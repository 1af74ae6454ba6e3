package ledger

import (
	"context"
	"sync"

	"tokenguard/pkg/platform/sentinel"
)

// InMemoryStore keeps the audit trail as an append-only slice; the slice
// index is the record ID.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, record Record) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = uint64(len(s.records))
	s.records = append(s.records, record)
	return record.ID, nil
}

func (s *InMemoryStore) Get(_ context.Context, recordID uint64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if recordID >= uint64(len(s.records)) {
		return Record{}, sentinel.ErrNotFound
	}
	return s.records[recordID], nil
}

func (s *InMemoryStore) NextID(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.records)), nil
}
