package ledger

import "context"

// Store is the append-only audit trail. Append assigns the next record ID and
// advances the counter by exactly one; nothing ever rewrites or removes an
// entry. Get returns sentinel.ErrNotFound for IDs at or past the counter.
type Store interface {
	Append(ctx context.Context, record Record) (uint64, error)
	Get(ctx context.Context, recordID uint64) (Record, error)
	NextID(ctx context.Context) (uint64, error)
}
