package identity

import (
	"context"

	id "tokenguard/pkg/domain"
)

// Store persists identity records keyed by account address.
// Get returns sentinel.ErrNotFound for unknown accounts; the service layer
// translates that into the zero record.
type Store interface {
	Get(ctx context.Context, account id.Address) (Record, error)
	Put(ctx context.Context, account id.Address, record Record) error
}
