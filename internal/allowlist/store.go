package allowlist

import (
	"context"

	id "tokenguard/pkg/domain"
)

// Store is the membership set behind allowlist-only mode.
type Store interface {
	Set(ctx context.Context, account id.Address, status bool) error
	IsAllowlisted(ctx context.Context, account id.Address) (bool, error)
}
