package policy

import "context"

// Store persists the policy singleton and the jurisdiction blocklist.
type Store interface {
	Policy(ctx context.Context) (Policy, error)
	// Mutate applies fn to the current policy under the store's write lock so
	// read-modify-write setters can't interleave.
	Mutate(ctx context.Context, fn func(*Policy)) error
	SetJurisdictionBlocked(ctx context.Context, code string, blocked bool) error
	IsJurisdictionBlocked(ctx context.Context, code string) (bool, error)
	BlockedJurisdictions(ctx context.Context) ([]string, error)
}
