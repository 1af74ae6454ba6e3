package allowlist

import (
	"context"

	"tokenguard/internal/access"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

// Service gates allowlist mutation behind the owner or compliance officer
// roles. Membership writes are idempotent.
type Service struct {
	store Store
	authz *access.Authority
}

func NewService(store Store, authz *access.Authority) *Service {
	return &Service{store: store, authz: authz}
}

// Update sets membership for an account.
func (s *Service) Update(ctx context.Context, account id.Address, status bool) error {
	if err := s.authz.Require(requestcontext.Caller(ctx), access.CapManageAllowlist); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "account address is required")
	}
	if err := s.store.Set(ctx, account, status); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update allowlist")
	}
	return nil
}

// IsAllowlisted reports membership. Unrestricted read.
func (s *Service) IsAllowlisted(ctx context.Context, account id.Address) (bool, error) {
	member, err := s.store.IsAllowlisted(ctx, account)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check allowlist")
	}
	return member, nil
}
