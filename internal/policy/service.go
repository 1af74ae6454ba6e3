package policy

import (
	"context"
	"strings"

	"tokenguard/internal/access"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

// Service gates policy mutation behind the owner role. Setters are total
// functions over their input domain: no validation beyond the caller check.
type Service struct {
	store Store
	authz *access.Authority
}

func NewService(store Store, authz *access.Authority) *Service {
	return &Service{store: store, authz: authz}
}

// Policy returns the current policy snapshot. Unrestricted read.
func (s *Service) Policy(ctx context.Context) (Policy, error) {
	return s.store.Policy(ctx)
}

// IsJurisdictionBlocked reports blocklist membership. Unrestricted read.
func (s *Service) IsJurisdictionBlocked(ctx context.Context, code string) (bool, error) {
	return s.store.IsJurisdictionBlocked(ctx, code)
}

// BlockedJurisdictions lists the blocklist. Unrestricted read.
func (s *Service) BlockedJurisdictions(ctx context.Context) ([]string, error) {
	return s.store.BlockedJurisdictions(ctx)
}

// SetKYCRequired toggles the KYC gate and its minimum level in one call.
func (s *Service) SetKYCRequired(ctx context.Context, required bool, minLevel id.KYCLevel) error {
	return s.mutate(ctx, func(p *Policy) {
		p.RequireKYC = required
		p.MinKYCLevel = minLevel
	})
}

func (s *Service) SetAllowlistOnly(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func(p *Policy) { p.AllowlistOnly = enabled })
}

func (s *Service) SetJurisdictionRestrictions(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func(p *Policy) { p.JurisdictionRestrictions = enabled })
}

func (s *Service) SetMaxTransferAmount(ctx context.Context, amount uint64) error {
	return s.mutate(ctx, func(p *Policy) { p.MaxTransferAmount = amount })
}

func (s *Service) SetDefaultDailyLimit(ctx context.Context, limit uint64) error {
	return s.mutate(ctx, func(p *Policy) { p.DefaultDailyLimit = limit })
}

func (s *Service) SetAuditTrail(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func(p *Policy) { p.AuditTrailEnabled = enabled })
}

// BlockJurisdiction toggles blocklist membership for a jurisdiction code.
func (s *Service) BlockJurisdiction(ctx context.Context, code string, blocked bool) error {
	if err := s.authz.Require(requestcontext.Caller(ctx), access.CapManagePolicy); err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "jurisdiction code is required")
	}
	if err := s.store.SetJurisdictionBlocked(ctx, code, blocked); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update jurisdiction blocklist")
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, fn func(*Policy)) error {
	if err := s.authz.Require(requestcontext.Caller(ctx), access.CapManagePolicy); err != nil {
		return err
	}
	if err := s.store.Mutate(ctx, fn); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update policy")
	}
	return nil
}
