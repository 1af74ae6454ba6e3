// Package access centralizes role checks for every mutator. Each write path
// calls Require exactly once, before touching any store, so enforcement can't
// drift between operations.
package access

import (
	"sync"

	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

// Capability names a guarded operation class. Mutators declare the capability
// they need; the authority decides which roles grant it.
type Capability string

const (
	CapManagePolicy    Capability = "manage_policy"    // owner
	CapManageRoles     Capability = "manage_roles"     // owner
	CapFreeze          Capability = "freeze"           // owner, compliance officer
	CapManageAllowlist Capability = "manage_allowlist" // owner, compliance officer
	CapAttest          Capability = "attest"           // identity providers
)

// Authority holds the three-tier role model: a single owner, a single
// compliance officer, and a set of identity providers. The owner is set at
// genesis and transferable by the current owner only.
type Authority struct {
	mu        sync.RWMutex
	owner     id.Address
	officer   id.Address
	providers map[id.Address]bool
}

// NewAuthority creates an authority with the genesis owner. The officer is
// unset and the provider set empty until the owner assigns them.
func NewAuthority(owner id.Address) *Authority {
	return &Authority{
		owner:     owner,
		providers: make(map[id.Address]bool),
	}
}

// Require returns nil when caller holds a role granting the capability, or a
// CodeUnauthorized error otherwise. Callers must invoke this before any state
// mutation.
func (a *Authority) Require(caller id.Address, cap Capability) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}

	switch cap {
	case CapManagePolicy, CapManageRoles:
		if caller == a.owner {
			return nil
		}
	case CapFreeze, CapManageAllowlist:
		if caller == a.owner || (!a.officer.IsZero() && caller == a.officer) {
			return nil
		}
	case CapAttest:
		if a.providers[caller] {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeUnauthorized, "caller lacks required role for "+string(cap))
}

// Owner returns the current owner address.
func (a *Authority) Owner() id.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.owner
}

// ComplianceOfficer returns the current compliance officer address (zero if unset).
func (a *Authority) ComplianceOfficer() id.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.officer
}

// IsProvider reports whether account is a registered identity provider.
func (a *Authority) IsProvider(account id.Address) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.providers[account]
}

// TransferOwnership hands the owner role to newOwner. Current owner only.
func (a *Authority) TransferOwnership(caller, newOwner id.Address) error {
	if err := a.Require(caller, CapManageRoles); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "new owner address is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owner = newOwner
	return nil
}

// SetComplianceOfficer assigns the single compliance officer role. Owner only.
func (a *Authority) SetComplianceOfficer(caller, officer id.Address) error {
	if err := a.Require(caller, CapManageRoles); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.officer = officer
	return nil
}

// UpdateIdentityProvider toggles provider-set membership. Owner only.
// Idempotent: setting an existing state is a no-op success.
func (a *Authority) UpdateIdentityProvider(caller, provider id.Address, status bool) error {
	if err := a.Require(caller, CapManageRoles); err != nil {
		return err
	}
	if provider.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "provider address is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if status {
		a.providers[provider] = true
	} else {
		delete(a.providers, provider)
	}
	return nil
}
