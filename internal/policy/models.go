package policy

import id "tokenguard/pkg/domain"

// Policy is the global, owner-mutable compliance configuration. There is no
// historical versioning; readers always see the current snapshot.
type Policy struct {
	RequireKYC               bool        `json:"require_kyc"`
	MinKYCLevel              id.KYCLevel `json:"min_kyc_level"`
	AllowlistOnly            bool        `json:"allowlist_only"`
	JurisdictionRestrictions bool        `json:"jurisdiction_restrictions"`
	MaxTransferAmount        uint64      `json:"max_transfer_amount"` // 0 = unlimited
	DefaultDailyLimit        uint64      `json:"default_daily_limit"` // 0 = unlimited
	AuditTrailEnabled        bool        `json:"audit_trail_enabled"`
	// TransferApprovalRequired is carried for surface fidelity. The consumed
	// contract interface never gates on it, so no rule reads it yet.
	TransferApprovalRequired bool `json:"transfer_approval_required"`
}

// Default returns the genesis policy: nothing restricted, audit trail on.
func Default() Policy {
	return Policy{AuditTrailEnabled: true}
}
