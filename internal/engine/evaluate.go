// Package engine holds the pure transfer evaluator. It has no stores, no
// clocks, and no side effects: every signal arrives in the Input snapshot, so
// the standalone pre-check and the orchestrator's in-line check produce
// identical decisions for identical state.
package engine

import (
	"time"

	"tokenguard/internal/identity"
	"tokenguard/internal/policy"
)

// Denial reasons. These are stable wire strings: the audit trail records them
// verbatim and callers assert on them, so they must never drift.
const (
	ReasonNotAllowlisted    = "not allowlisted"
	ReasonAccountFrozen     = "account frozen"
	ReasonInsufficientKYC   = "insufficient KYC"
	ReasonJurisdictionBlock = "jurisdiction blocked"
	ReasonMaxTransferAmount = "exceeds max transfer amount"
	ReasonDailyLimit        = "exceeds daily limit"
)

// Party is one side of a proposed transfer with the flags already resolved
// against the current committed state.
type Party struct {
	Identity            identity.Record
	Allowlisted         bool
	JurisdictionBlocked bool
}

// Input is the full state snapshot a decision depends on.
type Input struct {
	Policy policy.Policy
	From   Party
	To     Party
	Amount uint64
	Now    time.Time
}

// Decision is the evaluation outcome. A denial is a first-class result, not
// an error; Reason is empty exactly when Allowed is true.
type Decision struct {
	Allowed bool
	Reason  string
}

func allowed() Decision { return Decision{Allowed: true} }

func denied(reason string) Decision { return Decision{Reason: reason} }

// Evaluate applies the compliance rules in fixed order; the first failing
// rule decides. The order is part of the contract: audit records and the
// pre-check must agree on which reason a transfer fails with.
//
// Policy.TransferApprovalRequired is intentionally not consulted: it is a
// reserved flag with no enforcement in the current rule set.
func Evaluate(in Input) Decision {
	if in.Policy.AllowlistOnly && !(in.From.Allowlisted && in.To.Allowlisted) {
		return denied(ReasonNotAllowlisted)
	}

	if in.From.Identity.Frozen || in.To.Identity.Frozen {
		return denied(ReasonAccountFrozen)
	}

	if in.Policy.RequireKYC && in.From.Identity.Level < in.Policy.MinKYCLevel {
		return denied(ReasonInsufficientKYC)
	}

	if in.Policy.JurisdictionRestrictions && (in.From.JurisdictionBlocked || in.To.JurisdictionBlocked) {
		return denied(ReasonJurisdictionBlock)
	}

	if in.Policy.MaxTransferAmount > 0 && in.Amount > in.Policy.MaxTransferAmount {
		return denied(ReasonMaxTransferAmount)
	}

	if limit := effectiveDailyLimit(in); limit > 0 {
		spent := in.From.Identity.SpentInWindow(in.Now)
		if spent+in.Amount > limit {
			return denied(ReasonDailyLimit)
		}
	}

	return allowed()
}

// effectiveDailyLimit resolves the per-account override against the policy
// default; zero means unlimited.
func effectiveDailyLimit(in Input) uint64 {
	if in.From.Identity.DailyLimit > 0 {
		return in.From.Identity.DailyLimit
	}
	return in.Policy.DefaultDailyLimit
}
