package token

import (
	"context"
	"sync"
	"time"

	"tokenguard/internal/allowlist"
	"tokenguard/internal/engine"
	"tokenguard/internal/identity"
	"tokenguard/internal/ledger"
	"tokenguard/internal/notify"
	"tokenguard/internal/platform/metrics"
	"tokenguard/internal/policy"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

// Service owns balances and allowances and orchestrates transfers: validate,
// evaluate, mutate, accrue, record, notify. One mutex serializes the whole
// sequence, mirroring the strictly-ordered transaction log this core models —
// a transfer either commits all of its writes or none of them.
type Service struct {
	mu          sync.Mutex
	meta        Metadata
	totalSupply uint64
	balances    map[id.Address]uint64
	allowances  map[id.Address]map[id.Address]uint64

	identities *identity.Service
	policies   *policy.Service
	allowlists *allowlist.Service
	trail      *ledger.Service
	notifier   notify.Notifier
	metrics    *metrics.Metrics
}

// NewService creates the token with the initial supply minted to the owner.
func NewService(
	meta Metadata,
	owner id.Address,
	initialSupply uint64,
	identities *identity.Service,
	policies *policy.Service,
	allowlists *allowlist.Service,
	trail *ledger.Service,
	notifier notify.Notifier,
	m *metrics.Metrics,
) *Service {
	balances := make(map[id.Address]uint64)
	if initialSupply > 0 {
		balances[owner] = initialSupply
	}
	return &Service{
		meta:        meta,
		totalSupply: initialSupply,
		balances:    balances,
		allowances:  make(map[id.Address]map[id.Address]uint64),
		identities:  identities,
		policies:    policies,
		allowlists:  allowlists,
		trail:       trail,
		notifier:    notifier,
		metrics:     m,
	}
}

// Metadata returns the token descriptor.
func (s *Service) Metadata() Metadata { return s.meta }

// TotalSupply returns the fixed total supply.
func (s *Service) TotalSupply() uint64 { return s.totalSupply }

// BalanceOf returns the current balance of an account.
func (s *Service) BalanceOf(account id.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[account]
}

// Allowance returns the spendable amount spender was approved for by owner.
func (s *Service) Allowance(owner, spender id.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowances[owner][spender]
}

// Approve sets the caller's allowance for spender. Approvals are not gated by
// compliance rules; only transfers are.
func (s *Service) Approve(ctx context.Context, spender id.Address, amount uint64) error {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if spender.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "spender address is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowances[caller] == nil {
		s.allowances[caller] = make(map[id.Address]uint64)
	}
	s.allowances[caller][spender] = amount
	return nil
}

// Check is the standalone pre-check (isTransferAllowed). It evaluates the
// same rules against the same committed state as Transfer, so its answer is
// authoritative for the subsequent attempt absent intervening mutation.
func (s *Service) Check(ctx context.Context, from, to id.Address, amount uint64) (engine.Decision, error) {
	if from.IsZero() || to.IsZero() {
		return engine.Decision{}, dErrors.New(dErrors.CodeInvalidInput, "from and to addresses are required")
	}
	pol, err := s.policies.Policy(ctx)
	if err != nil {
		return engine.Decision{}, err
	}
	return s.evaluate(ctx, pol, from, to, amount)
}

// Transfer moves amount from the caller to the recipient, gated by the
// evaluator. Balance sufficiency is a ledger integrity rule, checked before
// evaluation and failed loudly rather than audited as a denial.
func (s *Service) Transfer(ctx context.Context, to id.Address, amount uint64) (TransferResult, error) {
	start := time.Now()
	from := requestcontext.Caller(ctx)
	if from.IsZero() {
		return TransferResult{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if to.IsZero() {
		return TransferResult{}, dErrors.New(dErrors.CodeInvalidInput, "recipient address is required")
	}
	if amount == 0 {
		return TransferResult{}, dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	// Self-transfers would burn daily-limit headroom and append audit noise
	// for a balance no-op, so they are rejected up front.
	if to == from {
		return TransferResult{}, dErrors.New(dErrors.CodeInvalidInput, "cannot transfer to self")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[from] < amount {
		return TransferResult{}, dErrors.New(dErrors.CodeInsufficientBalance, "balance below transfer amount")
	}

	// One policy snapshot drives both the evaluation and the audit toggle so
	// a concurrent policy write can't split the decision from its recording.
	pol, err := s.policies.Policy(ctx)
	if err != nil {
		return TransferResult{}, err
	}
	decision, err := s.evaluate(ctx, pol, from, to, amount)
	if err != nil {
		return TransferResult{}, err
	}

	if !decision.Allowed {
		s.metrics.IncDenied(decision.Reason)
		result := TransferResult{Reason: decision.Reason}
		if pol.AuditTrailEnabled {
			record, err := s.trail.Record(ctx, from, to, amount, ledger.StatusRejected, decision.Reason)
			if err != nil {
				return TransferResult{}, err
			}
			result.RecordID = &record.ID
		}
		return result, nil
	}

	// Commit point. Balances move first, then the spend counter and audit
	// record; any later failure unwinds the earlier writes so the call
	// remains all-or-nothing.
	s.balances[from] -= amount
	s.balances[to] += amount

	if err := s.identities.Accrue(ctx, from, amount); err != nil {
		s.balances[from] += amount
		s.balances[to] -= amount
		return TransferResult{}, err
	}

	result := TransferResult{Allowed: true}
	if pol.AuditTrailEnabled {
		record, err := s.trail.Record(ctx, from, to, amount, ledger.StatusExecuted, "")
		if err != nil {
			s.balances[from] += amount
			s.balances[to] -= amount
			_ = s.identities.RevertAccrual(ctx, from, amount)
			return TransferResult{}, err
		}
		result.RecordID = &record.ID
	}

	// Everything above is committed; the notification is best-effort and a
	// refusing sink never turns a settled transfer into an error.
	err = s.notifier.Emit(ctx, notify.Event{
		Type:         notify.TypeTransferCompleted,
		Timestamp:    requestcontext.Now(ctx),
		Account:      from,
		Counterparty: to,
		Amount:       amount,
	})
	if err != nil {
		s.metrics.IncDroppedNotification(string(notify.TypeTransferCompleted))
	}

	s.metrics.TransfersExecuted.Inc()
	s.metrics.ObserveTransfer(start)
	return result, nil
}

// evaluate assembles the state snapshot and runs the pure evaluator.
func (s *Service) evaluate(ctx context.Context, pol policy.Policy, from, to id.Address, amount uint64) (engine.Decision, error) {
	fromParty, err := s.snapshotParty(ctx, from)
	if err != nil {
		return engine.Decision{}, err
	}
	toParty, err := s.snapshotParty(ctx, to)
	if err != nil {
		return engine.Decision{}, err
	}
	return engine.Evaluate(engine.Input{
		Policy: pol,
		From:   fromParty,
		To:     toParty,
		Amount: amount,
		Now:    requestcontext.Now(ctx),
	}), nil
}

func (s *Service) snapshotParty(ctx context.Context, account id.Address) (engine.Party, error) {
	record, err := s.identities.Get(ctx, account)
	if err != nil {
		return engine.Party{}, err
	}
	allowlisted, err := s.allowlists.IsAllowlisted(ctx, account)
	if err != nil {
		return engine.Party{}, err
	}
	party := engine.Party{Identity: record, Allowlisted: allowlisted}
	if record.Jurisdiction != "" {
		blocked, err := s.policies.IsJurisdictionBlocked(ctx, record.Jurisdiction)
		if err != nil {
			return engine.Party{}, err
		}
		party.JurisdictionBlocked = blocked
	}
	return party, nil
}
