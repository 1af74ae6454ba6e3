package identity

import (
	"context"
	"errors"

	"tokenguard/internal/access"
	"tokenguard/internal/notify"
	"tokenguard/internal/platform/metrics"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/sentinel"
	"tokenguard/pkg/requestcontext"
)

// Service owns the identity registry: attestations, freeze state, and the
// daily spend counter. Role checks run before any store write.
type Service struct {
	store    Store
	authz    *access.Authority
	notifier notify.Notifier
	metrics  *metrics.Metrics
}

func NewService(store Store, authz *access.Authority, notifier notify.Notifier, m *metrics.Metrics) *Service {
	return &Service{store: store, authz: authz, notifier: notifier, metrics: m}
}

// Get returns the identity record for an account. Unknown accounts read as
// the zero record; a counter accrued in an earlier day window reads as zero
// spend without being rewritten.
func (s *Service) Get(ctx context.Context, account id.Address) (Record, error) {
	if account.IsZero() {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "account address is required")
	}
	record, err := s.store.Get(ctx, account)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	now := requestcontext.Now(ctx)
	if record.SpentInWindow(now) == 0 {
		record.SpentToday = 0
		record.WindowStart = DayStart(now)
	}
	return record, nil
}

// Attest overwrites level, jurisdiction, and daily limit for an account and
// stamps the attestation. Identity providers only. Does not clear freeze
// state or the current spend counter.
func (s *Service) Attest(ctx context.Context, account id.Address, level id.KYCLevel, jurisdiction string, dailyLimit uint64) error {
	caller := requestcontext.Caller(ctx)
	if err := s.authz.Require(caller, access.CapAttest); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "account address is required")
	}

	record, err := s.load(ctx, account)
	if err != nil {
		return err
	}
	now := requestcontext.Now(ctx)
	record.Level = level
	record.Jurisdiction = jurisdiction
	record.DailyLimit = dailyLimit
	record.AttestedAt = now
	record.AttestedBy = caller

	if err := s.store.Put(ctx, account, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store attestation")
	}
	s.metrics.Attestations.Inc()
	// The attestation is stored; the notification is best-effort from here.
	err = s.notifier.Emit(ctx, notify.Event{
		Type:         notify.TypeIdentityAttested,
		Timestamp:    now,
		Account:      account,
		Level:        level,
		Jurisdiction: jurisdiction,
		Provider:     caller,
	})
	if err != nil {
		s.metrics.IncDroppedNotification(string(notify.TypeIdentityAttested))
	}
	return nil
}

// Freeze marks an account frozen. Owner or compliance officer. Idempotent:
// freezing an already-frozen account overwrites the reason and succeeds.
func (s *Service) Freeze(ctx context.Context, account id.Address, reason string) error {
	if err := s.authz.Require(requestcontext.Caller(ctx), access.CapFreeze); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "account address is required")
	}

	record, err := s.load(ctx, account)
	if err != nil {
		return err
	}
	record.Frozen = true
	record.FreezeReason = reason

	if err := s.store.Put(ctx, account, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to freeze account")
	}
	s.metrics.AccountsFrozen.Inc()
	err = s.notifier.Emit(ctx, notify.Event{
		Type:      notify.TypeAccountFrozen,
		Timestamp: requestcontext.Now(ctx),
		Account:   account,
		Reason:    reason,
	})
	if err != nil {
		s.metrics.IncDroppedNotification(string(notify.TypeAccountFrozen))
	}
	return nil
}

// Unfreeze clears the frozen flag. Owner or compliance officer. Idempotent.
// The contract surface defines no unfreeze event, so none is emitted.
func (s *Service) Unfreeze(ctx context.Context, account id.Address) error {
	if err := s.authz.Require(requestcontext.Caller(ctx), access.CapFreeze); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "account address is required")
	}

	record, err := s.load(ctx, account)
	if err != nil {
		return err
	}
	record.Frozen = false

	if err := s.store.Put(ctx, account, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unfreeze account")
	}
	return nil
}

// Accrue adds amount to the account's spend counter in the window containing
// now, rolling the window first if the stored one is stale. This is a trusted
// post-check write: the evaluator has already verified the effective limit,
// so no limit check happens here.
func (s *Service) Accrue(ctx context.Context, account id.Address, amount uint64) error {
	record, err := s.load(ctx, account)
	if err != nil {
		return err
	}
	now := requestcontext.Now(ctx)
	windowStart := DayStart(now)
	if !record.WindowStart.Equal(windowStart) {
		record.WindowStart = windowStart
		record.SpentToday = 0
	}
	record.SpentToday += amount

	if err := s.store.Put(ctx, account, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update spend counter")
	}
	return nil
}

// RevertAccrual subtracts amount from the current window's counter. Only the
// transfer orchestrator calls this, to unwind an accrual whose enclosing
// transfer failed after the counter was updated.
func (s *Service) RevertAccrual(ctx context.Context, account id.Address, amount uint64) error {
	record, err := s.load(ctx, account)
	if err != nil {
		return err
	}
	if record.SpentToday < amount {
		record.SpentToday = 0
	} else {
		record.SpentToday -= amount
	}
	if err := s.store.Put(ctx, account, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revert spend counter")
	}
	return nil
}

// load fetches the raw stored record, mapping "unknown" to the zero record.
func (s *Service) load(ctx context.Context, account id.Address) (Record, error) {
	record, err := s.store.Get(ctx, account)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return record, nil
}
