package ledger

import (
	"context"
	"errors"

	"tokenguard/internal/notify"
	"tokenguard/internal/platform/metrics"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/sentinel"
	"tokenguard/pkg/requestcontext"
)

// Service wraps the audit trail store with domain error translation and the
// transfer-recorded notification. The orchestrator decides WHETHER a record
// is written (the audit toggle lives in policy); this service only writes.
type Service struct {
	store    Store
	notifier notify.Notifier
	metrics  *metrics.Metrics
}

func NewService(store Store, notifier notify.Notifier, m *metrics.Metrics) *Service {
	return &Service{store: store, notifier: notifier, metrics: m}
}

// Record appends an audit entry timestamped with the request time and emits
// the transfer-recorded notification carrying the assigned ID. The append is
// the commit point: once it succeeds the record exists and a refusing
// notification sink cannot unwind it, so the emit is best-effort.
func (s *Service) Record(ctx context.Context, from, to id.Address, amount uint64, status Status, reason string) (Record, error) {
	record := Record{
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: requestcontext.Now(ctx),
		Status:    status,
		Reason:    reason,
	}
	recordID, err := s.store.Append(ctx, record)
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit record")
	}
	record.ID = recordID
	s.metrics.AuditRecords.Inc()

	err = s.notifier.Emit(ctx, notify.Event{
		Type:         notify.TypeTransferRecorded,
		Timestamp:    record.Timestamp,
		Account:      from,
		Counterparty: to,
		Amount:       amount,
		RecordID:     recordID,
		Status:       status.String(),
	})
	if err != nil {
		s.metrics.IncDroppedNotification(string(notify.TypeTransferRecorded))
	}
	return record, nil
}

// Get returns an audit record by ID; IDs at or past the counter are NotFound.
func (s *Service) Get(ctx context.Context, recordID uint64) (Record, error) {
	record, err := s.store.Get(ctx, recordID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, dErrors.New(dErrors.CodeNotFound, "audit record does not exist")
	}
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit record")
	}
	return record, nil
}

// NextID returns the ID the next audit record will receive.
func (s *Service) NextID(ctx context.Context) (uint64, error) {
	next, err := s.store.NextID(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit counter")
	}
	return next, nil
}
