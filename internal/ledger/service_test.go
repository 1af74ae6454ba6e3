package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"tokenguard/internal/notify"
	"tokenguard/internal/platform/metrics"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

type LedgerServiceSuite struct {
	suite.Suite
	service *Service
	events  []notify.Event
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	s.events = nil
	bus := notify.NewBus()
	bus.Subscribe(func(e notify.Event) { s.events = append(s.events, e) })
	s.service = NewService(NewInMemoryStore(), bus, metrics.NewWith(prometheus.NewRegistry()))
}

func (s *LedgerServiceSuite) TestRecordStampsTimeAndEmits() {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	record, err := s.service.Record(ctx, alice, bob, 500, StatusExecuted, "")
	s.Require().NoError(err)
	s.Equal(uint64(0), record.ID)
	s.Equal(now, record.Timestamp)
	s.Equal(StatusExecuted, record.Status)

	s.Require().Len(s.events, 1)
	s.Equal(notify.TypeTransferRecorded, s.events[0].Type)
	s.Equal(alice, s.events[0].Account)
	s.Equal(bob, s.events[0].Counterparty)
	s.Equal(uint64(500), s.events[0].Amount)
	s.Equal("executed", s.events[0].Status)
	s.Equal(uint64(0), s.events[0].RecordID)
}

func (s *LedgerServiceSuite) TestRejectedRecordCarriesReason() {
	ctx := context.Background()

	record, err := s.service.Record(ctx, alice, bob, 500, StatusRejected, "account frozen")
	s.Require().NoError(err)
	s.Equal("account frozen", record.Reason)

	got, err := s.service.Get(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record, got)

	s.Require().Len(s.events, 1)
	s.Equal("rejected", s.events[0].Status)
}

type refusingSink struct{}

func (refusingSink) Emit(context.Context, notify.Event) error {
	return errors.New("sink unreachable")
}

func (s *LedgerServiceSuite) TestRecordCommitsWhenSinkFails() {
	svc := NewService(NewInMemoryStore(), refusingSink{}, metrics.NewWith(prometheus.NewRegistry()))

	record, err := svc.Record(context.Background(), alice, bob, 500, StatusExecuted, "")
	s.Require().NoError(err, "the append is the commit point; the emit is best-effort")

	got, err := svc.Get(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(record, got)

	next, err := svc.NextID(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(1), next)
}

func (s *LedgerServiceSuite) TestGetUnknownIsNotFound() {
	_, err := s.service.Get(context.Background(), 42)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LedgerServiceSuite) TestNextIDTracksAppends() {
	ctx := context.Background()

	next, err := s.service.NextID(ctx)
	s.Require().NoError(err)
	s.Zero(next)

	_, err = s.service.Record(ctx, alice, bob, 1, StatusExecuted, "")
	s.Require().NoError(err)

	next, err = s.service.NextID(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), next)
}
