package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"tokenguard/internal/access"
	"tokenguard/internal/notify"
	"tokenguard/internal/platform/metrics"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

var (
	owner    = id.MustAddress("0x1111111111111111111111111111111111111111")
	officer  = id.MustAddress("0x2222222222222222222222222222222222222222")
	provider = id.MustAddress("0x3333333333333333333333333333333333333333")
	alice    = id.MustAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
)

var day1 = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type IdentityServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
	events  []notify.Event
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	authz := access.NewAuthority(owner)
	s.Require().NoError(authz.SetComplianceOfficer(owner, officer))
	s.Require().NoError(authz.UpdateIdentityProvider(owner, provider, true))

	s.events = nil
	bus := notify.NewBus()
	bus.Subscribe(func(e notify.Event) { s.events = append(s.events, e) })

	s.store = NewInMemoryStore()
	s.service = NewService(s.store, authz, bus, metrics.NewWith(prometheus.NewRegistry()))
}

func (s *IdentityServiceSuite) ctxAs(caller id.Address, now time.Time) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, now)
}

func (s *IdentityServiceSuite) TestGetUnknownAccountIsZeroRecord() {
	record, err := s.service.Get(context.Background(), alice)
	s.Require().NoError(err)
	s.Equal(id.LevelNone, record.Level)
	s.False(record.Frozen)
	s.True(record.AttestedAt.IsZero())
	s.Zero(record.SpentToday)
}

func (s *IdentityServiceSuite) TestAttest() {
	s.Run("requires provider role", func() {
		for _, caller := range []id.Address{owner, officer, alice, ""} {
			err := s.service.Attest(s.ctxAs(caller, day1), alice, id.LevelBasic, "US", 0)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), "caller %s", caller)
		}
		s.Empty(s.events)
	})

	s.Run("stamps record and emits event", func() {
		ctx := s.ctxAs(provider, day1)
		s.Require().NoError(s.service.Attest(ctx, alice, id.LevelEnhanced, "DE", 5_000))

		record, err := s.service.Get(ctx, alice)
		s.Require().NoError(err)
		s.Equal(id.LevelEnhanced, record.Level)
		s.Equal("DE", record.Jurisdiction)
		s.Equal(uint64(5_000), record.DailyLimit)
		s.Equal(day1, record.AttestedAt)
		s.Equal(provider, record.AttestedBy)

		s.Require().Len(s.events, 1)
		s.Equal(notify.TypeIdentityAttested, s.events[0].Type)
		s.Equal(alice, s.events[0].Account)
		s.Equal(id.LevelEnhanced, s.events[0].Level)
		s.Equal(provider, s.events[0].Provider)
	})

	s.Run("re-attestation preserves freeze state and spend counter", func() {
		ctx := s.ctxAs(provider, day1)
		s.Require().NoError(s.service.Freeze(s.ctxAs(officer, day1), alice, "review"))
		s.Require().NoError(s.service.Accrue(ctx, alice, 300))

		s.Require().NoError(s.service.Attest(ctx, alice, id.LevelBasic, "FR", 0))

		record, err := s.service.Get(ctx, alice)
		s.Require().NoError(err)
		s.True(record.Frozen)
		s.Equal(uint64(300), record.SpentToday)
		s.Equal(id.LevelBasic, record.Level)
	})
}

type unreachableSink struct{}

func (unreachableSink) Emit(context.Context, notify.Event) error {
	return errors.New("sink unreachable")
}

func (s *IdentityServiceSuite) TestAttestPersistsWhenSinkFails() {
	authz := access.NewAuthority(owner)
	s.Require().NoError(authz.UpdateIdentityProvider(owner, provider, true))
	svc := NewService(NewInMemoryStore(), authz, unreachableSink{}, metrics.NewWith(prometheus.NewRegistry()))

	ctx := s.ctxAs(provider, day1)
	s.Require().NoError(svc.Attest(ctx, alice, id.LevelBasic, "US", 0), "the stored attestation stands; the emit is best-effort")

	record, err := svc.Get(ctx, alice)
	s.Require().NoError(err)
	s.Equal(id.LevelBasic, record.Level)
	s.Equal(provider, record.AttestedBy)
}

func (s *IdentityServiceSuite) TestFreezeUnfreeze() {
	s.Run("requires owner or officer", func() {
		err := s.service.Freeze(s.ctxAs(provider, day1), alice, "suspicious")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("freeze is idempotent and emits each time", func() {
		ctx := s.ctxAs(officer, day1)
		s.Require().NoError(s.service.Freeze(ctx, alice, "first"))
		s.Require().NoError(s.service.Freeze(ctx, alice, "second"))

		record, err := s.service.Get(ctx, alice)
		s.Require().NoError(err)
		s.True(record.Frozen)

		s.Require().Len(s.events, 2)
		s.Equal(notify.TypeAccountFrozen, s.events[0].Type)
		s.Equal("first", s.events[0].Reason)
		s.Equal("second", s.events[1].Reason)
	})

	s.Run("unfreeze clears the flag without an event", func() {
		ctx := s.ctxAs(owner, day1)
		s.Require().NoError(s.service.Freeze(ctx, alice, "hold"))
		emitted := len(s.events)

		s.Require().NoError(s.service.Unfreeze(ctx, alice))
		s.Require().NoError(s.service.Unfreeze(ctx, alice))

		record, err := s.service.Get(ctx, alice)
		s.Require().NoError(err)
		s.False(record.Frozen)
		s.Len(s.events, emitted)
	})

	s.Run("freezing an account with no identity record works", func() {
		other := id.MustAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
		s.Require().NoError(s.service.Freeze(s.ctxAs(officer, day1), other, ""))

		record, err := s.service.Get(context.Background(), other)
		s.Require().NoError(err)
		s.True(record.Frozen)
		s.Equal(id.LevelNone, record.Level)
	})
}

func (s *IdentityServiceSuite) TestAccrueRollsWindow() {
	ctx := s.ctxAs(provider, day1)
	s.Require().NoError(s.service.Accrue(ctx, alice, 100))
	s.Require().NoError(s.service.Accrue(ctx, alice, 50))

	record, err := s.service.Get(ctx, alice)
	s.Require().NoError(err)
	s.Equal(uint64(150), record.SpentToday)

	// Next UTC day: the read reports zero without rewriting the record, and
	// the next accrual starts a fresh window.
	day2 := day1.AddDate(0, 0, 1)
	ctx2 := s.ctxAs(provider, day2)

	record, err = s.service.Get(ctx2, alice)
	s.Require().NoError(err)
	s.Zero(record.SpentToday)

	stored, err := s.store.Get(context.Background(), alice)
	s.Require().NoError(err)
	s.Equal(uint64(150), stored.SpentToday, "reads never rewrite the counter")

	s.Require().NoError(s.service.Accrue(ctx2, alice, 25))
	record, err = s.service.Get(ctx2, alice)
	s.Require().NoError(err)
	s.Equal(uint64(25), record.SpentToday)
}

func (s *IdentityServiceSuite) TestRevertAccrual() {
	ctx := s.ctxAs(provider, day1)
	s.Require().NoError(s.service.Accrue(ctx, alice, 100))

	s.Require().NoError(s.service.RevertAccrual(ctx, alice, 40))
	record, err := s.service.Get(ctx, alice)
	s.Require().NoError(err)
	s.Equal(uint64(60), record.SpentToday)

	// Underflow clamps to zero.
	s.Require().NoError(s.service.RevertAccrual(ctx, alice, 1_000))
	record, err = s.service.Get(ctx, alice)
	s.Require().NoError(err)
	s.Zero(record.SpentToday)
}

func (s *IdentityServiceSuite) TestSpentInWindow() {
	record := Record{SpentToday: 80, WindowStart: DayStart(day1)}

	s.Equal(uint64(80), record.SpentInWindow(day1))
	s.Equal(uint64(80), record.SpentInWindow(day1.Add(13*time.Hour)), "same UTC day")
	s.Zero(record.SpentInWindow(day1.AddDate(0, 0, 1)))
	s.Zero(record.SpentInWindow(day1.AddDate(0, 0, -1)))
}

func (s *IdentityServiceSuite) TestDayStartUsesUTCCalendarDay() {
	// 23:30 in UTC-5 is 04:30 next day UTC.
	est := time.FixedZone("EST", -5*60*60)
	local := time.Date(2026, 3, 14, 23, 30, 0, 0, est)

	s.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), DayStart(local))
}
