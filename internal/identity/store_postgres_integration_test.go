//go:build integration

package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tokenguard/internal/identity"
	id "tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
	"tokenguard/pkg/testutil/containers"
)

var (
	alice    = id.MustAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	provider = id.MustAddress("0x3333333333333333333333333333333333333333")
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *identity.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = identity.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "identities"))
}

func (s *PostgresStoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Get(context.Background(), alice)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	attested := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	want := identity.Record{
		Level:        id.LevelEnhanced,
		Jurisdiction: "DE",
		AttestedAt:   attested,
		AttestedBy:   provider,
		Frozen:       true,
		FreezeReason: "pending review",
		DailyLimit:   10_000,
		SpentToday:   250,
		WindowStart:  identity.DayStart(attested),
	}
	s.Require().NoError(s.store.Put(ctx, alice, want))

	got, err := s.store.Get(ctx, alice)
	s.Require().NoError(err)
	s.Equal(want.Level, got.Level)
	s.Equal(want.Jurisdiction, got.Jurisdiction)
	s.True(want.AttestedAt.Equal(got.AttestedAt))
	s.Equal(want.AttestedBy, got.AttestedBy)
	s.True(got.Frozen)
	s.Equal(want.FreezeReason, got.FreezeReason)
	s.Equal(want.DailyLimit, got.DailyLimit)
	s.Equal(want.SpentToday, got.SpentToday)
	s.True(want.WindowStart.Equal(got.WindowStart))
}

func (s *PostgresStoreSuite) TestPutUpserts() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, alice, identity.Record{Level: id.LevelBasic}))
	s.Require().NoError(s.store.Put(ctx, alice, identity.Record{Level: id.LevelInstitutional, SpentToday: 42}))

	got, err := s.store.Get(ctx, alice)
	s.Require().NoError(err)
	s.Equal(id.LevelInstitutional, got.Level)
	s.Equal(uint64(42), got.SpentToday)
}

func (s *PostgresStoreSuite) TestZeroTimesSurviveRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, alice, identity.Record{Level: id.LevelBasic}))

	got, err := s.store.Get(ctx, alice)
	s.Require().NoError(err)
	s.True(got.AttestedAt.IsZero())
	s.True(got.WindowStart.IsZero())
}
