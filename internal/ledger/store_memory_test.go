package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	id "tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

var (
	alice = id.MustAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bob   = id.MustAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *MemoryStoreSuite) TestAppendAssignsSequentialIDs() {
	ctx := context.Background()

	for want := uint64(0); want < 5; want++ {
		got, err := s.store.Append(ctx, Record{From: alice, To: bob, Amount: want + 1})
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	next, err := s.store.NextID(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(5), next)
}

func (s *MemoryStoreSuite) TestGet() {
	ctx := context.Background()

	recordID, err := s.store.Append(ctx, Record{
		From:   alice,
		To:     bob,
		Amount: 250,
		Status: StatusRejected,
		Reason: "not allowlisted",
	})
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, recordID)
	s.Require().NoError(err)
	s.Equal(recordID, got.ID)
	s.Equal(alice, got.From)
	s.Equal(bob, got.To)
	s.Equal(uint64(250), got.Amount)
	s.Equal(StatusRejected, got.Status)
	s.Equal("not allowlisted", got.Reason)
}

func (s *MemoryStoreSuite) TestGetPastCounterIsNotFound() {
	ctx := context.Background()

	_, err := s.store.Get(ctx, 0)
	s.True(errors.Is(err, sentinel.ErrNotFound))

	_, err = s.store.Append(ctx, Record{From: alice, To: bob, Amount: 1})
	s.Require().NoError(err)

	_, err = s.store.Get(ctx, 1)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *MemoryStoreSuite) TestEmptyStoreNextIDIsZero() {
	next, err := s.store.NextID(context.Background())
	s.Require().NoError(err)
	s.Zero(next)
}
