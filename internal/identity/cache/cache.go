// Package cache puts a TTL-bounded Redis read-through in front of an identity
// store. getIdentity is the dashboard's hot read path; attest/freeze writes
// invalidate so stale compliance state is never served past the write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tokenguard/internal/identity"
	"tokenguard/internal/platform/redis"
	id "tokenguard/pkg/domain"
)

// TTL bounds how long a cached identity record may be served.
const TTL = 5 * time.Minute

// Store wraps an identity.Store with a Redis cache.
type Store struct {
	inner identity.Store
	rdb   *redis.Client
}

func New(inner identity.Store, rdb *redis.Client) *Store {
	return &Store{inner: inner, rdb: rdb}
}

func (s *Store) Get(ctx context.Context, account id.Address) (identity.Record, error) {
	key := cacheKey(account)

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var entry payload
		if err := json.Unmarshal(cached, &entry); err == nil {
			return entry.record(), nil
		}
		// Undecodable entry: drop it and fall through to the source of truth.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, goredis.Nil) {
		// Cache unavailable is not fatal; serve from the inner store.
		return s.inner.Get(ctx, account)
	}

	record, err := s.inner.Get(ctx, account)
	if err != nil {
		return identity.Record{}, err
	}
	if raw, err := json.Marshal(newPayload(record)); err == nil {
		s.rdb.Set(ctx, key, raw, TTL)
	}
	return record, nil
}

func (s *Store) Put(ctx context.Context, account id.Address, record identity.Record) error {
	if err := s.inner.Put(ctx, account, record); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, cacheKey(account)).Err(); err != nil {
		return fmt.Errorf("invalidate identity cache: %w", err)
	}
	return nil
}

func cacheKey(account id.Address) string {
	return "identity:" + account.String()
}

// payload is the cache wire form. identity.Record hides FreezeReason and
// WindowStart from API responses; the cache must round-trip every field.
type payload struct {
	Level        id.KYCLevel `json:"level"`
	Jurisdiction string      `json:"jurisdiction"`
	AttestedAt   time.Time   `json:"attested_at"`
	AttestedBy   id.Address  `json:"attested_by"`
	Frozen       bool        `json:"frozen"`
	FreezeReason string      `json:"freeze_reason"`
	DailyLimit   uint64      `json:"daily_limit"`
	SpentToday   uint64      `json:"spent_today"`
	WindowStart  time.Time   `json:"window_start"`
}

func newPayload(r identity.Record) payload {
	return payload{
		Level:        r.Level,
		Jurisdiction: r.Jurisdiction,
		AttestedAt:   r.AttestedAt,
		AttestedBy:   r.AttestedBy,
		Frozen:       r.Frozen,
		FreezeReason: r.FreezeReason,
		DailyLimit:   r.DailyLimit,
		SpentToday:   r.SpentToday,
		WindowStart:  r.WindowStart,
	}
}

func (p payload) record() identity.Record {
	return identity.Record{
		Level:        p.Level,
		Jurisdiction: p.Jurisdiction,
		AttestedAt:   p.AttestedAt,
		AttestedBy:   p.AttestedBy,
		Frozen:       p.Frozen,
		FreezeReason: p.FreezeReason,
		DailyLimit:   p.DailyLimit,
		SpentToday:   p.SpentToday,
		WindowStart:  p.WindowStart,
	}
}
