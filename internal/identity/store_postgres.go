package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	id "tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

// PostgresStore persists identity records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the identities table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS identities (
			account       TEXT PRIMARY KEY,
			level         SMALLINT NOT NULL DEFAULT 0,
			jurisdiction  TEXT NOT NULL DEFAULT '',
			attested_at   TIMESTAMPTZ,
			attested_by   TEXT NOT NULL DEFAULT '',
			frozen        BOOLEAN NOT NULL DEFAULT FALSE,
			freeze_reason TEXT NOT NULL DEFAULT '',
			daily_limit   BIGINT NOT NULL DEFAULT 0,
			spent_today   BIGINT NOT NULL DEFAULT 0,
			window_start  TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("ensure identities schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, account id.Address) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT level, jurisdiction, attested_at, attested_by, frozen, freeze_reason,
		       daily_limit, spent_today, window_start
		FROM identities WHERE account = $1`, account.String())

	var (
		record      Record
		level       int16
		attestedAt  sql.NullTime
		attestedBy  string
		dailyLimit  int64
		spentToday  int64
		windowStart sql.NullTime
	)
	err := row.Scan(&level, &record.Jurisdiction, &attestedAt, &attestedBy,
		&record.Frozen, &record.FreezeReason, &dailyLimit, &spentToday, &windowStart)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get identity: %w", err)
	}

	record.Level = id.KYCLevel(level)
	record.AttestedBy = id.Address(attestedBy)
	record.DailyLimit = uint64(dailyLimit)
	record.SpentToday = uint64(spentToday)
	if attestedAt.Valid {
		record.AttestedAt = attestedAt.Time
	}
	if windowStart.Valid {
		record.WindowStart = windowStart.Time.UTC()
	}
	return record, nil
}

func (s *PostgresStore) Put(ctx context.Context, account id.Address, record Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities
			(account, level, jurisdiction, attested_at, attested_by, frozen,
			 freeze_reason, daily_limit, spent_today, window_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account) DO UPDATE SET
			level = EXCLUDED.level,
			jurisdiction = EXCLUDED.jurisdiction,
			attested_at = EXCLUDED.attested_at,
			attested_by = EXCLUDED.attested_by,
			frozen = EXCLUDED.frozen,
			freeze_reason = EXCLUDED.freeze_reason,
			daily_limit = EXCLUDED.daily_limit,
			spent_today = EXCLUDED.spent_today,
			window_start = EXCLUDED.window_start`,
		account.String(), int16(record.Level), record.Jurisdiction,
		nullTime(record.AttestedAt), record.AttestedBy.String(), record.Frozen,
		record.FreezeReason, int64(record.DailyLimit), int64(record.SpentToday),
		nullTime(record.WindowStart))
	if err != nil {
		return fmt.Errorf("put identity: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
