package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

// PostgresStore persists the audit trail in PostgreSQL. Record IDs are
// assigned in-statement from the current maximum so the counter stays dense
// and monotonic; the orchestrator serializes writers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit trail store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit_records table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_records (
			record_id    BIGINT PRIMARY KEY,
			from_account TEXT NOT NULL,
			to_account   TEXT NOT NULL,
			amount       BIGINT NOT NULL,
			recorded_at  TIMESTAMPTZ NOT NULL,
			status       SMALLINT NOT NULL,
			reason       TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("ensure audit_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, record Record) (uint64, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO audit_records (record_id, from_account, to_account, amount, recorded_at, status, reason)
		SELECT COALESCE(MAX(record_id) + 1, 0), $1, $2, $3, $4, $5, $6 FROM audit_records
		RETURNING record_id`,
		record.From.String(), record.To.String(), int64(record.Amount),
		record.Timestamp, int16(record.Status), record.Reason)

	var recordID int64
	if err := row.Scan(&recordID); err != nil {
		return 0, fmt.Errorf("append audit record: %w", err)
	}
	return uint64(recordID), nil
}

func (s *PostgresStore) Get(ctx context.Context, recordID uint64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT record_id, from_account, to_account, amount, recorded_at, status, reason
		FROM audit_records WHERE record_id = $1`, int64(recordID))

	var (
		record Record
		rid    int64
		from   string
		to     string
		amount int64
		status int16
	)
	err := row.Scan(&rid, &from, &to, &amount, &record.Timestamp, &status, &record.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get audit record: %w", err)
	}

	record.ID = uint64(rid)
	record.From = id.Address(from)
	record.To = id.Address(to)
	record.Amount = uint64(amount)
	record.Status = Status(status)
	return record, nil
}

func (s *PostgresStore) NextID(ctx context.Context) (uint64, error) {
	var next int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(record_id) + 1, 0) FROM audit_records`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next audit record id: %w", err)
	}
	return uint64(next), nil
}
