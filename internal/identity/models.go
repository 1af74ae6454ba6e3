package identity

import (
	"time"

	id "tokenguard/pkg/domain"
)

// Record is the per-account KYC state. The zero value is the canonical
// "never attested" record: level none, nothing frozen, no limits.
type Record struct {
	Level        id.KYCLevel `json:"level"`
	Jurisdiction string      `json:"jurisdiction"`
	AttestedAt   time.Time   `json:"attested_at"` // zero = never attested
	AttestedBy   id.Address  `json:"attested_by"`
	Frozen       bool        `json:"frozen"`
	FreezeReason string      `json:"-"`           // event payload only, not exposed on reads
	DailyLimit   uint64      `json:"daily_limit"` // 0 = policy default (or unlimited)
	SpentToday   uint64      `json:"spent_today"`
	WindowStart  time.Time   `json:"-"` // UTC midnight of the day SpentToday accrued in
}

// SpentInWindow returns the amount already spent in the window containing now.
// A counter accrued in an earlier window reads as zero; the stored value is
// only rolled on the next accrual, never by reads.
func (r Record) SpentInWindow(now time.Time) uint64 {
	if !r.WindowStart.Equal(DayStart(now)) {
		return 0
	}
	return r.SpentToday
}

// DayStart returns the fixed window boundary containing t: midnight of t's
// UTC calendar day.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
