package ledger

import (
	"fmt"
	"time"

	id "tokenguard/pkg/domain"
)

// Status is the lifecycle outcome stamped on an audit record. Records are
// written in a terminal state and never mutated; Pending and Approved exist
// for surface fidelity with the consumed interface.
type Status uint8

const (
	StatusPending Status = iota
	StatusApproved
	StatusRejected
	StatusExecuted
)

// MarshalJSON renders the status as its label; dashboards read "executed",
// not 3.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusExecuted:
		return "executed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Record is one immutable audit trail entry. IDs are assigned by the store,
// monotonically from 0, and never reused.
type Record struct {
	ID        uint64     `json:"record_id"`
	From      id.Address `json:"from"`
	To        id.Address `json:"to"`
	Amount    uint64     `json:"amount"`
	Timestamp time.Time  `json:"timestamp"`
	Status    Status     `json:"status"`
	Reason    string     `json:"reason"` // empty unless Rejected
}
