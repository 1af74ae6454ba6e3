// Package notify carries the observable side-channel events consumers (the
// dashboard, downstream pipelines) subscribe to. The core emits exactly one
// event per successful mutating call that defines one, none on failure.
// Delivery is best-effort: services emit only after their state writes have
// committed, and a refusing sink is counted and dropped rather than unwinding
// the committed write.
package notify

import (
	"context"
	"time"

	id "tokenguard/pkg/domain"
)

// Type enumerates the notification kinds, matching the contract surface.
type Type string

const (
	TypeTransferCompleted Type = "transfer-completed"
	TypeIdentityAttested  Type = "identity-attested"
	TypeAccountFrozen     Type = "account-frozen"
	TypeTransferRecorded  Type = "transfer-recorded"
)

// Event is a single notification. Only the fields relevant to the Type are
// populated; the rest stay zero and are omitted on the wire.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Account      id.Address `json:"account,omitempty"`      // from / attested / frozen account
	Counterparty id.Address `json:"counterparty,omitempty"` // transfer recipient
	Amount       uint64     `json:"amount,omitempty"`

	Level        id.KYCLevel `json:"level,omitempty"`        // identity-attested
	Jurisdiction string      `json:"jurisdiction,omitempty"` // identity-attested
	Provider     id.Address  `json:"provider,omitempty"`     // identity-attested

	Reason string `json:"reason,omitempty"` // account-frozen

	RecordID uint64 `json:"record_id,omitempty"` // transfer-recorded
	Status   string `json:"status,omitempty"`    // transfer-recorded
}

// Notifier delivers events to subscribers or external sinks.
type Notifier interface {
	Emit(ctx context.Context, event Event) error
}
