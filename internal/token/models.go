package token

// Metadata is the static token descriptor, fixed at genesis.
type Metadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// TransferResult is the outcome of a transfer attempt that made it through
// input validation and the balance check. A denial is a result, not an error.
type TransferResult struct {
	Allowed  bool    `json:"allowed"`
	Reason   string  `json:"reason,omitempty"`
	RecordID *uint64 `json:"record_id,omitempty"` // set when an audit record was written
}
