// Package sentinel holds the error vocabulary stores speak. Stores return
// these (optionally wrapped) as infrastructure facts; services translate them
// into domain errors. Validation failures never originate here — those use
// pkg/domain-errors directly.
package sentinel

import "errors"

// ErrNotFound reports that an entity does not exist in the store.
var ErrNotFound = errors.New("not found")
