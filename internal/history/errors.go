package history

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage marks failures reading or writing the ledger document
	ErrStorage = errors.New("history storage error")

	// ErrCorrupt marks a ledger document that exists but cannot be parsed
	ErrCorrupt = errors.New("history is corrupt")
)

// PersistError reports that the in-memory ledger changed but the change could
// not be written. The mutation is not rolled back; the caller decides whether
// to retry Save or warn that the change may be lost on restart.
type PersistError struct {
	Op       string
	Location string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: changed in memory but not saved to %s: %v", e.Op, e.Location, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
