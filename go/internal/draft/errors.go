package draft

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a draft or pick slot does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoActiveDraft is returned when an operation requires an active draft and
// none exists.
var ErrNoActiveDraft = errors.New("no active draft")

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// ErrVersionConflict is returned when a draft write loses the
// compare-and-swap on the draft's version column. The caller must re-query
// state before retrying; nothing was written.
var ErrVersionConflict = errors.New("draft was modified concurrently")

// StateConflictError reports a precondition failure such as a second active
// draft or removing the last round.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict: %s", e.Reason)
}
