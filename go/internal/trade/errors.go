package trade

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a trade does not exist.
var ErrNotFound = errors.New("trade not found")

// ErrCancelBlocked is returned when a trade cannot be cancelled because one
// of its assets was moved again by a later completed trade.
var ErrCancelBlocked = errors.New("trade assets were moved by a later trade")

// ErrNotCompleted is returned when cancellation is attempted on a trade that
// is not in the COMPLETED state.
var ErrNotCompleted = errors.New("trade is not completed")

// ValidationError reports a structural problem with a proposed trade:
// missing parties or assets. Always caller-correctable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s", e.Reason)
}

// DistributionError reports a problem with the asset distribution: an
// unbalanced or self-receiving split of the contributed assets.
type DistributionError struct {
	Reason string
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("invalid asset distribution: %s", e.Reason)
}

// OwnershipError indicates the trade referenced a pick that does not exist,
// is already complete, or is not owned by the claimed contributor. It means
// the caller acted on stale state; the whole trade aborts with no mutation.
type OwnershipError struct {
	Reason string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ownership check failed: %s", e.Reason)
}
