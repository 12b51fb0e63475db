package application

import (
	"errors"
	"fmt"

	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

var (
	// ErrMissingLedger ...
	ErrMissingLedger = errors.New("missing ledger")
	// ErrMissingFairPriceOracle ...
	ErrMissingFairPriceOracle = errors.New("missing fair price oracle")
	// ErrMissingProtocolFeeCollector ...
	ErrMissingProtocolFeeCollector = errors.New("missing protocol fee collector")
	// ErrInvalidDefaultCostLimit ...
	ErrInvalidDefaultCostLimit = errors.New("default cost limit must be greater than zero")
	// ErrInvalidHistoryConcurrency ...
	ErrInvalidHistoryConcurrency = errors.New("history concurrency must be greater than zero")
	// ErrInvalidFairPrice ...
	ErrInvalidFairPrice = errors.New("fair price must be greater than zero")
	// ErrUnknownDBType ...
	ErrUnknownDBType = errors.New("unknown db type")
)

// WriteOutcome tells what is known about the effects of a failed write.
type WriteOutcome int

const (
	// OutcomeNotApplied means the ledger didn't apply the operation.
	OutcomeNotApplied WriteOutcome = iota + 1
	// OutcomeUnknown means the operation was handed over to the ledger but
	// its confirmation was not observed.
	OutcomeUnknown
)

func (o WriteOutcome) String() string {
	switch o {
	case OutcomeNotApplied:
		return "not_applied"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// WriteError is the typed failure of a state changing operation. It's never
// retried.
type WriteError struct {
	Op            ports.OperationKind
	Outcome       WriteOutcome
	CorrelationID string
	Cause         error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf(
		"%s write failed with %s outcome: %s", e.Op, e.Outcome, e.Cause,
	)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// IsOutcomeUnknown returns whether the error is a write failure whose effects
// are unknown.
func IsOutcomeUnknown(err error) bool {
	var werr *WriteError
	return errors.As(err, &werr) && werr.Outcome == OutcomeUnknown
}
