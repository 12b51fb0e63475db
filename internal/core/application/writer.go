package application

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

// WriteStatus ...
type WriteStatus int

const (
	// StatusApplied means the ledger applied the operation.
	StatusApplied WriteStatus = iota + 1
	// StatusUnchanged means the operation was a no-op and the ledger was not
	// contacted.
	StatusUnchanged
)

func (s WriteStatus) String() string {
	switch s {
	case StatusApplied:
		return writeStatusApplied
	case StatusUnchanged:
		return writeStatusUnchanged
	default:
		return "invalid"
	}
}

// WriteResult is the success record of a state changing operation. Receipt
// is nil if the status is StatusUnchanged.
type WriteResult struct {
	Status        WriteStatus
	CorrelationID string
	Receipt       *ports.Receipt
}

// EstimateOrDefault runs the given cost estimation and returns its result.
// If the estimation fails the default cost is returned along with the
// absorbed error.
func EstimateOrDefault(
	estimate func() (uint64, error), def uint64,
) (uint64, error) {
	if estimate == nil {
		return def, nil
	}
	cost, err := estimate()
	if err != nil {
		return def, err
	}
	return cost, nil
}

// resilientWriter submits operations to the ledger after estimating their
// cost and fetching a fresh fair price.
type resilientWriter struct {
	ledger           ports.Ledger
	estimator        ports.CostEstimator
	oracle           ports.FairPriceOracle
	defaultCostLimit uint64
	metrics          *writeMetrics
}

func (w *resilientWriter) write(
	ctx context.Context, op ports.Operation,
) (*WriteResult, error) {
	correlationID := uuid.New().String()
	logger := log.WithFields(log.Fields{
		"op":             op.Kind.String(),
		"correlation_id": correlationID,
	})
	if !op.ExchangeID.IsZero() {
		logger = logger.WithField("exchange", op.ExchangeID.Hex())
	}

	fail := func(outcome WriteOutcome, cause error) (*WriteResult, error) {
		status := writeStatusNotApplied
		if outcome == OutcomeUnknown {
			status = writeStatusUnknown
		}
		w.metrics.writes.WithLabelValues(op.Kind.String(), status).Inc()
		logger.WithError(cause).Warnf("write failed, outcome %s", outcome)
		return nil, &WriteError{
			Op:            op.Kind,
			Outcome:       outcome,
			CorrelationID: correlationID,
			Cause:         cause,
		}
	}

	if err := ctx.Err(); err != nil {
		return fail(OutcomeNotApplied, err)
	}

	var estimate func() (uint64, error)
	if w.estimator != nil {
		estimate = func() (uint64, error) {
			return w.estimator.EstimateCost(ctx, op)
		}
	}
	cost, err := EstimateOrDefault(estimate, w.defaultCostLimit)
	if err != nil {
		w.metrics.costEstimationFallbacks.Inc()
		logger.WithError(err).Warnf(
			"cost estimation failed, using default %d", w.defaultCostLimit,
		)
	}
	costLimit := cost
	if costLimit < math.MaxUint64 {
		costLimit++
	}

	unitPrice, err := w.oracle.FairPrice(ctx)
	if err != nil {
		return fail(OutcomeNotApplied, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(OutcomeNotApplied, err)
	}

	receipt, err := w.ledger.Submit(ctx, op, ports.SubmitOpts{
		CostLimit: costLimit,
		UnitPrice: unitPrice,
	})
	if err != nil {
		if errors.Is(err, ports.ErrOutcomeUnknown) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return fail(OutcomeUnknown, err)
		}
		return fail(OutcomeNotApplied, err)
	}

	w.metrics.writes.WithLabelValues(op.Kind.String(), writeStatusApplied).Inc()
	logger.WithFields(log.Fields{
		"tx_hash":    receipt.TxHash.Hex(),
		"block":      receipt.BlockNumber,
		"cost_limit": costLimit,
		"cost_used":  receipt.CostUsed,
	}).Debug("write applied")

	return &WriteResult{
		Status:        StatusApplied,
		CorrelationID: correlationID,
		Receipt:       receipt,
	}, nil
}

// unchanged returns the result of an operation that was a no-op.
func (w *resilientWriter) unchanged(op ports.OperationKind) *WriteResult {
	w.metrics.writes.WithLabelValues(op.String(), writeStatusUnchanged).Inc()
	return &WriteResult{
		Status:        StatusUnchanged,
		CorrelationID: uuid.New().String(),
	}
}
