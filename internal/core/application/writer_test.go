package application_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-fixedrate/internal/core/application"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

func TestEstimateOrDefault(t *testing.T) {
	errEstimate := errors.New("execution reverted")

	tests := []struct {
		name        string
		estimate    func() (uint64, error)
		expected    uint64
		expectedErr error
	}{
		{
			name:     "without_estimator",
			estimate: nil,
			expected: defaultCostLimit,
		},
		{
			name:     "estimation_succeeds",
			estimate: func() (uint64, error) { return 21000, nil },
			expected: 21000,
		},
		{
			name:        "estimation_fails",
			estimate:    func() (uint64, error) { return 0, errEstimate },
			expected:    defaultCostLimit,
			expectedErr: errEstimate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cost, err := application.EstimateOrDefault(tt.estimate, defaultCostLimit)
			require.Equal(t, tt.expected, cost)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWrite(t *testing.T) {
	newRate := decimal.NewFromInt(3)

	t.Run("cost_limit_is_estimate_plus_one", func(t *testing.T) {
		exchange := newExchange(t)
		ledger, estimator, oracle := &mockLedger{}, &mockEstimator{}, &mockOracle{}
		ledger.On("GetExchange", mock.Anything, exchange.ID).Return(exchange, nil)
		estimator.On("EstimateCost", mock.Anything, mock.Anything).
			Return(uint64(40000), nil)
		oracle.On("FairPrice", mock.Anything).Return(big.NewInt(7), nil)
		ledger.On(
			"Submit",
			mock.Anything,
			mock.MatchedBy(func(op ports.Operation) bool {
				return op.Kind == ports.OpSetRate && op.Rate.Equal(newRate)
			}),
			mock.MatchedBy(func(opts ports.SubmitOpts) bool {
				return opts.CostLimit == 40001 && opts.UnitPrice.Int64() == 7
			}),
		).Return(&ports.Receipt{BlockNumber: 1, CostUsed: 40000}, nil)

		svc := newTestService(t, ledger, estimator, oracle, nil)
		res, err := svc.SetRate(ctx, owner, exchange.ID, newRate)
		require.NoError(t, err)
		require.NotNil(t, res)
		require.Equal(t, application.StatusApplied, res.Status)
		require.NotEmpty(t, res.CorrelationID)
		require.NotNil(t, res.Receipt)
		ledger.AssertExpectations(t)
	})

	t.Run("estimation_failure_uses_default", func(t *testing.T) {
		exchange := newExchange(t)
		ledger, estimator, oracle := &mockLedger{}, &mockEstimator{}, &mockOracle{}
		ledger.On("GetExchange", mock.Anything, exchange.ID).Return(exchange, nil)
		estimator.On("EstimateCost", mock.Anything, mock.Anything).
			Return(nil, errors.New("execution reverted"))
		oracle.On("FairPrice", mock.Anything).Return(big.NewInt(7), nil)
		ledger.On(
			"Submit", mock.Anything, mock.Anything,
			mock.MatchedBy(func(opts ports.SubmitOpts) bool {
				return opts.CostLimit == defaultCostLimit+1
			}),
		).Return(&ports.Receipt{BlockNumber: 1}, nil)

		reg := prometheus.NewRegistry()
		svc := newTestServiceWithRegistry(t, ledger, estimator, oracle, nil, reg)
		res, err := svc.SetRate(ctx, owner, exchange.ID, newRate)
		require.NoError(t, err)
		require.Equal(t, application.StatusApplied, res.Status)
		ledger.AssertExpectations(t)

		expected := `
# HELP fixedrate_cost_estimation_fallbacks_total Number of writes submitted with the default cost limit because estimation failed.
# TYPE fixedrate_cost_estimation_fallbacks_total counter
fixedrate_cost_estimation_fallbacks_total 1
`
		require.NoError(t, testutil.GatherAndCompare(
			reg, strings.NewReader(expected),
			"fixedrate_cost_estimation_fallbacks_total",
		))
	})

	t.Run("oracle_failure_is_not_applied", func(t *testing.T) {
		exchange := newExchange(t)
		ledger, oracle := &mockLedger{}, &mockOracle{}
		ledger.On("GetExchange", mock.Anything, exchange.ID).Return(exchange, nil)
		oracle.On("FairPrice", mock.Anything).
			Return(nil, fmt.Errorf("dial tcp: connection refused"))

		reg := prometheus.NewRegistry()
		svc := newTestServiceWithRegistry(t, ledger, nil, oracle, nil, reg)
		res, err := svc.SetRate(ctx, owner, exchange.ID, newRate)
		require.Error(t, err)
		require.Nil(t, res)

		var werr *application.WriteError
		require.ErrorAs(t, err, &werr)
		require.Equal(t, application.OutcomeNotApplied, werr.Outcome)
		require.Equal(t, ports.OpSetRate, werr.Op)
		require.NotEmpty(t, werr.CorrelationID)
		require.False(t, application.IsOutcomeUnknown(err))
		ledger.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)

		expected := `
# HELP fixedrate_writes_total Number of state changing operations by kind and status.
# TYPE fixedrate_writes_total counter
fixedrate_writes_total{op="set_rate",status="not_applied"} 1
`
		require.NoError(t, testutil.GatherAndCompare(
			reg, strings.NewReader(expected), "fixedrate_writes_total",
		))
	})

	t.Run("canceled_context_is_not_applied", func(t *testing.T) {
		exchange := newExchange(t)
		ledger, oracle := &mockLedger{}, &mockOracle{}
		ledger.On("GetExchange", mock.Anything, exchange.ID).Return(exchange, nil)

		canceledCtx, cancel := context.WithCancel(ctx)
		cancel()

		svc := newTestService(t, ledger, nil, oracle, nil)
		_, err := svc.SetRate(canceledCtx, owner, exchange.ID, newRate)

		var werr *application.WriteError
		require.ErrorAs(t, err, &werr)
		require.Equal(t, application.OutcomeNotApplied, werr.Outcome)
		require.ErrorIs(t, err, context.Canceled)
		oracle.AssertNotCalled(t, "FairPrice", mock.Anything)
		ledger.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("submit_failures", func(t *testing.T) {
		tests := []struct {
			name            string
			submitErr       error
			expectedOutcome application.WriteOutcome
		}{
			{
				name:            "rejected",
				submitErr:       domain.ErrUnauthorized,
				expectedOutcome: application.OutcomeNotApplied,
			},
			{
				name:            "outcome_unknown",
				submitErr:       fmt.Errorf("tx 0xabc: %w", ports.ErrOutcomeUnknown),
				expectedOutcome: application.OutcomeUnknown,
			},
			{
				name:            "deadline_exceeded_in_flight",
				submitErr:       context.DeadlineExceeded,
				expectedOutcome: application.OutcomeUnknown,
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				exchange := newExchange(t)
				ledger, oracle := &mockLedger{}, &mockOracle{}
				ledger.On("GetExchange", mock.Anything, exchange.ID).
					Return(exchange, nil)
				oracle.On("FairPrice", mock.Anything).Return(big.NewInt(1), nil)
				ledger.On("Submit", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, tt.submitErr).Once()

				svc := newTestService(t, ledger, nil, oracle, nil)
				_, err := svc.SetRate(ctx, owner, exchange.ID, newRate)
				require.ErrorIs(t, err, tt.submitErr)

				var werr *application.WriteError
				require.ErrorAs(t, err, &werr)
				require.Equal(t, tt.expectedOutcome, werr.Outcome)
				require.Equal(
					t, tt.expectedOutcome == application.OutcomeUnknown,
					application.IsOutcomeUnknown(err),
				)
				// Writes are never retried.
				ledger.AssertNumberOfCalls(t, "Submit", 1)
			})
		}
	})
}
