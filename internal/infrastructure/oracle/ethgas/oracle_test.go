package ethgas_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-fixedrate/internal/infrastructure/oracle/ethgas"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func TestFairPrice(t *testing.T) {
	ctx := context.Background()
	errNode := errors.New("node unreachable")

	tests := []struct {
		name          string
		suggested     *big.Int
		err           error
		multiplier    string
		expectedPrice int64
		expectedErr   error
	}{
		{
			name:          "unchanged",
			suggested:     big.NewInt(1000),
			multiplier:    "1",
			expectedPrice: 1000,
		},
		{
			name:          "rounded_up",
			suggested:     big.NewInt(1001),
			multiplier:    "1.1",
			expectedPrice: 1102,
		},
		{
			name:        "provider_failure",
			err:         errNode,
			multiplier:  "1",
			expectedErr: errNode,
		},
		{
			name:        "zero_suggestion",
			suggested:   big.NewInt(0),
			multiplier:  "1",
			expectedErr: ethgas.ErrInvalidSuggestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{}
			provider.On("SuggestGasPrice", ctx).Return(tt.suggested, tt.err)

			oracle, err := ethgas.NewFairPriceOracle(
				provider, decimal.RequireFromString(tt.multiplier),
			)
			require.NoError(t, err)

			price, err := oracle.FairPrice(ctx)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedPrice, price.Int64())
			provider.AssertExpectations(t)
		})
	}
}

func TestNewFairPriceOracle(t *testing.T) {
	_, err := ethgas.NewFairPriceOracle(nil, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ethgas.ErrMissingProvider)

	_, err = ethgas.NewFairPriceOracle(&mockProvider{}, decimal.Zero)
	require.ErrorIs(t, err, ethgas.ErrInvalidMultiplier)
}
