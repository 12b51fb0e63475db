package application_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

// **** Ledger ****

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) GetExchange(
	ctx context.Context, id domain.ExchangeID,
) (*domain.Exchange, error) {
	args := m.Called(ctx, id)

	var res *domain.Exchange
	if a := args.Get(0); a != nil {
		res = a.(*domain.Exchange).Clone()
	}
	return res, args.Error(1)
}

func (m *mockLedger) GetExchanges(
	ctx context.Context, filter domain.ExchangeFilter, page domain.Page,
) ([]domain.Exchange, error) {
	args := m.Called(ctx, filter, page)

	var res []domain.Exchange
	if a := args.Get(0); a != nil {
		res = a.([]domain.Exchange)
	}
	return res, args.Error(1)
}

func (m *mockLedger) CountExchanges(
	ctx context.Context, filter domain.ExchangeFilter,
) (int, error) {
	args := m.Called(ctx, filter)

	var res int
	if a := args.Get(0); a != nil {
		res = a.(int)
	}
	return res, args.Error(1)
}

func (m *mockLedger) BalanceOf(
	ctx context.Context, token, holder common.Address,
) (*big.Int, error) {
	args := m.Called(ctx, token, holder)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockLedger) FilterEvents(
	ctx context.Context, query domain.EventQuery,
) ([]domain.Event, error) {
	args := m.Called(ctx, query)

	var res []domain.Event
	if a := args.Get(0); a != nil {
		res = a.([]domain.Event)
	}
	return res, args.Error(1)
}

func (m *mockLedger) BlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockLedger) Submit(
	ctx context.Context, op ports.Operation, opts ports.SubmitOpts,
) (*ports.Receipt, error) {
	args := m.Called(ctx, op, opts)

	var res *ports.Receipt
	if a := args.Get(0); a != nil {
		res = a.(*ports.Receipt)
	}
	return res, args.Error(1)
}

// **** CostEstimator ****

type mockEstimator struct {
	mock.Mock
}

func (m *mockEstimator) EstimateCost(
	ctx context.Context, op ports.Operation,
) (uint64, error) {
	args := m.Called(ctx, op)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

// **** FairPriceOracle ****

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) FairPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

// **** TokenMetadata ****

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Decimals(
	ctx context.Context, token common.Address,
) (uint8, error) {
	args := m.Called(ctx, token)

	var res uint8
	if a := args.Get(0); a != nil {
		res = a.(uint8)
	}
	return res, args.Error(1)
}
