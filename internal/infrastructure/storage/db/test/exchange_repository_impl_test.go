package db_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

func TestExchangeRepositoryImplementations(t *testing.T) {
	repositories := createRepoManagers(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Run("testAddGetExchange", func(t *testing.T) {
				testAddGetExchange(t, repo)
			})

			t.Run("testListExchanges", func(t *testing.T) {
				testListExchanges(t, repo)
			})

			t.Run("testUpdateExchange_rollback", func(t *testing.T) {
				testUpdateExchangeRollback(t, repo)
			})
		})
	}
}

func testAddGetExchange(t *testing.T, repo repoManager) {
	exchange := newExchange(t, common.HexToAddress("0xd100"))
	exchange.DTMintCap = big.NewInt(1000)
	exchange.State.WithMint = true

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.ExchangeRepository().AddExchange(ctx, exchange)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.ExchangeRepository().AddExchange(ctx, exchange)
	})
	require.ErrorIs(t, err, domain.ErrExchangeAlreadyExists)

	res, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.ExchangeRepository().GetExchange(ctx, exchange.ID)
	})
	require.NoError(t, err)

	got := res.(*domain.Exchange)
	require.Equal(t, exchange.ID, got.ID)
	require.Equal(t, exchange.Owner, got.Owner)
	require.Equal(t, exchange.DataToken, got.DataToken)
	require.Equal(t, exchange.DataDecimals, got.DataDecimals)
	require.True(t, exchange.Rate.Equal(got.Rate))
	require.True(t, exchange.Fees.MarketFee.Equal(got.Fees.MarketFee))
	require.Equal(t, exchange.Fees.MarketFeeCollector, got.Fees.MarketFeeCollector)
	require.Equal(t, exchange.State, got.State)
	require.Zero(t, got.DTBalance.Sign())
	require.Zero(t, got.DTMintCap.Cmp(big.NewInt(1000)))
	require.Zero(t, got.DTSupply().Cmp(big.NewInt(1000)))

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.ExchangeRepository().GetExchange(ctx, domain.ExchangeID{})
	})
	require.ErrorIs(t, err, domain.ErrExchangeNotFound)
}

func testListExchanges(t *testing.T, repo repoManager) {
	other := common.HexToAddress("0x00000000000000000000000000000000000000a2")
	dt := common.HexToAddress("0xd200")

	first := newExchange(t, dt)
	second, err := domain.NewExchange(domain.ExchangeArgs{
		Owner:     other,
		BaseToken: baseToken,
		DataToken: dt,
		Rate:      decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	third := newExchange(t, common.HexToAddress("0xd300"))

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		for _, e := range []*domain.Exchange{first, second, third} {
			if err := repo.ExchangeRepository().AddExchange(ctx, e); err != nil {
				return nil, err
			}
		}
		return nil, repo.ExchangeRepository().UpdateExchange(
			ctx, second.ID, func(e *domain.Exchange) (*domain.Exchange, error) {
				if err := e.DepositDT(other, big.NewInt(50)); err != nil {
					return nil, err
				}
				return e, nil
			},
		)
	})
	require.NoError(t, err)

	byDataToken := domain.ExchangeFilter{DataToken: &dt}
	exchanges, err := repo.ExchangeRepository().GetExchanges(ctx, byDataToken, nil)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	require.Equal(t, first.ID, exchanges[0].ID)
	require.Equal(t, second.ID, exchanges[1].ID)

	page := domain.NewPage(2, 1)
	exchanges, err = repo.ExchangeRepository().GetExchanges(ctx, byDataToken, &page)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	require.Equal(t, second.ID, exchanges[0].ID)

	byOwner := domain.ExchangeFilter{Owner: &other}
	count, err := repo.ExchangeRepository().CountExchanges(ctx, byOwner)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	withSupply := domain.ExchangeFilter{DataToken: &dt, MinDTSupply: big.NewInt(10)}
	exchanges, err = repo.ExchangeRepository().GetExchanges(ctx, withSupply, nil)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	require.Equal(t, second.ID, exchanges[0].ID)

	count, err = repo.ExchangeRepository().CountExchanges(ctx, withSupply)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func testUpdateExchangeRollback(t *testing.T, repo repoManager) {
	exchange := newExchange(t, common.HexToAddress("0xd400"))
	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.ExchangeRepository().AddExchange(ctx, exchange)
	})
	require.NoError(t, err)

	mockedError := errors.New("something went wrong")
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.ExchangeRepository().UpdateExchange(
			ctx, exchange.ID, func(e *domain.Exchange) (*domain.Exchange, error) {
				if err := e.SetRate(owner, decimal.NewFromInt(5)); err != nil {
					return nil, err
				}
				return e, nil
			},
		); err != nil {
			return nil, err
		}
		return nil, mockedError
	})
	require.EqualError(t, err, mockedError.Error())

	got, err := repo.ExchangeRepository().GetExchange(ctx, exchange.ID)
	require.NoError(t, err)
	require.True(t, got.Rate.Equal(exchange.Rate))
}
