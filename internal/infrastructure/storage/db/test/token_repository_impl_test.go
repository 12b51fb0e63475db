package db_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

func TestTokenRepositoryImplementations(t *testing.T) {
	repositories := createRepoManagers(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Run("testTokenRegistry", func(t *testing.T) {
				testTokenRegistry(t, repo)
			})

			t.Run("testBalances", func(t *testing.T) {
				testBalances(t, repo)
			})
		})
	}
}

func testTokenRegistry(t *testing.T, repo repoManager) {
	token := &domain.Token{
		Address:     dataToken,
		Symbol:      "DT",
		Decimals:    6,
		Minter:      owner,
		TotalSupply: big.NewInt(0),
	}
	require.NoError(t, repo.TokenRepository().AddToken(ctx, token))
	require.ErrorIs(
		t, repo.TokenRepository().AddToken(ctx, token), domain.ErrTokenAlreadyExists,
	)

	_, err := repo.TokenRepository().GetToken(ctx, baseToken)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.TokenRepository().UpdateToken(
			ctx, dataToken, func(t *domain.Token) (*domain.Token, error) {
				if err := t.Mint(big.NewInt(10)); err != nil {
					return nil, err
				}
				return t, nil
			},
		)
	})
	require.NoError(t, err)

	got, err := repo.TokenRepository().GetToken(ctx, dataToken)
	require.NoError(t, err)
	require.Equal(t, "DT", got.Symbol)
	require.Equal(t, uint8(6), got.Decimals)
	require.Equal(t, owner, got.Minter)
	require.Equal(t, int64(10), got.TotalSupply.Int64())
}

func testBalances(t *testing.T, repo repoManager) {
	balance, err := repo.TokenRepository().GetBalance(ctx, baseToken, trader)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	add := func(amount int64) func(*big.Int) (*big.Int, error) {
		return func(b *big.Int) (*big.Int, error) {
			return new(big.Int).Add(b, big.NewInt(amount)), nil
		}
	}

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.TokenRepository().UpdateBalance(ctx, baseToken, trader, add(7))
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.TokenRepository().UpdateBalance(ctx, baseToken, trader, add(-8))
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	mockedError := errors.New("something went wrong")
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.TokenRepository().UpdateBalance(
			ctx, baseToken, trader, add(3),
		); err != nil {
			return nil, err
		}
		return nil, mockedError
	})
	require.EqualError(t, err, mockedError.Error())

	balance, err = repo.TokenRepository().GetBalance(ctx, baseToken, trader)
	require.NoError(t, err)
	require.Equal(t, int64(7), balance.Int64())
}
