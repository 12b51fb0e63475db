package local

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

// RegisterToken adds a token to the registry with zero supply.
func (l *Ledger) RegisterToken(
	ctx context.Context,
	address common.Address, symbol string, decimals uint8, minter common.Address,
) error {
	if address == (common.Address{}) {
		return domain.ErrInvalidAddress
	}

	_, err := l.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, l.repo.TokenRepository().AddToken(ctx, &domain.Token{
				Address:     address,
				Symbol:      symbol,
				Decimals:    decimals,
				Minter:      minter,
				TotalSupply: big.NewInt(0),
			})
		},
	)
	return err
}

// Mint credits the given account with new tokens. Only the minter of the
// token is allowed to mint.
func (l *Ledger) Mint(
	ctx context.Context, minter, token, to common.Address, amount *big.Int,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	_, err := l.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			t, err := l.repo.TokenRepository().GetToken(ctx, token)
			if err != nil {
				return nil, err
			}
			if t.Minter != minter {
				return nil, domain.ErrUnauthorized
			}
			return nil, l.mint(ctx, token, to, amount)
		},
	)
	return err
}

func (l *Ledger) mint(
	ctx context.Context, token, to common.Address, amount *big.Int,
) error {
	if err := l.repo.TokenRepository().UpdateToken(
		ctx, token, func(t *domain.Token) (*domain.Token, error) {
			if err := t.Mint(amount); err != nil {
				return nil, err
			}
			return t, nil
		},
	); err != nil {
		return err
	}

	return l.repo.TokenRepository().UpdateBalance(
		ctx, token, to, func(balance *big.Int) (*big.Int, error) {
			return new(big.Int).Add(balance, amount), nil
		},
	)
}

func (l *Ledger) transfer(
	ctx context.Context, token, from, to common.Address, amount *big.Int,
) error {
	if err := l.repo.TokenRepository().UpdateBalance(
		ctx, token, from, func(balance *big.Int) (*big.Int, error) {
			if balance.Cmp(amount) < 0 {
				return nil, domain.ErrInsufficientBalance
			}
			return new(big.Int).Sub(balance, amount), nil
		},
	); err != nil {
		return err
	}

	return l.repo.TokenRepository().UpdateBalance(
		ctx, token, to, func(balance *big.Int) (*big.Int, error) {
			return new(big.Int).Add(balance, amount), nil
		},
	)
}
