package inmemory

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// TokenRepositoryImpl keeps the token registry and the holders' balances in
// memory.
type TokenRepositoryImpl struct {
	store *store
}

func NewTokenRepositoryImpl(s *store) domain.TokenRepository {
	return &TokenRepositoryImpl{s}
}

func (r *TokenRepositoryImpl) AddToken(_ context.Context, token *domain.Token) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.tokens[token.Address]; ok {
		return domain.ErrTokenAlreadyExists
	}
	r.store.tokens[token.Address] = token.Clone()
	return nil
}

func (r *TokenRepositoryImpl) GetToken(
	_ context.Context, address common.Address,
) (*domain.Token, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	t, ok := r.store.tokens[address]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return t.Clone(), nil
}

func (r *TokenRepositoryImpl) UpdateToken(
	_ context.Context, address common.Address,
	updateFn func(t *domain.Token) (*domain.Token, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	current, ok := r.store.tokens[address]
	if !ok {
		return domain.ErrTokenNotFound
	}
	updated, err := updateFn(current.Clone())
	if err != nil {
		return err
	}
	r.store.tokens[address] = updated.Clone()
	return nil
}

func (r *TokenRepositoryImpl) GetBalance(
	_ context.Context, token, holder common.Address,
) (*big.Int, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return mathutil.Copy(r.store.balances[balanceKey{token, holder}]), nil
}

func (r *TokenRepositoryImpl) UpdateBalance(
	_ context.Context, token, holder common.Address,
	updateFn func(balance *big.Int) (*big.Int, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	key := balanceKey{token, holder}
	updated, err := updateFn(mathutil.Copy(r.store.balances[key]))
	if err != nil {
		return err
	}
	if updated.Sign() < 0 {
		return domain.ErrInsufficientBalance
	}
	r.store.balances[key] = mathutil.Copy(updated)
	return nil
}
