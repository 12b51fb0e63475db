package dbbadger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type tokenRepositoryImpl struct {
	store *badgerhold.Store
}

func NewTokenRepositoryImpl(store *badgerhold.Store) domain.TokenRepository {
	return &tokenRepositoryImpl{store}
}

func (r *tokenRepositoryImpl) AddToken(ctx context.Context, token *domain.Token) error {
	record := toTokenRecord(token)

	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, record.Address, record)
	} else {
		err = r.store.Insert(record.Address, record)
	}
	if err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrTokenAlreadyExists
		}
		return err
	}
	return nil
}

func (r *tokenRepositoryImpl) GetToken(
	ctx context.Context, address common.Address,
) (*domain.Token, error) {
	var record tokenRecord
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, address.Hex(), &record)
	} else {
		err = r.store.Get(address.Hex(), &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *tokenRepositoryImpl) UpdateToken(
	ctx context.Context, address common.Address,
	updateFn func(t *domain.Token) (*domain.Token, error),
) error {
	token, err := r.GetToken(ctx, address)
	if err != nil {
		return err
	}

	updated, err := updateFn(token)
	if err != nil {
		return err
	}

	record := toTokenRecord(updated)
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, record.Address, record)
	}
	return r.store.Update(record.Address, record)
}

func (r *tokenRepositoryImpl) GetBalance(
	ctx context.Context, token, holder common.Address,
) (*big.Int, error) {
	var record balanceRecord
	var err error

	key := balanceKey(token, holder)
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, key, &record)
	} else {
		err = r.store.Get(key, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return big.NewInt(0), nil
		}
		return nil, err
	}

	amounts, err := parseAmounts(record.Amount)
	if err != nil {
		return nil, err
	}
	return amounts[0], nil
}

func (r *tokenRepositoryImpl) UpdateBalance(
	ctx context.Context, token, holder common.Address,
	updateFn func(balance *big.Int) (*big.Int, error),
) error {
	balance, err := r.GetBalance(ctx, token, holder)
	if err != nil {
		return err
	}

	updated, err := updateFn(balance)
	if err != nil {
		return err
	}
	if updated.Sign() < 0 {
		return domain.ErrInsufficientBalance
	}

	record := balanceRecord{
		Token:  token.Hex(),
		Holder: holder.Hex(),
		Amount: updated.String(),
	}
	key := balanceKey(token, holder)
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpsert(tx, key, record)
	}
	return r.store.Upsert(key, record)
}
