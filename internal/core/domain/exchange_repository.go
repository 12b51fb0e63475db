package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ExchangeFilter narrows down exchange listings. Zero values match
// everything.
type ExchangeFilter struct {
	Owner     *common.Address
	DataToken *common.Address
	// MinDTSupply is the minimum data token supply (base units) an exchange
	// must have to be listed.
	MinDTSupply *big.Int
	ActiveOnly  bool
}

// Match returns whether the exchange satisfies the filter.
func (f ExchangeFilter) Match(e *Exchange) bool {
	if f.Owner != nil && e.Owner != *f.Owner {
		return false
	}
	if f.DataToken != nil && e.DataToken != *f.DataToken {
		return false
	}
	if f.ActiveOnly && !e.State.Active {
		return false
	}
	if f.MinDTSupply != nil && e.DTSupply().Cmp(f.MinDTSupply) < 0 {
		return false
	}
	return true
}

// ExchangeRepository is the abstraction for any kind of database intended to
// persist Exchanges.
type ExchangeRepository interface {
	// AddExchange adds a new exchange to the repository. It fails with
	// ErrExchangeAlreadyExists if the id is already taken.
	AddExchange(ctx context.Context, exchange *Exchange) error
	// GetExchange returns the exchange with the given id, or
	// ErrExchangeNotFound.
	GetExchange(ctx context.Context, id ExchangeID) (*Exchange, error)
	// GetExchanges returns the exchanges matching the filter ordered by
	// creation time. A nil page returns all of them.
	GetExchanges(
		ctx context.Context, filter ExchangeFilter, page *Page,
	) ([]Exchange, error)
	// CountExchanges returns the number of exchanges matching the filter.
	CountExchanges(ctx context.Context, filter ExchangeFilter) (int, error)
	// UpdateExchange updates the state of an exchange. The closure function
	// let's to commit multiple changes to a certain exchange in a
	// transactional way.
	UpdateExchange(
		ctx context.Context,
		id ExchangeID, updateFn func(e *Exchange) (*Exchange, error),
	) error
}

// EventRepository persists the append-only ledger event log.
type EventRepository interface {
	// AddEvents appends the given events to the log.
	AddEvents(ctx context.Context, events ...Event) error
	// GetEvents returns the events matching the query, ordered by block number
	// and log index.
	GetEvents(ctx context.Context, query EventQuery) ([]Event, error)
	// LastBlockNumber returns the number of the latest block with events, 0
	// if the log is empty.
	LastBlockNumber(ctx context.Context) (uint64, error)
}

// TokenRepository persists the registry of fungible tokens and the balances
// of their holders.
type TokenRepository interface {
	// AddToken registers a new token.
	AddToken(ctx context.Context, token *Token) error
	// GetToken returns the token with the given address, or ErrTokenNotFound.
	GetToken(ctx context.Context, address common.Address) (*Token, error)
	// UpdateToken updates a token through the closure function.
	UpdateToken(
		ctx context.Context, address common.Address,
		updateFn func(t *Token) (*Token, error),
	) error
	// GetBalance returns the balance of the holder, zero if unknown.
	GetBalance(
		ctx context.Context, token, holder common.Address,
	) (*big.Int, error)
	// UpdateBalance updates the balance of a holder through the closure
	// function.
	UpdateBalance(
		ctx context.Context, token, holder common.Address,
		updateFn func(balance *big.Int) (*big.Int, error),
	) error
}
