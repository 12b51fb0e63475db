package inmemory

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

type balanceKey struct {
	token  common.Address
	holder common.Address
}

// store holds the state shared by all in-memory repositories.
type store struct {
	lock *sync.RWMutex

	exchanges     map[domain.ExchangeID]*domain.Exchange
	exchangeOrder []domain.ExchangeID
	events        []domain.Event
	tokens        map[common.Address]*domain.Token
	balances      map[balanceKey]*big.Int
}

func newStore() *store {
	return &store{
		lock:      &sync.RWMutex{},
		exchanges: make(map[domain.ExchangeID]*domain.Exchange),
		events:    make([]domain.Event, 0),
		tokens:    make(map[common.Address]*domain.Token),
		balances:  make(map[balanceKey]*big.Int),
	}
}

type snapshot struct {
	exchanges     map[domain.ExchangeID]*domain.Exchange
	exchangeOrder []domain.ExchangeID
	events        int
	tokens        map[common.Address]*domain.Token
	balances      map[balanceKey]*big.Int
}

// snapshot takes a deep copy of the mutable state. The event log is append
// only so its length is enough to restore it.
func (s *store) snapshot() snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()

	exchanges := make(map[domain.ExchangeID]*domain.Exchange, len(s.exchanges))
	for id, e := range s.exchanges {
		exchanges[id] = e.Clone()
	}
	tokens := make(map[common.Address]*domain.Token, len(s.tokens))
	for addr, t := range s.tokens {
		tokens[addr] = t.Clone()
	}
	balances := make(map[balanceKey]*big.Int, len(s.balances))
	for k, b := range s.balances {
		balances[k] = mathutil.Copy(b)
	}
	order := make([]domain.ExchangeID, len(s.exchangeOrder))
	copy(order, s.exchangeOrder)

	return snapshot{
		exchanges:     exchanges,
		exchangeOrder: order,
		events:        len(s.events),
		tokens:        tokens,
		balances:      balances,
	}
}

func (s *store) restore(snap snapshot) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.exchanges = snap.exchanges
	s.exchangeOrder = snap.exchangeOrder
	s.events = s.events[:snap.events]
	s.tokens = snap.tokens
	s.balances = snap.balances
}

type RepoManager struct {
	store   *store
	txMutex *sync.Mutex

	exchangeRepository domain.ExchangeRepository
	eventRepository    domain.EventRepository
	tokenRepository    domain.TokenRepository
}

func NewRepoManager() ports.RepoManager {
	s := newStore()

	return &RepoManager{
		store:              s,
		txMutex:            &sync.Mutex{},
		exchangeRepository: NewExchangeRepositoryImpl(s),
		eventRepository:    NewEventRepositoryImpl(s),
		tokenRepository:    NewTokenRepositoryImpl(s),
	}
}

func (d *RepoManager) ExchangeRepository() domain.ExchangeRepository {
	return d.exchangeRepository
}

func (d *RepoManager) EventRepository() domain.EventRepository {
	return d.eventRepository
}

func (d *RepoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

// RunTransaction serializes the execution of the handlers. The changes made
// by a failing handler are rolled back.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.txMutex.Lock()
	defer d.txMutex.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if readOnly {
		return handler(ctx)
	}

	snap := d.store.snapshot()
	res, err := handler(ctx)
	if err != nil {
		d.store.restore(snap)
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}
