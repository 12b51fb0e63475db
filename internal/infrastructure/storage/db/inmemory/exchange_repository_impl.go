package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

// ExchangeRepositoryImpl represents an in memory storage
type ExchangeRepositoryImpl struct {
	store *store
}

// NewExchangeRepositoryImpl returns a new empty ExchangeRepositoryImpl
func NewExchangeRepositoryImpl(s *store) domain.ExchangeRepository {
	return &ExchangeRepositoryImpl{s}
}

func (r *ExchangeRepositoryImpl) AddExchange(
	_ context.Context, exchange *domain.Exchange,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.exchanges[exchange.ID]; ok {
		return domain.ErrExchangeAlreadyExists
	}

	r.store.exchanges[exchange.ID] = exchange.Clone()
	r.store.exchangeOrder = append(r.store.exchangeOrder, exchange.ID)
	return nil
}

func (r *ExchangeRepositoryImpl) GetExchange(
	_ context.Context, id domain.ExchangeID,
) (*domain.Exchange, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	e, ok := r.store.exchanges[id]
	if !ok {
		return nil, domain.ErrExchangeNotFound
	}
	return e.Clone(), nil
}

func (r *ExchangeRepositoryImpl) GetExchanges(
	_ context.Context, filter domain.ExchangeFilter, page *domain.Page,
) ([]domain.Exchange, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	matching := r.filterExchanges(filter)
	if page == nil {
		return matching, nil
	}

	start := page.Offset()
	if start >= len(matching) {
		return []domain.Exchange{}, nil
	}
	end := start + page.Size
	if end > len(matching) {
		end = len(matching)
	}
	return matching[start:end], nil
}

func (r *ExchangeRepositoryImpl) CountExchanges(
	_ context.Context, filter domain.ExchangeFilter,
) (int, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return len(r.filterExchanges(filter)), nil
}

func (r *ExchangeRepositoryImpl) UpdateExchange(
	_ context.Context,
	id domain.ExchangeID,
	updateFn func(e *domain.Exchange) (*domain.Exchange, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	current, ok := r.store.exchanges[id]
	if !ok {
		return domain.ErrExchangeNotFound
	}

	updated, err := updateFn(current.Clone())
	if err != nil {
		return err
	}

	r.store.exchanges[id] = updated.Clone()
	return nil
}

func (r *ExchangeRepositoryImpl) filterExchanges(
	filter domain.ExchangeFilter,
) []domain.Exchange {
	exchanges := make([]domain.Exchange, 0)
	for _, id := range r.store.exchangeOrder {
		e := r.store.exchanges[id]
		if filter.Match(e) {
			exchanges = append(exchanges, *e.Clone())
		}
	}
	return exchanges
}
