package dbbadger

import (
	"context"

	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type exchangeRepositoryImpl struct {
	store *badgerhold.Store
}

// NewExchangeRepositoryImpl initialize a badger implementation of the
// domain.ExchangeRepository
func NewExchangeRepositoryImpl(store *badgerhold.Store) domain.ExchangeRepository {
	return &exchangeRepositoryImpl{store}
}

func (r *exchangeRepositoryImpl) AddExchange(
	ctx context.Context, exchange *domain.Exchange,
) error {
	position, err := r.count(ctx, nil)
	if err != nil {
		return err
	}

	record := toExchangeRecord(exchange, position)
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, record.ID, record)
	} else {
		err = r.store.Insert(record.ID, record)
	}
	if err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrExchangeAlreadyExists
		}
		return err
	}
	return nil
}

func (r *exchangeRepositoryImpl) GetExchange(
	ctx context.Context, id domain.ExchangeID,
) (*domain.Exchange, error) {
	record, err := r.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain()
}

func (r *exchangeRepositoryImpl) GetExchanges(
	ctx context.Context, filter domain.ExchangeFilter, page *domain.Page,
) ([]domain.Exchange, error) {
	query := exchangeQuery(filter).SortBy("Position")

	// The supply of an exchange is not stored, therefore pagination can be
	// delegated to the store only without a min supply threshold.
	paginateInStore := page != nil && filter.MinDTSupply == nil
	if paginateInStore {
		query = query.Skip(page.Offset()).Limit(page.Size)
	}

	exchanges, err := r.findExchanges(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	if page == nil || paginateInStore {
		return exchanges, nil
	}

	start := page.Offset()
	if start >= len(exchanges) {
		return []domain.Exchange{}, nil
	}
	end := start + page.Size
	if end > len(exchanges) {
		end = len(exchanges)
	}
	return exchanges[start:end], nil
}

func (r *exchangeRepositoryImpl) CountExchanges(
	ctx context.Context, filter domain.ExchangeFilter,
) (int, error) {
	if filter.MinDTSupply == nil {
		count, err := r.count(ctx, exchangeQuery(filter))
		return int(count), err
	}

	exchanges, err := r.findExchanges(ctx, exchangeQuery(filter), filter)
	if err != nil {
		return 0, err
	}
	return len(exchanges), nil
}

func (r *exchangeRepositoryImpl) UpdateExchange(
	ctx context.Context,
	id domain.ExchangeID,
	updateFn func(e *domain.Exchange) (*domain.Exchange, error),
) error {
	record, err := r.getExchange(ctx, id)
	if err != nil {
		return err
	}
	exchange, err := record.toDomain()
	if err != nil {
		return err
	}

	updated, err := updateFn(exchange)
	if err != nil {
		return err
	}

	updatedRecord := toExchangeRecord(updated, record.Position)
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, record.ID, updatedRecord)
	}
	return r.store.Update(record.ID, updatedRecord)
}

func (r *exchangeRepositoryImpl) getExchange(
	ctx context.Context, id domain.ExchangeID,
) (*exchangeRecord, error) {
	var record exchangeRecord
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id.Hex(), &record)
	} else {
		err = r.store.Get(id.Hex(), &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrExchangeNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *exchangeRepositoryImpl) findExchanges(
	ctx context.Context, query *badgerhold.Query, filter domain.ExchangeFilter,
) ([]domain.Exchange, error) {
	var records []exchangeRecord
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &records, query)
	} else {
		err = r.store.Find(&records, query)
	}
	if err != nil {
		return nil, err
	}

	exchanges := make([]domain.Exchange, 0, len(records))
	for _, record := range records {
		e, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		if filter.Match(e) {
			exchanges = append(exchanges, *e)
		}
	}
	return exchanges, nil
}

func (r *exchangeRepositoryImpl) count(
	ctx context.Context, query *badgerhold.Query,
) (uint64, error) {
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxCount(tx, &exchangeRecord{}, query)
	}
	return r.store.Count(&exchangeRecord{}, query)
}

func exchangeQuery(filter domain.ExchangeFilter) *badgerhold.Query {
	query := badgerhold.Where("Position").Ge(uint64(0))
	if filter.Owner != nil {
		query = query.And("Owner").Eq(filter.Owner.Hex())
	}
	if filter.DataToken != nil {
		query = query.And("DataToken").Eq(filter.DataToken.Hex())
	}
	if filter.ActiveOnly {
		query = query.And("Active").Eq(true)
	}
	return query
}
