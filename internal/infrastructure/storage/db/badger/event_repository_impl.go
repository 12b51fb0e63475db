package dbbadger

import (
	"context"

	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type eventRepositoryImpl struct {
	store *badgerhold.Store
}

func NewEventRepositoryImpl(store *badgerhold.Store) domain.EventRepository {
	return &eventRepositoryImpl{store}
}

func (r *eventRepositoryImpl) AddEvents(
	ctx context.Context, events ...domain.Event,
) error {
	tx := txFromContext(ctx)
	for _, ev := range events {
		key := eventKey(ev.BlockNumber, ev.LogIndex)
		record := toEventRecord(ev)

		var err error
		if tx != nil {
			err = r.store.TxInsert(tx, key, record)
		} else {
			err = r.store.Insert(key, record)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *eventRepositoryImpl) GetEvents(
	ctx context.Context, q domain.EventQuery,
) ([]domain.Event, error) {
	query := badgerhold.Where("BlockNumber").Ge(q.FromBlock)
	if q.ToBlock > 0 {
		query = query.And("BlockNumber").Le(q.ToBlock)
	}
	if len(q.Kinds) > 0 {
		kinds := make([]interface{}, 0, len(q.Kinds))
		for _, k := range q.Kinds {
			kinds = append(kinds, int(k))
		}
		query = query.And("Kind").In(kinds...)
	}
	if q.ExchangeID != nil {
		query = query.And("ExchangeID").Eq(q.ExchangeID.Hex())
	}
	if q.Caller != nil {
		query = query.And("Caller").Eq(q.Caller.Hex())
	}

	records, err := r.findEvents(ctx, query.SortBy("BlockNumber", "LogIndex"))
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		ev, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, nil
}

func (r *eventRepositoryImpl) LastBlockNumber(ctx context.Context) (uint64, error) {
	query := badgerhold.Where("BlockNumber").Ge(uint64(0)).
		SortBy("BlockNumber").
		Reverse().
		Limit(1)

	records, err := r.findEvents(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	return records[0].BlockNumber, nil
}

func (r *eventRepositoryImpl) findEvents(
	ctx context.Context, query *badgerhold.Query,
) ([]eventRecord, error) {
	var records []eventRecord
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &records, query)
	} else {
		err = r.store.Find(&records, query)
	}
	return records, err
}
