package inmemory

import (
	"context"
	"sort"

	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

// EventRepositoryImpl is the in memory append-only event log.
type EventRepositoryImpl struct {
	store *store
}

func NewEventRepositoryImpl(s *store) domain.EventRepository {
	return &EventRepositoryImpl{s}
}

func (r *EventRepositoryImpl) AddEvents(
	_ context.Context, events ...domain.Event,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.events = append(r.store.events, events...)
	sort.SliceStable(r.store.events, func(i, j int) bool {
		return r.store.events[i].Less(r.store.events[j])
	})
	return nil
}

func (r *EventRepositoryImpl) GetEvents(
	_ context.Context, query domain.EventQuery,
) ([]domain.Event, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	events := make([]domain.Event, 0)
	for _, ev := range r.store.events {
		if query.Match(ev) {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (r *EventRepositoryImpl) LastBlockNumber(_ context.Context) (uint64, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	if len(r.store.events) == 0 {
		return 0, nil
	}
	return r.store.events[len(r.store.events)-1].BlockNumber, nil
}
