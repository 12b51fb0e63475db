package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

// swapHistory replays the Swapped events of the ledger. Lookups of many
// exchanges fan out with bounded concurrency, are throttled and go through a
// circuit breaker. Results are cached by block height, so a cached entry is
// never stale with respect to the block it was read at.
type swapHistory struct {
	ledger      ports.Ledger
	breaker     *circuitbreaker.Breaker
	limiter     ratelimit.Limiter
	cache       *ristretto.Cache
	cacheTTL    time.Duration
	concurrency int
}

func newSwapHistory(
	ledger ports.Ledger, breaker *circuitbreaker.Breaker,
	concurrency, rateLimit int, cacheTTL time.Duration,
) (*swapHistory, error) {
	limiter := ratelimit.NewUnlimited()
	if rateLimit > 0 {
		limiter = ratelimit.New(rateLimit)
	}

	var cache *ristretto.Cache
	if cacheTTL > 0 {
		c, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     1 << 14,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create history cache: %w", err)
		}
		cache = c
	}

	return &swapHistory{
		ledger:      ledger,
		breaker:     breaker,
		limiter:     limiter,
		cache:       cache,
		cacheTTL:    cacheTTL,
		concurrency: concurrency,
	}, nil
}

// exchangeSwaps returns the swaps of the given exchange, optionally only
// those made by account.
func (h *swapHistory) exchangeSwaps(
	ctx context.Context, id domain.ExchangeID, account *common.Address,
) ([]domain.Swap, error) {
	block, err := h.blockNumber(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(id, account, block)
	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			return cloneSwaps(v.([]domain.Swap)), nil
		}
	}

	h.limiter.Take()
	res, err := h.breaker.Execute(func() (interface{}, error) {
		return h.ledger.FilterEvents(ctx, domain.EventQuery{
			Kinds:      []domain.EventKind{domain.EventSwapped},
			ExchangeID: &id,
			Caller:     account,
			ToBlock:    block,
		})
	})
	if err != nil {
		return nil, err
	}

	events := res.([]domain.Event)
	swaps := make([]domain.Swap, 0, len(events))
	for _, ev := range events {
		if ev.Swap == nil {
			continue
		}
		swaps = append(swaps, *ev.Swap.Clone())
	}
	sortSwaps(swaps)

	if h.cache != nil {
		h.cache.SetWithTTL(
			key, cloneSwaps(swaps), int64(len(swaps))+1, h.cacheTTL,
		)
		h.cache.Wait()
	}
	return swaps, nil
}

// swapsOf fetches the swaps of every given exchange with at most concurrency
// outstanding lookups and merges them in ledger order.
func (h *swapHistory) swapsOf(
	ctx context.Context, ids []domain.ExchangeID, account *common.Address,
) ([]domain.Swap, error) {
	results := make([][]domain.Swap, len(ids))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(h.concurrency)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			swaps, err := h.exchangeSwaps(egCtx, id, account)
			if err != nil {
				log.WithError(err).WithField("exchange", id.Hex()).Warn(
					"failed to fetch swap history",
				)
				return err
			}
			results[i] = swaps
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	swaps := make([]domain.Swap, 0)
	for _, r := range results {
		swaps = append(swaps, r...)
	}
	sortSwaps(swaps)
	return swaps, nil
}

func (h *swapHistory) blockNumber(ctx context.Context) (uint64, error) {
	res, err := h.breaker.Execute(func() (interface{}, error) {
		return h.ledger.BlockNumber(ctx)
	})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

func (h *swapHistory) close() {
	if h.cache != nil {
		h.cache.Close()
	}
}

func cacheKey(id domain.ExchangeID, account *common.Address, block uint64) string {
	acc := "*"
	if account != nil {
		acc = account.Hex()
	}
	return fmt.Sprintf("%s:%s:%d", id.Hex(), acc, block)
}

// cloneSwaps deep copies swaps so that callers never share amounts with the
// cache.
func cloneSwaps(swaps []domain.Swap) []domain.Swap {
	cloned := make([]domain.Swap, 0, len(swaps))
	for i := range swaps {
		cloned = append(cloned, *swaps[i].Clone())
	}
	return cloned
}

func sortSwaps(swaps []domain.Swap) {
	sort.SliceStable(swaps, func(i, j int) bool {
		if swaps[i].BlockNumber != swaps[j].BlockNumber {
			return swaps[i].BlockNumber < swaps[j].BlockNumber
		}
		return swaps[i].LogIndex < swaps[j].LogIndex
	})
}
