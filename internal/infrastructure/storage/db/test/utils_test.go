package db_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-fixedrate/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-fixedrate/internal/infrastructure/storage/db/inmemory"
)

var (
	readOnly = true
	ctx      = context.Background()

	owner     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	baseToken = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	dataToken = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	trader    = common.HexToAddress("0x00000000000000000000000000000000000000e1")
)

type repoManager struct {
	Name string
	ports.RepoManager
}

func (r repoManager) read(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.RunTransaction(ctx, readOnly, query)
}

func (r repoManager) write(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.RunTransaction(ctx, !readOnly, query)
}

// createRepoManagers returns a fresh instance of every implementation. The
// badger one is persisted in a temporary datadir.
func createRepoManagers(t *testing.T) []repoManager {
	badgerRepo, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	inmemoryBadgerRepo, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		badgerRepo.Close()
		inmemoryBadgerRepo.Close()
	})

	return []repoManager{
		{Name: "badger", RepoManager: badgerRepo},
		{Name: "badger_inmemory", RepoManager: inmemoryBadgerRepo},
		{Name: "inmemory", RepoManager: inmemory.NewRepoManager()},
	}
}

func newExchange(t *testing.T, dt common.Address) *domain.Exchange {
	e, err := domain.NewExchange(domain.ExchangeArgs{
		Owner:        owner,
		BaseToken:    baseToken,
		DataToken:    dt,
		BaseDecimals: 18,
		DataDecimals: 6,
		Rate:         decimal.RequireFromString("1.5"),
		MarketFee:    decimal.RequireFromString("0.001"),
	})
	require.NoError(t, err)
	return e
}
