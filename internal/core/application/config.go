package application

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/internal/infrastructure/ledger/local"
	"github.com/tdex-network/tdex-fixedrate/internal/infrastructure/oracle/static"
	dbbadger "github.com/tdex-network/tdex-fixedrate/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-fixedrate/internal/infrastructure/storage/db/inmemory"
)

const (
	DBInMemory = "inmemory"
	DBBadger   = "badger"
)

var (
	SupportedDBType = map[string]struct{}{
		DBInMemory: {},
		DBBadger:   {},
	}
)

// Config holds the collaborators and the process wide settings of the
// application layer. Collaborators left nil are replaced by the reference
// in-process ledger backed by the configured db, and by a static fair price
// oracle.
type Config struct {
	DBType string
	// DBDir is the datadir of the badger db, in-memory if empty.
	DBDir string

	Ledger          ports.Ledger
	CostEstimator   ports.CostEstimator
	FairPriceOracle ports.FairPriceOracle
	TokenMetadata   ports.TokenMetadata

	DefaultCostLimit     uint64
	DefaultTokenDecimals uint8
	ProtocolFee          decimal.Decimal
	ProtocolFeeCollector common.Address
	FairPrice            *big.Int
	HistoryConcurrency   int
	HistoryRateLimit     int
	HistoryCacheTTL      time.Duration
	Registerer           prometheus.Registerer

	repo     ports.RepoManager
	local    *local.Ledger
	exchange ExchangeService
}

func (c *Config) Validate() error {
	if c.Ledger == nil {
		if _, ok := SupportedDBType[c.DBType]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	if c.FairPriceOracle == nil {
		if c.FairPrice == nil || c.FairPrice.Sign() <= 0 {
			return ErrInvalidFairPrice
		}
	}
	if _, err := c.exchangeService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) ExchangeService() ExchangeService {
	svc, _ := c.exchangeService()
	return svc
}

// LocalLedger returns the reference ledger, nil if an external one is
// configured.
func (c *Config) LocalLedger() *local.Ledger {
	l, _ := c.localLedger()
	return l
}

func (c *Config) Close() {
	if c.exchange != nil {
		c.exchange.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		case DBBadger:
			repo, err := dbbadger.NewRepoManager(c.DBDir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repo
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) localLedger() (*local.Ledger, error) {
	if c.Ledger != nil {
		return nil, nil
	}
	if c.local == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		l, err := local.NewLedger(repo, local.Config{
			ProtocolFee:          c.ProtocolFee,
			ProtocolFeeCollector: c.ProtocolFeeCollector,
		})
		if err != nil {
			return nil, err
		}
		c.local = l
	}
	return c.local, nil
}

func (c *Config) exchangeService() (ExchangeService, error) {
	if c.exchange == nil {
		ledger := c.Ledger
		estimator := c.CostEstimator
		tokens := c.TokenMetadata
		if ledger == nil {
			l, err := c.localLedger()
			if err != nil {
				return nil, err
			}
			ledger = l
			if estimator == nil {
				estimator = l
			}
			if tokens == nil {
				tokens = l
			}
		}

		oracle := c.FairPriceOracle
		if oracle == nil {
			o, err := static.NewFairPriceOracle(c.FairPrice)
			if err != nil {
				return nil, err
			}
			oracle = o
		}

		svc, err := NewExchangeService(ledger, estimator, oracle, tokens, ServiceParams{
			DefaultCostLimit:     c.DefaultCostLimit,
			DefaultTokenDecimals: c.DefaultTokenDecimals,
			ProtocolFee:          c.ProtocolFee,
			ProtocolFeeCollector: c.ProtocolFeeCollector,
			HistoryConcurrency:   c.HistoryConcurrency,
			HistoryRateLimit:     c.HistoryRateLimit,
			HistoryCacheTTL:      c.HistoryCacheTTL,
			Registerer:           c.Registerer,
		})
		if err != nil {
			return nil, err
		}
		c.exchange = svc
	}
	return c.exchange, nil
}
