package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdex-network/tdex-fixedrate/internal/core/application"
	"github.com/tdex-network/tdex-fixedrate/internal/infrastructure/oracle/ethgas"
)

const (
	// DatadirKey is the local data directory to store the internal state
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// DefaultCostLimitKey is the cost limit used for writes whose cost can't
	// be estimated
	DefaultCostLimitKey = "DEFAULT_COST_LIMIT"
	// DefaultTokenDecimalsKey is the number of decimals assumed for tokens
	// whose metadata can't be retrieved
	DefaultTokenDecimalsKey = "DEFAULT_TOKEN_DECIMALS"
	// ProtocolFeeKey is the fraction of every swap's base amount accrued for
	// the protocol
	ProtocolFeeKey = "PROTOCOL_FEE"
	// ProtocolFeeCollectorKey is the address receiving the protocol fees
	ProtocolFeeCollectorKey = "PROTOCOL_FEE_COLLECTOR"
	// FairPriceKey is the constant unit price paid for writes, used when no
	// rpc endpoint is given
	FairPriceKey = "FAIR_PRICE"
	// FairPriceRPCKey is the endpoint of the ethereum node suggesting the
	// unit price of writes
	FairPriceRPCKey = "FAIR_PRICE_RPC"
	// FairPriceMultiplierKey scales the unit price suggested by the node
	FairPriceMultiplierKey = "FAIR_PRICE_MULTIPLIER"
	// HistoryConcurrencyKey is the max number of concurrent event lookups
	HistoryConcurrencyKey = "HISTORY_CONCURRENCY"
	// HistoryRateLimitKey is the max number of event lookups per second, 0
	// means unlimited
	HistoryRateLimitKey = "HISTORY_RATE_LIMIT"
	// HistoryCacheTTLKey is how long swap histories are cached, 0 disables the
	// cache
	HistoryCacheTTLKey = "HISTORY_CACHE_TTL"
	// MetricsAddrKey is the address the daemon serves prometheus metrics on
	MetricsAddrKey = "METRICS_ADDR"

	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("fixedrate", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("FIXEDRATE")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBInMemory)
	vip.SetDefault(DefaultCostLimitKey, 1000000)
	vip.SetDefault(DefaultTokenDecimalsKey, 18)
	vip.SetDefault(ProtocolFeeKey, "0.001")
	vip.SetDefault(FairPriceKey, "1000000000")
	vip.SetDefault(FairPriceMultiplierKey, "1")
	vip.SetDefault(HistoryConcurrencyKey, 10)
	vip.SetDefault(HistoryRateLimitKey, 0)
	vip.SetDefault(HistoryCacheTTLKey, 30*time.Second)
	vip.SetDefault(MetricsAddrKey, ":9090")

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	log.SetLevel(log.Level(GetInt(LogLevelKey)))

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDecimal(key string) decimal.Decimal {
	// Values are validated at init time.
	d, _ := decimal.NewFromString(GetString(key))
	return d
}

func GetAddress(key string) common.Address {
	return common.HexToAddress(GetString(key))
}

// ApplicationConfig returns the configuration of the application layer. The
// fair price oracle connects to the given rpc endpoint, if any.
func ApplicationConfig(
	ctx context.Context, registerer prometheus.Registerer,
) (*application.Config, error) {
	cfg := &application.Config{
		DBType:               GetString(DBTypeKey),
		DefaultCostLimit:     uint64(GetInt(DefaultCostLimitKey)),
		DefaultTokenDecimals: uint8(GetInt(DefaultTokenDecimalsKey)),
		ProtocolFee:          GetDecimal(ProtocolFeeKey),
		ProtocolFeeCollector: GetAddress(ProtocolFeeCollectorKey),
		FairPrice:            GetDecimal(FairPriceKey).BigInt(),
		HistoryConcurrency:   GetInt(HistoryConcurrencyKey),
		HistoryRateLimit:     GetInt(HistoryRateLimitKey),
		HistoryCacheTTL:      GetDuration(HistoryCacheTTLKey),
		Registerer:           registerer,
	}
	if cfg.DBType == application.DBBadger {
		cfg.DBDir = filepath.Join(GetDatadir(), DbLocation)
	}

	if rpcURL := GetString(FairPriceRPCKey); rpcURL != "" {
		oracle, err := ethgas.Dial(ctx, rpcURL, GetDecimal(FairPriceMultiplierKey))
		if err != nil {
			return nil, err
		}
		cfg.FairPriceOracle = oracle
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, ok := application.SupportedDBType[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf("unsupported db type %s", GetString(DBTypeKey))
	}

	if lvl := GetInt(LogLevelKey); lvl < int(log.PanicLevel) || lvl > int(log.TraceLevel) {
		return fmt.Errorf("%s must be in range [%d, %d]", LogLevelKey, log.PanicLevel, log.TraceLevel)
	}

	if GetInt(DefaultCostLimitKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", DefaultCostLimitKey)
	}

	if d := GetInt(DefaultTokenDecimalsKey); d < 0 || d > 255 {
		return fmt.Errorf("%s must be in range [0, 255]", DefaultTokenDecimalsKey)
	}

	for _, key := range []string{ProtocolFeeKey, FairPriceKey, FairPriceMultiplierKey} {
		if _, err := decimal.NewFromString(GetString(key)); err != nil {
			return fmt.Errorf("%s is not a valid number: %s", key, err)
		}
	}

	fee := GetDecimal(ProtocolFeeKey)
	if fee.IsNegative() || fee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be in range [0, 1)", ProtocolFeeKey)
	}

	if !GetDecimal(FairPriceKey).IsPositive() {
		return fmt.Errorf("%s must be greater than zero", FairPriceKey)
	}

	collector := GetString(ProtocolFeeCollectorKey)
	if !common.IsHexAddress(collector) || GetAddress(ProtocolFeeCollectorKey) == (common.Address{}) {
		return fmt.Errorf("missing or invalid %s", ProtocolFeeCollectorKey)
	}

	if GetInt(HistoryConcurrencyKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", HistoryConcurrencyKey)
	}

	if GetInt(HistoryRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", HistoryRateLimitKey)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) != application.DBBadger {
		return nil
	}
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
