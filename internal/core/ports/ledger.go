package ports

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

// ErrOutcomeUnknown is returned by Ledger.Submit when an operation was handed
// over to the ledger but its confirmation was not observed. The operation may
// or may not have been applied.
var ErrOutcomeUnknown = errors.New("operation submitted but outcome is unknown")

// OperationKind enumerates the state changing operations of the exchange
// ledger.
type OperationKind int

const (
	OpCreateExchange OperationKind = iota + 1
	OpBuy
	OpSell
	OpSetRate
	OpSetActive
	OpSetMint
	OpSetAllowedSwapper
	OpCollectMarketFee
	OpCollectProtocolFee
	OpCollectBT
	OpCollectDT
	OpDepositDT
	OpUpdateMarketFee
	OpUpdateMarketFeeCollector
)

var operationNames = map[OperationKind]string{
	OpCreateExchange:           "create_exchange",
	OpBuy:                      "buy",
	OpSell:                     "sell",
	OpSetRate:                  "set_rate",
	OpSetActive:                "set_active",
	OpSetMint:                  "set_mint",
	OpSetAllowedSwapper:        "set_allowed_swapper",
	OpCollectMarketFee:         "collect_market_fee",
	OpCollectProtocolFee:       "collect_protocol_fee",
	OpCollectBT:                "collect_bt",
	OpCollectDT:                "collect_dt",
	OpDepositDT:                "deposit_dt",
	OpUpdateMarketFee:          "update_market_fee",
	OpUpdateMarketFeeCollector: "update_market_fee_collector",
}

func (k OperationKind) String() string {
	if name, ok := operationNames[k]; ok {
		return name
	}
	return "unknown"
}

// Operation is a state changing call to the ledger. Only the fields relevant
// to the kind are set.
type Operation struct {
	Kind       OperationKind
	Caller     common.Address
	ExchangeID domain.ExchangeID
	// CreateArgs is set for OpCreateExchange.
	CreateArgs *domain.ExchangeArgs
	// Amount is the data token amount of a swap or a deposit, or the amount
	// of an owner's withdrawal, in base units.
	Amount *big.Int
	// BaseLimit is the max base amount a buyer pays, or the min base amount a
	// seller receives. Nil means no limit.
	BaseLimit *big.Int
	Rate      decimal.Decimal
	Fee       decimal.Decimal
	Flag      bool
	// Address is the allowed swapper or the new market fee collector.
	Address common.Address
}

// SubmitOpts are the resource parameters of a submission.
type SubmitOpts struct {
	// CostLimit is the max amount of resource units the operation can consume.
	CostLimit uint64
	// UnitPrice is the price paid for every resource unit consumed.
	UnitPrice *big.Int
}

// Receipt is the outcome of an applied operation.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	CostUsed    uint64
	// Amount is the amount transferred out by a collect operation.
	Amount *big.Int
	Events []domain.Event
}

// Ledger is the external collaborator that persists exchanges and executes
// transfers. Reads are snapshots that can be stale by the time a dependent
// write is submitted.
type Ledger interface {
	GetExchange(ctx context.Context, id domain.ExchangeID) (*domain.Exchange, error)
	GetExchanges(
		ctx context.Context, filter domain.ExchangeFilter, page domain.Page,
	) ([]domain.Exchange, error)
	CountExchanges(ctx context.Context, filter domain.ExchangeFilter) (int, error)
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
	FilterEvents(ctx context.Context, query domain.EventQuery) ([]domain.Event, error)
	BlockNumber(ctx context.Context) (uint64, error)
	// Submit applies the operation atomically. It returns ErrOutcomeUnknown if
	// the operation was sent but its outcome could not be observed.
	Submit(ctx context.Context, op Operation, opts SubmitOpts) (*Receipt, error)
}

// CostEstimator returns the resource units an operation is expected to
// consume.
type CostEstimator interface {
	EstimateCost(ctx context.Context, op Operation) (uint64, error)
}

// FairPriceOracle returns the current recommended unit price of the
// resource consumed by writes.
type FairPriceOracle interface {
	FairPrice(ctx context.Context) (*big.Int, error)
}

// TokenMetadata resolves token metadata.
type TokenMetadata interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}
