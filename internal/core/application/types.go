package application

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

// CreateExchangeArgs are the parameters of a new exchange. Amounts are
// expressed in human readable units.
type CreateExchangeArgs struct {
	BaseToken common.Address
	DataToken common.Address
	Rate      decimal.Decimal
	// MarketFee defaults to zero.
	MarketFee decimal.Decimal
	// MarketFeeCollector defaults to the owner.
	MarketFeeCollector common.Address
	AllowedSwapper     common.Address
	WithMint           bool
	DTMintCap          decimal.Decimal
}

// CreateResult ...
type CreateResult struct {
	WriteResult
	ExchangeID domain.ExchangeID
}

// Amount is a token amount both in base units and in human readable form.
type Amount struct {
	Units *big.Int
	Human decimal.Decimal
}

// QuoteResult is a swap quote. Data token amounts are in data token units,
// the others in base token units.
type QuoteResult struct {
	ExchangeID      domain.ExchangeID
	Direction       domain.SwapDirection
	DataTokenAmount Amount
	// BaseTokenAmount is the amount exchanged at rate, before fees.
	BaseTokenAmount   Amount
	MarketFeeAmount   Amount
	ProtocolFeeAmount Amount
	// Total is what the buyer pays or the seller receives.
	Total Amount
}

// SwapResult ...
type SwapResult struct {
	WriteResult
	Quote QuoteResult
	// Swap is the record emitted by the ledger.
	Swap *domain.Swap
}

// CollectResult ...
type CollectResult struct {
	WriteResult
	Amount Amount
}

// FeesInfo ...
type FeesInfo struct {
	ExchangeID           domain.ExchangeID
	MarketFee            decimal.Decimal
	MarketFeeCollector   common.Address
	MarketFeeAvailable   Amount
	ProtocolFee          decimal.Decimal
	ProtocolFeeCollector common.Address
	ProtocolFeeAvailable Amount
}

// ListFilter narrows down exchange listings. MinSupply is a human readable
// amount of data token.
type ListFilter struct {
	Owner      *common.Address
	DataToken  *common.Address
	MinSupply  *decimal.Decimal
	ActiveOnly bool
	// PageSize is the number of exchanges fetched at once, defaults to 10.
	PageSize int
}
