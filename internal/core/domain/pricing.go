package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// SwapDirection tells whether the caller buys or sells data token.
type SwapDirection int

const (
	BuyData SwapDirection = iota
	SellData
)

func (d SwapDirection) String() string {
	switch d {
	case BuyData:
		return "BUY_DATA"
	case SellData:
		return "SELL_DATA"
	default:
		return "UNKNOWN"
	}
}

// Quote is the outcome of pricing a swap. All amounts are expressed in base
// units.
type Quote struct {
	Direction       SwapDirection
	DataTokenAmount *big.Int
	// BaseTokenAmount is the amount of base token exchanged at the current
	// rate, before fees.
	BaseTokenAmount   *big.Int
	MarketFeeAmount   *big.Int
	ProtocolFeeAmount *big.Int
	// Total is what the buyer pays (base amount plus fees) or what the seller
	// receives (base amount less fees).
	Total *big.Int
	// MintedAmount is the part of a bought amount of data token that gets
	// minted instead of being drawn from the escrowed balance.
	MintedAmount *big.Int
}

// FeesAmount returns the sum of the market and protocol fee amounts.
func (q *Quote) FeesAmount() *big.Int {
	return mathutil.Add(q.MarketFeeAmount, q.ProtocolFeeAmount)
}

func zeroQuote(direction SwapDirection) *Quote {
	return &Quote{
		Direction:         direction,
		DataTokenAmount:   big.NewInt(0),
		BaseTokenAmount:   big.NewInt(0),
		MarketFeeAmount:   big.NewInt(0),
		ProtocolFeeAmount: big.NewInt(0),
		Total:             big.NewInt(0),
		MintedAmount:      big.NewInt(0),
	}
}

// CalcBaseInGivenOutDT returns how much base token must be paid to buy the
// given amount of data token. Fees are added on top of the base amount and
// rounded up. Quoting is allowed on inactive exchanges.
func (e *Exchange) CalcBaseInGivenOutDT(
	dtOut *big.Int, protocolFee decimal.Decimal,
) (*Quote, error) {
	if err := validateQuoteArgs(dtOut, protocolFee); err != nil {
		return nil, err
	}
	if dtOut.Sign() == 0 {
		return zeroQuote(BuyData), nil
	}

	base := mathutil.ScaleAmount(
		dtOut, e.Rate, e.DataDecimals, e.BaseDecimals,
	).Ceil().BigInt()
	withMarketFee, marketFee := mathutil.PlusFee(base, e.Fees.MarketFee)
	protocolFeeAmount := mathutil.FeeCeil(base, protocolFee)
	total := mathutil.Add(withMarketFee, protocolFeeAmount)
	if !mathutil.FitsUint256(total) {
		return nil, ErrAmountOverflow
	}

	return &Quote{
		Direction:         BuyData,
		DataTokenAmount:   mathutil.Copy(dtOut),
		BaseTokenAmount:   base,
		MarketFeeAmount:   marketFee,
		ProtocolFeeAmount: protocolFeeAmount,
		Total:             total,
		MintedAmount:      big.NewInt(0),
	}, nil
}

// CalcBaseOutGivenInDT returns how much base token a seller receives for the
// given amount of data token. Fees are subtracted from the gross amount and
// rounded down. Quoting is allowed on inactive exchanges.
func (e *Exchange) CalcBaseOutGivenInDT(
	dtIn *big.Int, protocolFee decimal.Decimal,
) (*Quote, error) {
	if err := validateQuoteArgs(dtIn, protocolFee); err != nil {
		return nil, err
	}
	if dtIn.Sign() == 0 {
		return zeroQuote(SellData), nil
	}

	gross := mathutil.ScaleAmount(
		dtIn, e.Rate, e.DataDecimals, e.BaseDecimals,
	).Floor().BigInt()
	if !mathutil.FitsUint256(gross) {
		return nil, ErrAmountOverflow
	}
	marketFee := mathutil.FeeFloor(gross, e.Fees.MarketFee)
	protocolFeeAmount := mathutil.FeeFloor(gross, protocolFee)
	fees := mathutil.Add(marketFee, protocolFeeAmount)
	if fees.Cmp(gross) > 0 {
		return nil, ErrFeesExceedAmount
	}

	return &Quote{
		Direction:         SellData,
		DataTokenAmount:   mathutil.Copy(dtIn),
		BaseTokenAmount:   gross,
		MarketFeeAmount:   marketFee,
		ProtocolFeeAmount: protocolFeeAmount,
		Total:             mathutil.Sub(gross, fees),
		MintedAmount:      big.NewInt(0),
	}, nil
}

// ExecuteBuy sells the given amount of data token to the caller. The data
// token is drawn from the escrowed balance first and, if minting is enabled,
// the rest is minted. The base amount goes to the owner's balance while fees
// are accrued. The exchange is left untouched on error.
func (e *Exchange) ExecuteBuy(
	caller common.Address, dtOut *big.Int, protocolFee decimal.Decimal,
) (*Quote, error) {
	if err := e.CanSwap(caller); err != nil {
		return nil, err
	}
	if err := validateAmount(dtOut); err != nil {
		return nil, err
	}

	quote, err := e.CalcBaseInGivenOutDT(dtOut, protocolFee)
	if err != nil {
		return nil, err
	}
	if e.DTSupply().Cmp(dtOut) < 0 {
		return nil, ErrInsufficientSupply
	}

	fromBalance := mathutil.Min(e.DTBalance, dtOut)
	minted := mathutil.Sub(dtOut, fromBalance)
	btBalance := mathutil.Add(e.BTBalance, quote.BaseTokenAmount)
	if !mathutil.FitsUint256(btBalance) {
		return nil, ErrAmountOverflow
	}
	if err := e.Fees.accrue(
		quote.MarketFeeAmount, quote.ProtocolFeeAmount,
	); err != nil {
		return nil, err
	}

	e.DTBalance = mathutil.Sub(e.DTBalance, fromBalance)
	e.DTMintCap = mathutil.Sub(e.DTMintCap, minted)
	e.BTBalance = btBalance
	quote.MintedAmount = minted
	return quote, nil
}

// ExecuteSell buys the given amount of data token from the caller. The gross
// base amount is drawn from the owner's balance, fees are accrued and the
// rest is paid out to the seller. The exchange is left untouched on error.
func (e *Exchange) ExecuteSell(
	caller common.Address, dtIn *big.Int, protocolFee decimal.Decimal,
) (*Quote, error) {
	if err := e.CanSwap(caller); err != nil {
		return nil, err
	}
	if err := validateAmount(dtIn); err != nil {
		return nil, err
	}

	quote, err := e.CalcBaseOutGivenInDT(dtIn, protocolFee)
	if err != nil {
		return nil, err
	}
	if e.BTSupply().Cmp(quote.BaseTokenAmount) < 0 {
		return nil, ErrInsufficientSupply
	}
	dtBalance := mathutil.Add(e.DTBalance, dtIn)
	if !mathutil.FitsUint256(dtBalance) {
		return nil, ErrAmountOverflow
	}
	if err := e.Fees.accrue(
		quote.MarketFeeAmount, quote.ProtocolFeeAmount,
	); err != nil {
		return nil, err
	}

	e.BTBalance = mathutil.Sub(e.BTBalance, quote.BaseTokenAmount)
	e.DTBalance = dtBalance
	return quote, nil
}

func validateQuoteArgs(amount *big.Int, protocolFee decimal.Decimal) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if !mathutil.FitsUint256(amount) {
		return ErrAmountOverflow
	}
	return validateFee(protocolFee)
}
