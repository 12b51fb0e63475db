package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// FeeInfo tracks the market fee configuration of an exchange along with the
// market and protocol fees accrued and not yet collected, expressed in base
// units of the base token.
type FeeInfo struct {
	MarketFee            decimal.Decimal
	MarketFeeCollector   common.Address
	MarketFeeAvailable   *big.Int
	ProtocolFeeAvailable *big.Int
}

// accrue is called only by swap executions.
func (f *FeeInfo) accrue(marketFee, protocolFee *big.Int) error {
	market := mathutil.Add(f.MarketFeeAvailable, marketFee)
	protocol := mathutil.Add(f.ProtocolFeeAvailable, protocolFee)
	if !mathutil.FitsUint256(market) || !mathutil.FitsUint256(protocol) {
		return ErrAmountOverflow
	}
	f.MarketFeeAvailable = market
	f.ProtocolFeeAvailable = protocol
	return nil
}

// CollectMarketFee zeroes the accrued market fee and returns the amount to be
// transferred to the collector.
func (e *Exchange) CollectMarketFee(caller common.Address) (*big.Int, error) {
	if e.Fees.MarketFeeCollector != caller {
		return nil, ErrUnauthorized
	}
	amount := mathutil.Copy(e.Fees.MarketFeeAvailable)
	e.Fees.MarketFeeAvailable = big.NewInt(0)
	return amount, nil
}

// CollectProtocolFee zeroes the accrued protocol fee and returns the amount
// to be transferred to the protocol collector. Anyone can trigger it.
func (e *Exchange) CollectProtocolFee() *big.Int {
	amount := mathutil.Copy(e.Fees.ProtocolFeeAvailable)
	e.Fees.ProtocolFeeAvailable = big.NewInt(0)
	return amount
}

// UpdateMarketFee changes the market fee fraction applied to future swaps.
func (e *Exchange) UpdateMarketFee(
	caller common.Address, fee decimal.Decimal,
) error {
	if e.Fees.MarketFeeCollector != caller {
		return ErrUnauthorized
	}
	if err := validateFee(fee); err != nil {
		return err
	}
	e.Fees.MarketFee = fee
	return nil
}

// UpdateMarketFeeCollector hands the market fee role to another address.
func (e *Exchange) UpdateMarketFeeCollector(
	caller, collector common.Address,
) error {
	if e.Fees.MarketFeeCollector != caller {
		return ErrUnauthorized
	}
	if collector == (common.Address{}) {
		return ErrInvalidAddress
	}
	e.Fees.MarketFeeCollector = collector
	return nil
}
