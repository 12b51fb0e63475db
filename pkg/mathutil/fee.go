package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PlusFee calculates the fee for the given amount and a fee expressed as a
// fraction (ie. 0.01 = 1%), and returns the amount with the fee added on top.
// The fee is rounded up so that truncation never leaks value away from the
// fee collector.
func PlusFee(amount *big.Int, fee decimal.Decimal) (withFee, calculatedFee *big.Int) {
	calculatedFee = FeeCeil(amount, fee)
	withFee = Add(amount, calculatedFee)
	return
}

// LessFee calculates the fee for the given amount and a fee expressed as a
// fraction, and returns the amount with the fee subtracted. The fee is
// rounded down.
func LessFee(amount *big.Int, fee decimal.Decimal) (withoutFee, calculatedFee *big.Int) {
	calculatedFee = FeeFloor(amount, fee)
	withoutFee = Sub(amount, calculatedFee)
	return
}

// FeeCeil returns ceil(amount × fee).
func FeeCeil(amount *big.Int, fee decimal.Decimal) *big.Int {
	if amount == nil || amount.Sign() == 0 || fee.IsZero() {
		return big.NewInt(0)
	}
	return decimal.NewFromBigInt(amount, 0).Mul(fee).Ceil().BigInt()
}

// FeeFloor returns floor(amount × fee).
func FeeFloor(amount *big.Int, fee decimal.Decimal) *big.Int {
	if amount == nil || amount.Sign() == 0 || fee.IsZero() {
		return big.NewInt(0)
	}
	return decimal.NewFromBigInt(amount, 0).Mul(fee).Floor().BigInt()
}

// IsValidFeeFraction returns whether the fee lies within [0, 1).
func IsValidFeeFraction(fee decimal.Decimal) bool {
	return !fee.IsNegative() && fee.LessThan(decimal.NewFromInt(1))
}
