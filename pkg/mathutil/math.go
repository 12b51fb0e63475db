package mathutil

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	// Zero is a fresh big zero. Never mutate it.
	Zero = big.NewInt(0)
)

// ToBaseUnits converts a human readable amount into the smallest indivisible
// unit of a token with the given decimals. Digits beyond the token precision
// are truncated toward zero.
func ToBaseUnits(decimals uint8, amount decimal.Decimal) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// ToHumanAmount converts an amount expressed in base units into its human
// readable representation. The conversion is exact.
func ToHumanAmount(decimals uint8, units *big.Int) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -int32(decimals))
}

// ScaleAmount multiplies an amount in base units of a token with fromDecimals
// by the given rate and returns the exact result expressed in base units of a
// token with toDecimals. Rounding is left to the caller.
func ScaleAmount(
	units *big.Int, rate decimal.Decimal, fromDecimals, toDecimals uint8,
) decimal.Decimal {
	amount := decimal.NewFromBigInt(units, 0)
	return amount.Mul(rate).Shift(int32(toDecimals) - int32(fromDecimals))
}

// FitsUint256 returns whether the given amount is non negative and can be
// represented as an unsigned 256-bit integer, the widest amount a ledger
// accepts.
func FitsUint256(x *big.Int) bool {
	if x == nil || x.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(x)
	return !overflow
}

// MaxUint256 returns the biggest amount representable by the ledger.
func MaxUint256() *big.Int {
	return new(uint256.Int).SetAllOne().ToBig()
}

// Add returns x + y as a new big.Int. nil operands are considered zero.
func Add(x, y *big.Int) *big.Int {
	return new(big.Int).Add(orZero(x), orZero(y))
}

// Sub returns x - y as a new big.Int. nil operands are considered zero.
func Sub(x, y *big.Int) *big.Int {
	return new(big.Int).Sub(orZero(x), orZero(y))
}

// Copy returns a deep copy of x, zero if nil.
func Copy(x *big.Int) *big.Int {
	return new(big.Int).Set(orZero(x))
}

// Min returns the smaller between x and y.
func Min(x, y *big.Int) *big.Int {
	if orZero(x).Cmp(orZero(y)) <= 0 {
		return Copy(x)
	}
	return Copy(y)
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return Zero
	}
	return x
}
