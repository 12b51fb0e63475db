package domain

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

var (
	// ErrTokenNotFound ...
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenAlreadyExists ...
	ErrTokenAlreadyExists = errors.New("token already exists")
)

// Token is a fungible token known by the ledger.
type Token struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
	// Minter is the only address allowed to mint new tokens out of thin air.
	Minter      common.Address
	TotalSupply *big.Int
}

// Mint increases the total supply of the token.
func (t *Token) Mint(amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	supply := mathutil.Add(t.TotalSupply, amount)
	if !mathutil.FitsUint256(supply) {
		return ErrAmountOverflow
	}
	t.TotalSupply = supply
	return nil
}

// Clone returns a deep copy of the token.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	c.TotalSupply = mathutil.Copy(t.TotalSupply)
	return &c
}
