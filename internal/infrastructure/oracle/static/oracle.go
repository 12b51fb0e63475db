package static

import (
	"context"
	"errors"
	"math/big"

	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

// ErrInvalidPrice ...
var ErrInvalidPrice = errors.New("price must be greater than zero")

type fairPriceOracle struct {
	price *big.Int
}

// NewFairPriceOracle returns an oracle that always returns the given price.
func NewFairPriceOracle(price *big.Int) (ports.FairPriceOracle, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	return &fairPriceOracle{new(big.Int).Set(price)}, nil
}

func (o *fairPriceOracle) FairPrice(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return new(big.Int).Set(o.price), nil
}
