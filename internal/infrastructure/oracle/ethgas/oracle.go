// Package ethgas implements a fair price oracle that follows the gas price
// suggested by an ethereum node.
package ethgas

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

var (
	// ErrMissingProvider ...
	ErrMissingProvider = errors.New("missing gas price provider")
	// ErrInvalidMultiplier ...
	ErrInvalidMultiplier = errors.New("multiplier must be greater than zero")
	// ErrInvalidSuggestion ...
	ErrInvalidSuggestion = errors.New("provider suggested a non positive price")
)

// GasPriceProvider is satisfied by *ethclient.Client.
type GasPriceProvider interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

type fairPriceOracle struct {
	provider   GasPriceProvider
	multiplier decimal.Decimal
}

// NewFairPriceOracle returns an oracle that scales the price suggested by the
// provider by the given multiplier.
func NewFairPriceOracle(
	provider GasPriceProvider, multiplier decimal.Decimal,
) (ports.FairPriceOracle, error) {
	if provider == nil {
		return nil, ErrMissingProvider
	}
	if !multiplier.IsPositive() {
		return nil, ErrInvalidMultiplier
	}
	return &fairPriceOracle{provider, multiplier}, nil
}

// Dial connects to the node at the given rpc endpoint.
func Dial(
	ctx context.Context, rpcURL string, multiplier decimal.Decimal,
) (ports.FairPriceOracle, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	return NewFairPriceOracle(client, multiplier)
}

func (o *fairPriceOracle) FairPrice(ctx context.Context) (*big.Int, error) {
	suggested, err := o.provider.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	if suggested == nil || suggested.Sign() <= 0 {
		return nil, ErrInvalidSuggestion
	}

	price := decimal.NewFromBigInt(suggested, 0).Mul(o.multiplier).Ceil().BigInt()

	log.WithFields(log.Fields{
		"suggested": suggested.String(),
		"price":     price.String(),
	}).Debug("fair price")

	return price, nil
}
