package application

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
)

// unitConverter resolves the decimals of tokens that are not yet bound to an
// exchange record. Decimals are looked up through the token metadata
// collaborator and cached. If the lookup fails the default decimals are used
// and nothing is cached, so the next call retries the lookup.
type unitConverter struct {
	tokens          ports.TokenMetadata
	defaultDecimals uint8

	lock     sync.RWMutex
	decimals map[common.Address]uint8
}

func newUnitConverter(
	tokens ports.TokenMetadata, defaultDecimals uint8,
) *unitConverter {
	return &unitConverter{
		tokens:          tokens,
		defaultDecimals: defaultDecimals,
		decimals:        make(map[common.Address]uint8),
	}
}

func (c *unitConverter) tokenDecimals(
	ctx context.Context, token common.Address,
) uint8 {
	c.lock.RLock()
	d, ok := c.decimals[token]
	c.lock.RUnlock()
	if ok {
		return d
	}

	if c.tokens == nil {
		return c.defaultDecimals
	}

	d, err := c.tokens.Decimals(ctx, token)
	if err != nil {
		log.WithError(err).WithField("token", token.Hex()).Warnf(
			"failed to get token decimals, using default %d", c.defaultDecimals,
		)
		return c.defaultDecimals
	}

	c.lock.Lock()
	c.decimals[token] = d
	c.lock.Unlock()
	return d
}
