package application

import (
	"context"

	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/pkg/circuitbreaker"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

const defaultPageSize = 10

// ExchangeCursor lazily iterates over the exchanges matching a filter, one
// ledger page at a time. The sequence is finite and can be restarted with
// Reset. Every page is a fresh snapshot of the ledger.
type ExchangeCursor struct {
	ledger  ports.Ledger
	breaker *circuitbreaker.Breaker
	filter  ListFilter

	page domain.Page
	buf  []domain.Exchange
	done bool
}

func newExchangeCursor(
	ledger ports.Ledger, breaker *circuitbreaker.Breaker, filter ListFilter,
) *ExchangeCursor {
	c := &ExchangeCursor{
		ledger:  ledger,
		breaker: breaker,
		filter:  filter,
	}
	c.Reset()
	return c
}

// Next returns the next exchange of the sequence. The returned bool is false
// once the sequence is exhausted.
func (c *ExchangeCursor) Next(ctx context.Context) (*domain.Exchange, bool, error) {
	for len(c.buf) == 0 {
		if c.done {
			return nil, false, nil
		}
		if err := c.fetch(ctx); err != nil {
			return nil, false, err
		}
	}

	e := c.buf[0]
	c.buf = c.buf[1:]
	return &e, true, nil
}

// Reset restarts the sequence from the first exchange.
func (c *ExchangeCursor) Reset() {
	size := c.filter.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	c.page = domain.NewPage(1, size)
	c.buf = nil
	c.done = false
}

// All drains the remaining exchanges of the sequence.
func (c *ExchangeCursor) All(ctx context.Context) ([]domain.Exchange, error) {
	exchanges := make([]domain.Exchange, 0)
	for {
		e, ok, err := c.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return exchanges, nil
		}
		exchanges = append(exchanges, *e)
	}
}

func (c *ExchangeCursor) fetch(ctx context.Context) error {
	filter := domain.ExchangeFilter{
		Owner:      c.filter.Owner,
		DataToken:  c.filter.DataToken,
		ActiveOnly: c.filter.ActiveOnly,
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.ledger.GetExchanges(ctx, filter, c.page)
	})
	if err != nil {
		return err
	}

	exchanges := res.([]domain.Exchange)
	if len(exchanges) < c.page.Size {
		c.done = true
	}
	c.page = c.page.Next()

	// The min supply threshold depends on the decimals of every single data
	// token, so it's applied here rather than by the ledger.
	for _, e := range exchanges {
		if c.filter.MinSupply != nil {
			min := mathutil.ToBaseUnits(e.DataDecimals, *c.filter.MinSupply)
			if e.DTSupply().Cmp(min) < 0 {
				continue
			}
		}
		c.buf = append(c.buf, e)
	}
	return nil
}
