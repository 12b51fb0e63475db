package local

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// apply executes the operation and returns the amount transferred out by
// collect operations, nil otherwise.
func (l *Ledger) apply(
	ctx context.Context, blk *block, op ports.Operation,
) (*big.Int, error) {
	switch op.Kind {
	case ports.OpCreateExchange:
		return nil, l.createExchange(ctx, blk, op)
	case ports.OpBuy:
		return nil, l.buy(ctx, blk, op)
	case ports.OpSell:
		return nil, l.sell(ctx, blk, op)
	case ports.OpSetRate:
		return nil, l.updateExchange(ctx, op, func(e *domain.Exchange) error {
			return e.SetRate(op.Caller, op.Rate)
		})
	case ports.OpSetActive:
		return nil, l.updateExchange(ctx, op, func(e *domain.Exchange) error {
			_, err := e.SetActive(op.Caller, op.Flag)
			return err
		})
	case ports.OpSetMint:
		return nil, l.updateExchange(ctx, op, func(e *domain.Exchange) error {
			_, err := e.SetMint(op.Caller, op.Flag)
			return err
		})
	case ports.OpSetAllowedSwapper:
		return nil, l.updateExchange(ctx, op, func(e *domain.Exchange) error {
			_, err := e.SetAllowedSwapper(op.Caller, op.Address)
			return err
		})
	case ports.OpUpdateMarketFee:
		return nil, l.updateExchange(ctx, op, func(e *domain.Exchange) error {
			return e.UpdateMarketFee(op.Caller, op.Fee)
		})
	case ports.OpUpdateMarketFeeCollector:
		return nil, l.updateExchange(ctx, op, func(e *domain.Exchange) error {
			return e.UpdateMarketFeeCollector(op.Caller, op.Address)
		})
	case ports.OpDepositDT:
		return nil, l.depositDT(ctx, op)
	case ports.OpCollectMarketFee, ports.OpCollectProtocolFee,
		ports.OpCollectBT, ports.OpCollectDT:
		return l.collect(ctx, op)
	default:
		return nil, ErrUnsupportedOperation
	}
}

func (l *Ledger) createExchange(
	ctx context.Context, blk *block, op ports.Operation,
) error {
	if op.CreateArgs == nil {
		return ErrMissingCreateArgs
	}
	args := *op.CreateArgs
	args.Owner = op.Caller

	// The registry is the source of truth for the token decimals.
	baseToken, err := l.repo.TokenRepository().GetToken(ctx, args.BaseToken)
	if err != nil {
		return err
	}
	dataToken, err := l.repo.TokenRepository().GetToken(ctx, args.DataToken)
	if err != nil {
		return err
	}
	args.BaseDecimals = baseToken.Decimals
	args.DataDecimals = dataToken.Decimals

	exchange, err := domain.NewExchange(args)
	if err != nil {
		return err
	}
	if err := l.repo.ExchangeRepository().AddExchange(ctx, exchange); err != nil {
		return err
	}

	blk.emit(domain.Event{
		Kind:       domain.EventExchangeCreated,
		ExchangeID: exchange.ID,
		Created: &domain.ExchangeCreated{
			Owner:     exchange.Owner,
			BaseToken: exchange.BaseToken,
			DataToken: exchange.DataToken,
			Rate:      exchange.Rate,
		},
	})
	return nil
}

func (l *Ledger) buy(ctx context.Context, blk *block, op ports.Operation) error {
	var exchange *domain.Exchange
	var quote *domain.Quote

	if err := l.repo.ExchangeRepository().UpdateExchange(
		ctx, op.ExchangeID, func(e *domain.Exchange) (*domain.Exchange, error) {
			q, err := e.ExecuteBuy(op.Caller, op.Amount, l.protocolFee)
			if err != nil {
				return nil, err
			}
			if op.BaseLimit != nil && q.Total.Cmp(op.BaseLimit) > 0 {
				return nil, domain.ErrSlippageExceeded
			}
			exchange, quote = e, q
			return e, nil
		},
	); err != nil {
		return err
	}

	escrow := EscrowAddress(exchange.ID)
	if err := l.transfer(
		ctx, exchange.BaseToken, op.Caller, escrow, quote.Total,
	); err != nil {
		return err
	}
	if quote.MintedAmount != nil && quote.MintedAmount.Sign() > 0 {
		if err := l.mint(
			ctx, exchange.DataToken, escrow, quote.MintedAmount,
		); err != nil {
			return err
		}
	}
	if err := l.transfer(
		ctx, exchange.DataToken, escrow, op.Caller, quote.DataTokenAmount,
	); err != nil {
		return err
	}

	blk.emit(domain.Event{
		Kind:       domain.EventSwapped,
		ExchangeID: exchange.ID,
		Swap:       domain.NewSwapFromQuote(exchange.ID, op.Caller, quote),
	})
	return nil
}

func (l *Ledger) sell(ctx context.Context, blk *block, op ports.Operation) error {
	var exchange *domain.Exchange
	var quote *domain.Quote

	if err := l.repo.ExchangeRepository().UpdateExchange(
		ctx, op.ExchangeID, func(e *domain.Exchange) (*domain.Exchange, error) {
			q, err := e.ExecuteSell(op.Caller, op.Amount, l.protocolFee)
			if err != nil {
				return nil, err
			}
			if op.BaseLimit != nil && q.Total.Cmp(op.BaseLimit) < 0 {
				return nil, domain.ErrSlippageExceeded
			}
			exchange, quote = e, q
			return e, nil
		},
	); err != nil {
		return err
	}

	escrow := EscrowAddress(exchange.ID)
	if err := l.transfer(
		ctx, exchange.DataToken, op.Caller, escrow, quote.DataTokenAmount,
	); err != nil {
		return err
	}
	if err := l.transfer(
		ctx, exchange.BaseToken, escrow, op.Caller, quote.Total,
	); err != nil {
		return err
	}

	blk.emit(domain.Event{
		Kind:       domain.EventSwapped,
		ExchangeID: exchange.ID,
		Swap:       domain.NewSwapFromQuote(exchange.ID, op.Caller, quote),
	})
	return nil
}

func (l *Ledger) depositDT(ctx context.Context, op ports.Operation) error {
	var exchange *domain.Exchange
	if err := l.repo.ExchangeRepository().UpdateExchange(
		ctx, op.ExchangeID, func(e *domain.Exchange) (*domain.Exchange, error) {
			if err := e.DepositDT(op.Caller, op.Amount); err != nil {
				return nil, err
			}
			exchange = e
			return e, nil
		},
	); err != nil {
		return err
	}

	return l.transfer(
		ctx, exchange.DataToken, op.Caller, EscrowAddress(exchange.ID), op.Amount,
	)
}

func (l *Ledger) collect(ctx context.Context, op ports.Operation) (*big.Int, error) {
	var token, to common.Address
	var amount *big.Int
	var id domain.ExchangeID

	if err := l.repo.ExchangeRepository().UpdateExchange(
		ctx, op.ExchangeID, func(e *domain.Exchange) (*domain.Exchange, error) {
			var err error
			switch op.Kind {
			case ports.OpCollectMarketFee:
				token, to = e.BaseToken, e.Fees.MarketFeeCollector
				amount, err = e.CollectMarketFee(op.Caller)
			case ports.OpCollectProtocolFee:
				token, to = e.BaseToken, l.protocolFeeCollector
				amount = e.CollectProtocolFee()
			case ports.OpCollectBT:
				token, to, amount = e.BaseToken, e.Owner, mathutil.Copy(op.Amount)
				err = e.CollectBT(op.Caller, op.Amount)
			case ports.OpCollectDT:
				token, to, amount = e.DataToken, e.Owner, mathutil.Copy(op.Amount)
				err = e.CollectDT(op.Caller, op.Amount)
			}
			if err != nil {
				return nil, err
			}
			id = e.ID
			return e, nil
		},
	); err != nil {
		return nil, err
	}

	if amount.Sign() > 0 {
		if err := l.transfer(ctx, token, EscrowAddress(id), to, amount); err != nil {
			return nil, err
		}
	}
	return amount, nil
}

func (l *Ledger) updateExchange(
	ctx context.Context, op ports.Operation, fn func(e *domain.Exchange) error,
) error {
	return l.repo.ExchangeRepository().UpdateExchange(
		ctx, op.ExchangeID, func(e *domain.Exchange) (*domain.Exchange, error) {
			if err := fn(e); err != nil {
				return nil, err
			}
			return e, nil
		},
	)
}
