package application

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/pkg/circuitbreaker"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// ExchangeService defines the methods of the application layer for the fixed
// rate exchanges. Amounts are human readable. Those of an existing exchange
// are converted to base units with the decimals stored in its record.
type ExchangeService interface {
	CreateExchange(
		ctx context.Context, owner common.Address, args CreateExchangeArgs,
	) (*CreateResult, error)
	GetExchange(ctx context.Context, id domain.ExchangeID) (*domain.Exchange, error)
	ListExchanges(filter ListFilter) *ExchangeCursor
	CountExchanges(ctx context.Context) (int, error)
	SearchDataToken(
		ctx context.Context, dataToken common.Address, minSupply decimal.Decimal,
	) ([]domain.Exchange, error)
	GetFeesInfo(ctx context.Context, id domain.ExchangeID) (*FeesInfo, error)

	QuoteBaseIn(
		ctx context.Context, id domain.ExchangeID, dtAmountOut decimal.Decimal,
	) (*QuoteResult, error)
	QuoteBaseOut(
		ctx context.Context, id domain.ExchangeID, dtAmountIn decimal.Decimal,
	) (*QuoteResult, error)
	// Buy buys data token paying at most maxBaseAmount, zero means no limit.
	Buy(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		dtAmountOut, maxBaseAmount decimal.Decimal,
	) (*SwapResult, error)
	// Sell sells data token receiving at least minBaseAmount.
	Sell(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		dtAmountIn, minBaseAmount decimal.Decimal,
	) (*SwapResult, error)

	SetRate(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		rate decimal.Decimal,
	) (*WriteResult, error)
	ToggleActive(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		active bool,
	) (*WriteResult, error)
	ToggleMint(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		withMint bool,
	) (*WriteResult, error)
	SetAllowedSwapper(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		swapper common.Address,
	) (*WriteResult, error)
	DepositDT(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		amount decimal.Decimal,
	) (*WriteResult, error)

	CollectMarketFee(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
	) (*CollectResult, error)
	CollectProtocolFee(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
	) (*CollectResult, error)
	CollectBT(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		amount decimal.Decimal,
	) (*CollectResult, error)
	CollectDT(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		amount decimal.Decimal,
	) (*CollectResult, error)
	UpdateMarketFee(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		fee decimal.Decimal,
	) (*WriteResult, error)
	UpdateMarketFeeCollector(
		ctx context.Context, caller common.Address, id domain.ExchangeID,
		collector common.Address,
	) (*WriteResult, error)

	// GetSwapHistory returns the swaps of an exchange, optionally only those
	// made by account.
	GetSwapHistory(
		ctx context.Context, id domain.ExchangeID, account *common.Address,
	) ([]domain.Swap, error)
	// GetAccountSwaps returns the swaps made by account on any exchange.
	GetAccountSwaps(
		ctx context.Context, account common.Address,
	) ([]domain.Swap, error)
	BalanceOf(
		ctx context.Context, token, holder common.Address,
	) (*Amount, error)

	Close()
}

// ServiceParams holds the process wide settings of the exchange service.
type ServiceParams struct {
	// DefaultCostLimit is used when cost estimation fails.
	DefaultCostLimit uint64
	// DefaultTokenDecimals is used when token decimals can't be retrieved.
	DefaultTokenDecimals uint8
	ProtocolFee          decimal.Decimal
	ProtocolFeeCollector common.Address
	HistoryConcurrency   int
	// HistoryRateLimit is the max number of event lookups per second, zero
	// means unlimited.
	HistoryRateLimit int
	// HistoryCacheTTL zero disables the history cache.
	HistoryCacheTTL time.Duration
	Registerer      prometheus.Registerer
}

func (p ServiceParams) validate() error {
	if p.DefaultCostLimit == 0 {
		return ErrInvalidDefaultCostLimit
	}
	if !mathutil.IsValidFeeFraction(p.ProtocolFee) {
		return domain.ErrInvalidFee
	}
	if p.ProtocolFeeCollector == (common.Address{}) {
		return ErrMissingProtocolFeeCollector
	}
	if p.HistoryConcurrency <= 0 {
		return ErrInvalidHistoryConcurrency
	}
	return nil
}

type exchangeService struct {
	ledger    ports.Ledger
	breaker   *circuitbreaker.Breaker
	converter *unitConverter
	writer    *resilientWriter
	history   *swapHistory
	params    ServiceParams
}

// NewExchangeService is a constructor function for ExchangeService. The cost
// estimator and the token metadata collaborators are optional.
func NewExchangeService(
	ledger ports.Ledger,
	estimator ports.CostEstimator,
	oracle ports.FairPriceOracle,
	tokens ports.TokenMetadata,
	params ServiceParams,
) (ExchangeService, error) {
	if ledger == nil {
		return nil, ErrMissingLedger
	}
	if oracle == nil {
		return nil, ErrMissingFairPriceOracle
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	breaker := circuitbreaker.New("ledger", domain.ErrExchangeNotFound)
	history, err := newSwapHistory(
		ledger, breaker, params.HistoryConcurrency, params.HistoryRateLimit,
		params.HistoryCacheTTL,
	)
	if err != nil {
		return nil, err
	}

	return &exchangeService{
		ledger:    ledger,
		breaker:   breaker,
		converter: newUnitConverter(tokens, params.DefaultTokenDecimals),
		writer: &resilientWriter{
			ledger:           ledger,
			estimator:        estimator,
			oracle:           oracle,
			defaultCostLimit: params.DefaultCostLimit,
			metrics:          newWriteMetrics(params.Registerer),
		},
		history: history,
		params:  params,
	}, nil
}

func (s *exchangeService) CreateExchange(
	ctx context.Context, owner common.Address, args CreateExchangeArgs,
) (*CreateResult, error) {
	if args.DTMintCap.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	createArgs := domain.ExchangeArgs{
		Owner:              owner,
		BaseToken:          args.BaseToken,
		DataToken:          args.DataToken,
		Rate:               args.Rate,
		MarketFee:          args.MarketFee,
		MarketFeeCollector: args.MarketFeeCollector,
		AllowedSwapper:     args.AllowedSwapper,
		WithMint:           args.WithMint,
	}
	// Validate locally so that bad input never reaches any collaborator.
	exchange, err := domain.NewExchange(createArgs)
	if err != nil {
		return nil, err
	}

	createArgs.BaseDecimals = s.converter.tokenDecimals(ctx, args.BaseToken)
	createArgs.DataDecimals = s.converter.tokenDecimals(ctx, args.DataToken)
	createArgs.DTMintCap = mathutil.ToBaseUnits(
		createArgs.DataDecimals, args.DTMintCap,
	)
	if !mathutil.FitsUint256(createArgs.DTMintCap) {
		return nil, domain.ErrAmountOverflow
	}

	if _, err := s.getExchange(ctx, exchange.ID); err == nil {
		return nil, domain.ErrExchangeAlreadyExists
	} else if !errors.Is(err, domain.ErrExchangeNotFound) {
		return nil, err
	}

	res, err := s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpCreateExchange,
		Caller:     owner,
		ExchangeID: exchange.ID,
		CreateArgs: &createArgs,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"exchange":   exchange.ID.Hex(),
		"base_token": args.BaseToken.Hex(),
		"data_token": args.DataToken.Hex(),
		"rate":       args.Rate.String(),
	}).Info("exchange created")

	return &CreateResult{WriteResult: *res, ExchangeID: exchange.ID}, nil
}

func (s *exchangeService) GetExchange(
	ctx context.Context, id domain.ExchangeID,
) (*domain.Exchange, error) {
	return s.getExchange(ctx, id)
}

func (s *exchangeService) ListExchanges(filter ListFilter) *ExchangeCursor {
	return newExchangeCursor(s.ledger, s.breaker, filter)
}

func (s *exchangeService) CountExchanges(ctx context.Context) (int, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.ledger.CountExchanges(ctx, domain.ExchangeFilter{})
	})
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

func (s *exchangeService) SearchDataToken(
	ctx context.Context, dataToken common.Address, minSupply decimal.Decimal,
) ([]domain.Exchange, error) {
	return s.ListExchanges(ListFilter{
		DataToken:  &dataToken,
		MinSupply:  &minSupply,
		ActiveOnly: true,
	}).All(ctx)
}

func (s *exchangeService) GetFeesInfo(
	ctx context.Context, id domain.ExchangeID,
) (*FeesInfo, error) {
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FeesInfo{
		ExchangeID:         id,
		MarketFee:          exchange.Fees.MarketFee,
		MarketFeeCollector: exchange.Fees.MarketFeeCollector,
		MarketFeeAvailable: newAmount(
			exchange.BaseDecimals, exchange.Fees.MarketFeeAvailable,
		),
		ProtocolFee:          s.params.ProtocolFee,
		ProtocolFeeCollector: s.params.ProtocolFeeCollector,
		ProtocolFeeAvailable: newAmount(
			exchange.BaseDecimals, exchange.Fees.ProtocolFeeAvailable,
		),
	}, nil
}

func (s *exchangeService) QuoteBaseIn(
	ctx context.Context, id domain.ExchangeID, dtAmountOut decimal.Decimal,
) (*QuoteResult, error) {
	if dtAmountOut.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}

	units := mathutil.ToBaseUnits(exchange.DataDecimals, dtAmountOut)
	quote, err := exchange.CalcBaseInGivenOutDT(units, s.params.ProtocolFee)
	if err != nil {
		return nil, err
	}
	return quoteResult(exchange, quote), nil
}

func (s *exchangeService) QuoteBaseOut(
	ctx context.Context, id domain.ExchangeID, dtAmountIn decimal.Decimal,
) (*QuoteResult, error) {
	if dtAmountIn.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}

	units := mathutil.ToBaseUnits(exchange.DataDecimals, dtAmountIn)
	quote, err := exchange.CalcBaseOutGivenInDT(units, s.params.ProtocolFee)
	if err != nil {
		return nil, err
	}
	return quoteResult(exchange, quote), nil
}

func (s *exchangeService) Buy(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	dtAmountOut, maxBaseAmount decimal.Decimal,
) (*SwapResult, error) {
	if !dtAmountOut.IsPositive() || maxBaseAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}

	units := mathutil.ToBaseUnits(exchange.DataDecimals, dtAmountOut)
	// Dry run against the snapshot to reject swaps the ledger would reject.
	quote, err := exchange.ExecuteBuy(caller, units, s.params.ProtocolFee)
	if err != nil {
		return nil, err
	}

	var baseLimit *big.Int
	if maxBaseAmount.IsPositive() {
		baseLimit = mathutil.ToBaseUnits(exchange.BaseDecimals, maxBaseAmount)
		if quote.Total.Cmp(baseLimit) > 0 {
			return nil, domain.ErrSlippageExceeded
		}
	}

	res, err := s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpBuy,
		Caller:     caller,
		ExchangeID: id,
		Amount:     units,
		BaseLimit:  baseLimit,
	})
	if err != nil {
		return nil, err
	}

	return &SwapResult{
		WriteResult: *res,
		Quote:       *quoteResult(exchange, quote),
		Swap:        swapFromReceipt(res.Receipt),
	}, nil
}

func (s *exchangeService) Sell(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	dtAmountIn, minBaseAmount decimal.Decimal,
) (*SwapResult, error) {
	if !dtAmountIn.IsPositive() || minBaseAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}

	units := mathutil.ToBaseUnits(exchange.DataDecimals, dtAmountIn)
	quote, err := exchange.ExecuteSell(caller, units, s.params.ProtocolFee)
	if err != nil {
		return nil, err
	}

	var baseLimit *big.Int
	if minBaseAmount.IsPositive() {
		baseLimit = mathutil.ToBaseUnits(exchange.BaseDecimals, minBaseAmount)
		if quote.Total.Cmp(baseLimit) < 0 {
			return nil, domain.ErrSlippageExceeded
		}
	}

	res, err := s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpSell,
		Caller:     caller,
		ExchangeID: id,
		Amount:     units,
		BaseLimit:  baseLimit,
	})
	if err != nil {
		return nil, err
	}

	return &SwapResult{
		WriteResult: *res,
		Quote:       *quoteResult(exchange, quote),
		Swap:        swapFromReceipt(res.Receipt),
	}, nil
}

func (s *exchangeService) SetRate(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	rate decimal.Decimal,
) (*WriteResult, error) {
	if !rate.IsPositive() {
		return nil, domain.ErrInvalidRate
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := exchange.SetRate(caller, rate); err != nil {
		return nil, err
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpSetRate,
		Caller:     caller,
		ExchangeID: id,
		Rate:       rate,
	})
}

func (s *exchangeService) ToggleActive(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	active bool,
) (*WriteResult, error) {
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := exchange.SetActive(caller, active)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.writer.unchanged(ports.OpSetActive), nil
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpSetActive,
		Caller:     caller,
		ExchangeID: id,
		Flag:       active,
	})
}

func (s *exchangeService) ToggleMint(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	withMint bool,
) (*WriteResult, error) {
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := exchange.SetMint(caller, withMint)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.writer.unchanged(ports.OpSetMint), nil
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpSetMint,
		Caller:     caller,
		ExchangeID: id,
		Flag:       withMint,
	})
}

func (s *exchangeService) SetAllowedSwapper(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	swapper common.Address,
) (*WriteResult, error) {
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := exchange.SetAllowedSwapper(caller, swapper)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.writer.unchanged(ports.OpSetAllowedSwapper), nil
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpSetAllowedSwapper,
		Caller:     caller,
		ExchangeID: id,
		Address:    swapper,
	})
}

func (s *exchangeService) DepositDT(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	amount decimal.Decimal,
) (*WriteResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	units := mathutil.ToBaseUnits(exchange.DataDecimals, amount)
	if err := exchange.DepositDT(caller, units); err != nil {
		return nil, err
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpDepositDT,
		Caller:     caller,
		ExchangeID: id,
		Amount:     units,
	})
}

func (s *exchangeService) CollectMarketFee(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
) (*CollectResult, error) {
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	available, err := exchange.CollectMarketFee(caller)
	if err != nil {
		return nil, err
	}

	return s.collect(ctx, exchange, exchange.BaseDecimals, available, ports.Operation{
		Kind:       ports.OpCollectMarketFee,
		Caller:     caller,
		ExchangeID: id,
	})
}

func (s *exchangeService) CollectProtocolFee(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
) (*CollectResult, error) {
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	available := exchange.CollectProtocolFee()

	return s.collect(ctx, exchange, exchange.BaseDecimals, available, ports.Operation{
		Kind:       ports.OpCollectProtocolFee,
		Caller:     caller,
		ExchangeID: id,
	})
}

func (s *exchangeService) CollectBT(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	amount decimal.Decimal,
) (*CollectResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	units := mathutil.ToBaseUnits(exchange.BaseDecimals, amount)
	if err := exchange.CollectBT(caller, units); err != nil {
		return nil, err
	}

	return s.collect(ctx, exchange, exchange.BaseDecimals, units, ports.Operation{
		Kind:       ports.OpCollectBT,
		Caller:     caller,
		ExchangeID: id,
		Amount:     units,
	})
}

func (s *exchangeService) CollectDT(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	amount decimal.Decimal,
) (*CollectResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	units := mathutil.ToBaseUnits(exchange.DataDecimals, amount)
	if err := exchange.CollectDT(caller, units); err != nil {
		return nil, err
	}

	return s.collect(ctx, exchange, exchange.DataDecimals, units, ports.Operation{
		Kind:       ports.OpCollectDT,
		Caller:     caller,
		ExchangeID: id,
		Amount:     units,
	})
}

func (s *exchangeService) UpdateMarketFee(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	fee decimal.Decimal,
) (*WriteResult, error) {
	if !mathutil.IsValidFeeFraction(fee) {
		return nil, domain.ErrInvalidFee
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := exchange.UpdateMarketFee(caller, fee); err != nil {
		return nil, err
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpUpdateMarketFee,
		Caller:     caller,
		ExchangeID: id,
		Fee:        fee,
	})
}

func (s *exchangeService) UpdateMarketFeeCollector(
	ctx context.Context, caller common.Address, id domain.ExchangeID,
	collector common.Address,
) (*WriteResult, error) {
	if collector == (common.Address{}) {
		return nil, domain.ErrInvalidAddress
	}
	exchange, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := exchange.UpdateMarketFeeCollector(caller, collector); err != nil {
		return nil, err
	}

	return s.writer.write(ctx, ports.Operation{
		Kind:       ports.OpUpdateMarketFeeCollector,
		Caller:     caller,
		ExchangeID: id,
		Address:    collector,
	})
}

func (s *exchangeService) GetSwapHistory(
	ctx context.Context, id domain.ExchangeID, account *common.Address,
) ([]domain.Swap, error) {
	if _, err := s.getExchange(ctx, id); err != nil {
		return nil, err
	}
	return s.history.exchangeSwaps(ctx, id, account)
}

func (s *exchangeService) GetAccountSwaps(
	ctx context.Context, account common.Address,
) ([]domain.Swap, error) {
	exchanges, err := s.ListExchanges(ListFilter{}).All(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]domain.ExchangeID, 0, len(exchanges))
	for _, e := range exchanges {
		ids = append(ids, e.ID)
	}
	return s.history.swapsOf(ctx, ids, &account)
}

func (s *exchangeService) BalanceOf(
	ctx context.Context, token, holder common.Address,
) (*Amount, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.ledger.BalanceOf(ctx, token, holder)
	})
	if err != nil {
		return nil, err
	}
	amount := s.amount(ctx, token, res.(*big.Int))
	return &amount, nil
}

func (s *exchangeService) Close() {
	s.history.close()
}

func (s *exchangeService) getExchange(
	ctx context.Context, id domain.ExchangeID,
) (*domain.Exchange, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.ledger.GetExchange(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	exchange, ok := res.(*domain.Exchange)
	if !ok || exchange == nil {
		return nil, domain.ErrExchangeNotFound
	}
	return exchange, nil
}

// collect submits a collect operation unless there's nothing to collect.
// Amounts are expressed with the given decimals.
func (s *exchangeService) collect(
	ctx context.Context, exchange *domain.Exchange, decimals uint8,
	available *big.Int, op ports.Operation,
) (*CollectResult, error) {
	if available.Sign() == 0 {
		return &CollectResult{
			WriteResult: *s.writer.unchanged(op.Kind),
			Amount:      newAmount(decimals, available),
		}, nil
	}

	res, err := s.writer.write(ctx, op)
	if err != nil {
		return nil, err
	}

	collected := available
	if res.Receipt != nil && res.Receipt.Amount != nil {
		collected = res.Receipt.Amount
	}
	log.WithFields(log.Fields{
		"exchange": exchange.ID.Hex(),
		"op":       op.Kind.String(),
		"amount":   collected.String(),
	}).Debug("collected")

	return &CollectResult{
		WriteResult: *res,
		Amount:      newAmount(decimals, collected),
	}, nil
}

// amount converts with the decimals resolved for the token. Only used where
// no exchange record is at hand.
func (s *exchangeService) amount(
	ctx context.Context, token common.Address, units *big.Int,
) Amount {
	return newAmount(s.converter.tokenDecimals(ctx, token), units)
}

func newAmount(decimals uint8, units *big.Int) Amount {
	return Amount{
		Units: mathutil.Copy(units),
		Human: mathutil.ToHumanAmount(decimals, units),
	}
}

// quoteResult expresses the quote with the decimals stored in the exchange
// record, the same ones the pricing engine scaled the rate with.
func quoteResult(exchange *domain.Exchange, q *domain.Quote) *QuoteResult {
	return &QuoteResult{
		ExchangeID:        exchange.ID,
		Direction:         q.Direction,
		DataTokenAmount:   newAmount(exchange.DataDecimals, q.DataTokenAmount),
		BaseTokenAmount:   newAmount(exchange.BaseDecimals, q.BaseTokenAmount),
		MarketFeeAmount:   newAmount(exchange.BaseDecimals, q.MarketFeeAmount),
		ProtocolFeeAmount: newAmount(exchange.BaseDecimals, q.ProtocolFeeAmount),
		Total:             newAmount(exchange.BaseDecimals, q.Total),
	}
}

func swapFromReceipt(receipt *ports.Receipt) *domain.Swap {
	if receipt == nil {
		return nil
	}
	for _, ev := range receipt.Events {
		if ev.Kind == domain.EventSwapped && ev.Swap != nil {
			return ev.Swap
		}
	}
	return nil
}
