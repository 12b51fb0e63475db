// Package local implements an in-process exchange ledger on top of a
// RepoManager. It executes every operation with the same domain rules used
// by the application layer and keeps track of token balances, so that the
// whole system can run without any external collaborator.
package local

import (
	"context"
	"encoding/binary"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

var (
	// ErrCostLimitExceeded ...
	ErrCostLimitExceeded = errors.New("operation cost exceeds the given limit")
	// ErrInvalidUnitPrice ...
	ErrInvalidUnitPrice = errors.New("unit price must be greater than zero")
	// ErrUnsupportedOperation ...
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrMissingCreateArgs ...
	ErrMissingCreateArgs = errors.New("missing exchange creation args")
	// ErrMissingProtocolFeeCollector ...
	ErrMissingProtocolFeeCollector = errors.New("missing protocol fee collector")
)

var defaultCosts = map[ports.OperationKind]uint64{
	ports.OpCreateExchange:           250000,
	ports.OpBuy:                      160000,
	ports.OpSell:                     160000,
	ports.OpSetRate:                  40000,
	ports.OpSetActive:                35000,
	ports.OpSetMint:                  35000,
	ports.OpSetAllowedSwapper:        40000,
	ports.OpCollectMarketFee:         70000,
	ports.OpCollectProtocolFee:       70000,
	ports.OpCollectBT:                70000,
	ports.OpCollectDT:                70000,
	ports.OpDepositDT:                70000,
	ports.OpUpdateMarketFee:          40000,
	ports.OpUpdateMarketFeeCollector: 40000,
}

// Config ...
type Config struct {
	ProtocolFee          decimal.Decimal
	ProtocolFeeCollector common.Address
	// Costs overrides the resource units consumed by the given operations.
	Costs map[ports.OperationKind]uint64
}

// Ledger is the reference implementation of ports.Ledger. It also serves as
// ports.CostEstimator and ports.TokenMetadata.
type Ledger struct {
	repo  ports.RepoManager
	costs map[ports.OperationKind]uint64

	protocolFee          decimal.Decimal
	protocolFeeCollector common.Address

	lock  *sync.Mutex
	block uint64
}

func NewLedger(repo ports.RepoManager, cfg Config) (*Ledger, error) {
	if !mathutil.IsValidFeeFraction(cfg.ProtocolFee) {
		return nil, domain.ErrInvalidFee
	}
	if cfg.ProtocolFeeCollector == (common.Address{}) {
		return nil, ErrMissingProtocolFeeCollector
	}

	costs := make(map[ports.OperationKind]uint64, len(defaultCosts))
	for k, v := range defaultCosts {
		costs[k] = v
	}
	for k, v := range cfg.Costs {
		costs[k] = v
	}

	block, err := repo.EventRepository().LastBlockNumber(context.Background())
	if err != nil {
		return nil, err
	}

	return &Ledger{
		repo:                 repo,
		costs:                costs,
		protocolFee:          cfg.ProtocolFee,
		protocolFeeCollector: cfg.ProtocolFeeCollector,
		lock:                 &sync.Mutex{},
		block:                block,
	}, nil
}

// EscrowAddress returns the account holding the tokens of an exchange.
func EscrowAddress(id domain.ExchangeID) common.Address {
	return common.BytesToAddress(crypto.Keccak256(id[:]))
}

func (l *Ledger) GetExchange(
	ctx context.Context, id domain.ExchangeID,
) (*domain.Exchange, error) {
	return l.repo.ExchangeRepository().GetExchange(ctx, id)
}

func (l *Ledger) GetExchanges(
	ctx context.Context, filter domain.ExchangeFilter, page domain.Page,
) ([]domain.Exchange, error) {
	return l.repo.ExchangeRepository().GetExchanges(ctx, filter, &page)
}

func (l *Ledger) CountExchanges(
	ctx context.Context, filter domain.ExchangeFilter,
) (int, error) {
	return l.repo.ExchangeRepository().CountExchanges(ctx, filter)
}

func (l *Ledger) BalanceOf(
	ctx context.Context, token, holder common.Address,
) (*big.Int, error) {
	return l.repo.TokenRepository().GetBalance(ctx, token, holder)
}

func (l *Ledger) FilterEvents(
	ctx context.Context, query domain.EventQuery,
) ([]domain.Event, error) {
	return l.repo.EventRepository().GetEvents(ctx, query)
}

func (l *Ledger) BlockNumber(_ context.Context) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.block, nil
}

func (l *Ledger) EstimateCost(_ context.Context, op ports.Operation) (uint64, error) {
	cost, ok := l.costs[op.Kind]
	if !ok {
		return 0, ErrUnsupportedOperation
	}
	return cost, nil
}

// Decimals returns the decimals of a registered token.
func (l *Ledger) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	t, err := l.repo.TokenRepository().GetToken(ctx, token)
	if err != nil {
		return 0, err
	}
	return t.Decimals, nil
}

// Submit executes the operation in a single block. Either every effect of the
// operation is applied or none is.
func (l *Ledger) Submit(
	ctx context.Context, op ports.Operation, opts ports.SubmitOpts,
) (*ports.Receipt, error) {
	if opts.UnitPrice == nil || opts.UnitPrice.Sign() <= 0 {
		return nil, ErrInvalidUnitPrice
	}
	cost, err := l.EstimateCost(ctx, op)
	if err != nil {
		return nil, err
	}
	if opts.CostLimit < cost {
		return nil, ErrCostLimitExceeded
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	blk := &block{
		number:    l.block + 1,
		timestamp: time.Now().UTC(),
	}
	blk.txHash = txHash(blk.number, op)

	res, err := l.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			amount, err := l.apply(ctx, blk, op)
			if err != nil {
				return nil, err
			}
			if err := l.repo.EventRepository().AddEvents(
				ctx, blk.events...,
			); err != nil {
				return nil, err
			}
			return amount, nil
		},
	)
	if err != nil {
		return nil, err
	}
	l.block = blk.number

	receipt := &ports.Receipt{
		TxHash:      blk.txHash,
		BlockNumber: blk.number,
		CostUsed:    cost,
		Events:      blk.events,
	}
	if amount, ok := res.(*big.Int); ok {
		receipt.Amount = amount
	}

	log.WithFields(log.Fields{
		"op":       op.Kind.String(),
		"exchange": op.ExchangeID.Hex(),
		"block":    blk.number,
	}).Debug("operation applied")

	return receipt, nil
}

// block collects the events emitted while applying an operation.
type block struct {
	number    uint64
	timestamp time.Time
	txHash    common.Hash
	events    []domain.Event
}

func (b *block) emit(ev domain.Event) {
	ev.BlockNumber = b.number
	ev.LogIndex = uint(len(b.events))
	ev.TxHash = b.txHash
	ev.Timestamp = b.timestamp
	if ev.Swap != nil {
		ev.Swap.BlockNumber = ev.BlockNumber
		ev.Swap.LogIndex = ev.LogIndex
		ev.Swap.TxHash = ev.TxHash
		ev.Swap.Timestamp = ev.Timestamp
	}
	b.events = append(b.events, ev)
}

func txHash(blockNumber uint64, op ports.Operation) common.Hash {
	buf := binary.BigEndian.AppendUint64(nil, blockNumber)
	buf = binary.BigEndian.AppendUint64(buf, uint64(op.Kind))
	return crypto.Keccak256Hash(buf, op.Caller.Bytes(), op.ExchangeID[:])
}
