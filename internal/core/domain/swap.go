package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// Swap is the record of an executed swap. Amounts are in base units.
type Swap struct {
	ExchangeID ExchangeID
	Caller     common.Address
	Direction  SwapDirection
	// BaseTokenAmount is what the buyer paid or the seller received, fees
	// included for the former and excluded for the latter.
	BaseTokenAmount   *big.Int
	DataTokenAmount   *big.Int
	MarketFeeAmount   *big.Int
	ProtocolFeeAmount *big.Int
	BlockNumber       uint64
	LogIndex          uint
	TxHash            common.Hash
	Timestamp         time.Time
}

// NewSwapFromQuote returns the record of a swap executed with the given
// quote.
func NewSwapFromQuote(id ExchangeID, caller common.Address, q *Quote) *Swap {
	return &Swap{
		ExchangeID:        id,
		Caller:            caller,
		Direction:         q.Direction,
		BaseTokenAmount:   q.Total,
		DataTokenAmount:   q.DataTokenAmount,
		MarketFeeAmount:   q.MarketFeeAmount,
		ProtocolFeeAmount: q.ProtocolFeeAmount,
	}
}

// Clone returns a deep copy of the swap.
func (s *Swap) Clone() *Swap {
	if s == nil {
		return nil
	}
	c := *s
	c.BaseTokenAmount = mathutil.Copy(s.BaseTokenAmount)
	c.DataTokenAmount = mathutil.Copy(s.DataTokenAmount)
	c.MarketFeeAmount = mathutil.Copy(s.MarketFeeAmount)
	c.ProtocolFeeAmount = mathutil.Copy(s.ProtocolFeeAmount)
	return &c
}

// EventKind ...
type EventKind int

const (
	EventExchangeCreated EventKind = iota + 1
	EventSwapped
)

func (k EventKind) String() string {
	switch k {
	case EventExchangeCreated:
		return "EXCHANGE_CREATED"
	case EventSwapped:
		return "SWAPPED"
	default:
		return "UNKNOWN"
	}
}

// ExchangeCreated is the payload of an EventExchangeCreated event.
type ExchangeCreated struct {
	Owner     common.Address
	BaseToken common.Address
	DataToken common.Address
	Rate      decimal.Decimal
}

// Event is a ledger log entry. Exactly one of Created and Swap is set,
// depending on the kind.
type Event struct {
	Kind        EventKind
	ExchangeID  ExchangeID
	BlockNumber uint64
	LogIndex    uint
	TxHash      common.Hash
	Timestamp   time.Time
	Created     *ExchangeCreated
	Swap        *Swap
}

// Less returns whether the event comes before the other one in the log.
func (e Event) Less(other Event) bool {
	if e.BlockNumber != other.BlockNumber {
		return e.BlockNumber < other.BlockNumber
	}
	return e.LogIndex < other.LogIndex
}

// EventQuery filters ledger events. Zero values match everything, ToBlock
// zero means up to the latest block.
type EventQuery struct {
	Kinds      []EventKind
	ExchangeID *ExchangeID
	Caller     *common.Address
	FromBlock  uint64
	ToBlock    uint64
}

// Match returns whether the event satisfies the query.
func (q EventQuery) Match(ev Event) bool {
	if len(q.Kinds) > 0 {
		found := false
		for _, k := range q.Kinds {
			if k == ev.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.ExchangeID != nil && *q.ExchangeID != ev.ExchangeID {
		return false
	}
	if q.Caller != nil {
		if ev.Swap == nil || ev.Swap.Caller != *q.Caller {
			return false
		}
	}
	if ev.BlockNumber < q.FromBlock {
		return false
	}
	if q.ToBlock > 0 && ev.BlockNumber > q.ToBlock {
		return false
	}
	return true
}
