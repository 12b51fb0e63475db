package dbbadger

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// Records are the persisted shape of the domain entities. Addresses, hashes
// and amounts are stored as strings so that they can be queried.

type exchangeRecord struct {
	ID                   string
	Position             uint64
	Owner                string `badgerhold:"index"`
	BaseToken            string
	DataToken            string `badgerhold:"index"`
	BaseDecimals         uint8
	DataDecimals         uint8
	Rate                 string
	Active               bool
	WithMint             bool
	AllowedSwapper       string
	DTBalance            string
	BTBalance            string
	DTMintCap            string
	MarketFee            string
	MarketFeeCollector   string
	MarketFeeAvailable   string
	ProtocolFeeAvailable string
	CreatedAt            int64
}

type eventRecord struct {
	Kind        int
	ExchangeID  string `badgerhold:"index"`
	BlockNumber uint64
	LogIndex    uint
	TxHash      string
	Timestamp   int64

	Owner     string
	BaseToken string
	DataToken string
	Rate      string

	Caller            string
	Direction         int
	BaseTokenAmount   string
	DataTokenAmount   string
	MarketFeeAmount   string
	ProtocolFeeAmount string
}

type tokenRecord struct {
	Address     string
	Symbol      string
	Decimals    uint8
	Minter      string
	TotalSupply string
}

type balanceRecord struct {
	Token  string
	Holder string
	Amount string
}

func toExchangeRecord(e *domain.Exchange, position uint64) exchangeRecord {
	return exchangeRecord{
		ID:                   e.ID.Hex(),
		Position:             position,
		Owner:                e.Owner.Hex(),
		BaseToken:            e.BaseToken.Hex(),
		DataToken:            e.DataToken.Hex(),
		BaseDecimals:         e.BaseDecimals,
		DataDecimals:         e.DataDecimals,
		Rate:                 e.Rate.String(),
		Active:               e.State.Active,
		WithMint:             e.State.WithMint,
		AllowedSwapper:       e.State.AllowedSwapper.Hex(),
		DTBalance:            mathutil.Copy(e.DTBalance).String(),
		BTBalance:            mathutil.Copy(e.BTBalance).String(),
		DTMintCap:            mathutil.Copy(e.DTMintCap).String(),
		MarketFee:            e.Fees.MarketFee.String(),
		MarketFeeCollector:   e.Fees.MarketFeeCollector.Hex(),
		MarketFeeAvailable:   mathutil.Copy(e.Fees.MarketFeeAvailable).String(),
		ProtocolFeeAvailable: mathutil.Copy(e.Fees.ProtocolFeeAvailable).String(),
		CreatedAt:            e.CreatedAt.UnixNano(),
	}
}

func (r exchangeRecord) toDomain() (*domain.Exchange, error) {
	id, err := domain.ExchangeIDFromHex(r.ID)
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(r.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate for exchange %s: %w", r.ID, err)
	}
	marketFee, err := decimal.NewFromString(r.MarketFee)
	if err != nil {
		return nil, fmt.Errorf("invalid market fee for exchange %s: %w", r.ID, err)
	}
	amounts, err := parseAmounts(
		r.DTBalance, r.BTBalance, r.DTMintCap,
		r.MarketFeeAvailable, r.ProtocolFeeAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid amounts for exchange %s: %w", r.ID, err)
	}

	return &domain.Exchange{
		ID:           id,
		Owner:        common.HexToAddress(r.Owner),
		BaseToken:    common.HexToAddress(r.BaseToken),
		DataToken:    common.HexToAddress(r.DataToken),
		BaseDecimals: r.BaseDecimals,
		DataDecimals: r.DataDecimals,
		Rate:         rate,
		State: domain.State{
			Active:         r.Active,
			WithMint:       r.WithMint,
			AllowedSwapper: common.HexToAddress(r.AllowedSwapper),
		},
		DTBalance: amounts[0],
		BTBalance: amounts[1],
		DTMintCap: amounts[2],
		Fees: domain.FeeInfo{
			MarketFee:            marketFee,
			MarketFeeCollector:   common.HexToAddress(r.MarketFeeCollector),
			MarketFeeAvailable:   amounts[3],
			ProtocolFeeAvailable: amounts[4],
		},
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}, nil
}

func eventKey(blockNumber uint64, logIndex uint) string {
	return fmt.Sprintf("%020d:%010d", blockNumber, logIndex)
}

func toEventRecord(ev domain.Event) eventRecord {
	r := eventRecord{
		Kind:        int(ev.Kind),
		ExchangeID:  ev.ExchangeID.Hex(),
		BlockNumber: ev.BlockNumber,
		LogIndex:    ev.LogIndex,
		TxHash:      ev.TxHash.Hex(),
		Timestamp:   ev.Timestamp.UnixNano(),
	}
	if c := ev.Created; c != nil {
		r.Owner = c.Owner.Hex()
		r.BaseToken = c.BaseToken.Hex()
		r.DataToken = c.DataToken.Hex()
		r.Rate = c.Rate.String()
	}
	if s := ev.Swap; s != nil {
		r.Caller = s.Caller.Hex()
		r.Direction = int(s.Direction)
		r.BaseTokenAmount = mathutil.Copy(s.BaseTokenAmount).String()
		r.DataTokenAmount = mathutil.Copy(s.DataTokenAmount).String()
		r.MarketFeeAmount = mathutil.Copy(s.MarketFeeAmount).String()
		r.ProtocolFeeAmount = mathutil.Copy(s.ProtocolFeeAmount).String()
	}
	return r
}

func (r eventRecord) toDomain() (*domain.Event, error) {
	id, err := domain.ExchangeIDFromHex(r.ExchangeID)
	if err != nil {
		return nil, err
	}
	ev := &domain.Event{
		Kind:        domain.EventKind(r.Kind),
		ExchangeID:  id,
		BlockNumber: r.BlockNumber,
		LogIndex:    r.LogIndex,
		TxHash:      common.HexToHash(r.TxHash),
		Timestamp:   time.Unix(0, r.Timestamp).UTC(),
	}

	switch ev.Kind {
	case domain.EventExchangeCreated:
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate for event %s: %w", r.TxHash, err)
		}
		ev.Created = &domain.ExchangeCreated{
			Owner:     common.HexToAddress(r.Owner),
			BaseToken: common.HexToAddress(r.BaseToken),
			DataToken: common.HexToAddress(r.DataToken),
			Rate:      rate,
		}
	case domain.EventSwapped:
		amounts, err := parseAmounts(
			r.BaseTokenAmount, r.DataTokenAmount,
			r.MarketFeeAmount, r.ProtocolFeeAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("invalid amounts for event %s: %w", r.TxHash, err)
		}
		ev.Swap = &domain.Swap{
			ExchangeID:        id,
			Caller:            common.HexToAddress(r.Caller),
			Direction:         domain.SwapDirection(r.Direction),
			BaseTokenAmount:   amounts[0],
			DataTokenAmount:   amounts[1],
			MarketFeeAmount:   amounts[2],
			ProtocolFeeAmount: amounts[3],
			BlockNumber:       ev.BlockNumber,
			LogIndex:          ev.LogIndex,
			TxHash:            ev.TxHash,
			Timestamp:         ev.Timestamp,
		}
	}
	return ev, nil
}

func toTokenRecord(t *domain.Token) tokenRecord {
	return tokenRecord{
		Address:     t.Address.Hex(),
		Symbol:      t.Symbol,
		Decimals:    t.Decimals,
		Minter:      t.Minter.Hex(),
		TotalSupply: mathutil.Copy(t.TotalSupply).String(),
	}
}

func (r tokenRecord) toDomain() (*domain.Token, error) {
	supply, err := parseAmounts(r.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("invalid supply for token %s: %w", r.Address, err)
	}
	return &domain.Token{
		Address:     common.HexToAddress(r.Address),
		Symbol:      r.Symbol,
		Decimals:    r.Decimals,
		Minter:      common.HexToAddress(r.Minter),
		TotalSupply: supply[0],
	}, nil
}

func balanceKey(token, holder common.Address) string {
	return token.Hex() + ":" + holder.Hex()
}

func parseAmounts(values ...string) ([]*big.Int, error) {
	amounts := make([]*big.Int, 0, len(values))
	for _, v := range values {
		if v == "" {
			amounts = append(amounts, big.NewInt(0))
			continue
		}
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("malformed amount %q", v)
		}
		amounts = append(amounts, n)
	}
	return amounts, nil
}
