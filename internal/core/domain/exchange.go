package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// ExchangeID uniquely identifies an exchange. It's derived from the base
// token, the data token and the owner of the exchange.
type ExchangeID common.Hash

// Hex returns the 0x prefixed hex encoding of the id.
func (id ExchangeID) Hex() string {
	return common.Hash(id).Hex()
}

func (id ExchangeID) String() string {
	return id.Hex()
}

// IsZero ...
func (id ExchangeID) IsZero() bool {
	return id == ExchangeID{}
}

// ExchangeIDFromHex parses a hex encoded exchange id.
func ExchangeIDFromHex(s string) (ExchangeID, error) {
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return ExchangeID{}, ErrInvalidExchangeID
	}
	return ExchangeID(common.BytesToHash(b)), nil
}

// GenerateExchangeID returns keccak256(base ‖ data ‖ owner), with every
// address left padded to 32 bytes. The order of the arguments matters.
func GenerateExchangeID(baseToken, dataToken, owner common.Address) ExchangeID {
	return ExchangeID(crypto.Keccak256Hash(
		common.LeftPadBytes(baseToken.Bytes(), 32),
		common.LeftPadBytes(dataToken.Bytes(), 32),
		common.LeftPadBytes(owner.Bytes(), 32),
	))
}

// ExchangeArgs holds the creation parameters of an exchange. Everything
// besides the tokens, the owner and the rate is optional.
type ExchangeArgs struct {
	Owner        common.Address
	BaseToken    common.Address
	DataToken    common.Address
	BaseDecimals uint8
	DataDecimals uint8
	Rate         decimal.Decimal
	// MarketFee defaults to zero.
	MarketFee decimal.Decimal
	// MarketFeeCollector defaults to the owner.
	MarketFeeCollector common.Address
	AllowedSwapper     common.Address
	WithMint           bool
	// DTMintCap is the amount of data token the exchange is allowed to mint.
	DTMintCap *big.Int
}

// Exchange is the fixed rate exchange entity.
type Exchange struct {
	ID           ExchangeID
	Owner        common.Address
	BaseToken    common.Address
	DataToken    common.Address
	BaseDecimals uint8
	DataDecimals uint8
	// Rate is how many whole base tokens one whole data token is valued.
	Rate  decimal.Decimal
	State State
	// Escrowed balances in base units of the respective token.
	DTBalance *big.Int
	BTBalance *big.Int
	// DTMintCap is the remaining amount of data token that can be minted.
	DTMintCap *big.Int
	Fees      FeeInfo
	CreatedAt time.Time
}

// NewExchange returns a new active exchange with zero balances.
func NewExchange(args ExchangeArgs) (*Exchange, error) {
	if args.Owner == (common.Address{}) ||
		args.BaseToken == (common.Address{}) ||
		args.DataToken == (common.Address{}) {
		return nil, ErrInvalidAddress
	}
	if args.BaseToken == args.DataToken {
		return nil, ErrSameToken
	}
	if err := validateRate(args.Rate); err != nil {
		return nil, err
	}
	if err := validateFee(args.MarketFee); err != nil {
		return nil, err
	}
	mintCap := mathutil.Copy(args.DTMintCap)
	if mintCap.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if !mathutil.FitsUint256(mintCap) {
		return nil, ErrAmountOverflow
	}

	collector := args.MarketFeeCollector
	if collector == (common.Address{}) {
		collector = args.Owner
	}

	return &Exchange{
		ID:           GenerateExchangeID(args.BaseToken, args.DataToken, args.Owner),
		Owner:        args.Owner,
		BaseToken:    args.BaseToken,
		DataToken:    args.DataToken,
		BaseDecimals: args.BaseDecimals,
		DataDecimals: args.DataDecimals,
		Rate:         args.Rate,
		State: State{
			Active:         true,
			WithMint:       args.WithMint,
			AllowedSwapper: args.AllowedSwapper,
		},
		DTBalance: big.NewInt(0),
		BTBalance: big.NewInt(0),
		DTMintCap: mintCap,
		Fees: FeeInfo{
			MarketFee:            args.MarketFee,
			MarketFeeCollector:   collector,
			MarketFeeAvailable:   big.NewInt(0),
			ProtocolFeeAvailable: big.NewInt(0),
		},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DTSupply returns the amount of data token the exchange can sell, minted
// ones included.
func (e *Exchange) DTSupply() *big.Int {
	supply := mathutil.Copy(e.DTBalance)
	if e.State.WithMint {
		supply.Add(supply, mathutil.Copy(e.DTMintCap))
	}
	return supply
}

// BTSupply returns the amount of base token the exchange can pay out to
// sellers.
func (e *Exchange) BTSupply() *big.Int {
	return mathutil.Copy(e.BTBalance)
}

// IsOwner ...
func (e *Exchange) IsOwner(caller common.Address) bool {
	return e.Owner == caller
}

// SetRate changes the rate of the exchange.
func (e *Exchange) SetRate(caller common.Address, rate decimal.Decimal) error {
	if !e.IsOwner(caller) {
		return ErrUnauthorized
	}
	if err := validateRate(rate); err != nil {
		return err
	}
	e.Rate = rate
	return nil
}

// DepositDT escrows data tokens sent by the owner into the exchange.
func (e *Exchange) DepositDT(caller common.Address, amount *big.Int) error {
	if !e.IsOwner(caller) {
		return ErrUnauthorized
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	balance := mathutil.Add(e.DTBalance, amount)
	if !mathutil.FitsUint256(balance) {
		return ErrAmountOverflow
	}
	e.DTBalance = balance
	return nil
}

// CollectBT withdraws the given amount of the owner's base token proceeds.
func (e *Exchange) CollectBT(caller common.Address, amount *big.Int) error {
	if !e.IsOwner(caller) {
		return ErrUnauthorized
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if e.BTBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	e.BTBalance = mathutil.Sub(e.BTBalance, amount)
	return nil
}

// CollectDT withdraws the given amount of escrowed data token.
func (e *Exchange) CollectDT(caller common.Address, amount *big.Int) error {
	if !e.IsOwner(caller) {
		return ErrUnauthorized
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if e.DTBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	e.DTBalance = mathutil.Sub(e.DTBalance, amount)
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	return nil
}

func validateFee(fee decimal.Decimal) error {
	if !mathutil.IsValidFeeFraction(fee) {
		return ErrInvalidFee
	}
	return nil
}

func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !mathutil.FitsUint256(amount) {
		return ErrAmountOverflow
	}
	return nil
}
