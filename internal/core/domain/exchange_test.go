package domain_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	baseToken = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	dataToken = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	collector = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	trader    = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	stranger  = common.HexToAddress("0x00000000000000000000000000000000000000f1")
)

func newTestExchange(t *testing.T, rate, marketFee string) *domain.Exchange {
	e, err := domain.NewExchange(domain.ExchangeArgs{
		Owner:              owner,
		BaseToken:          baseToken,
		DataToken:          dataToken,
		Rate:               decimal.RequireFromString(rate),
		MarketFee:          decimal.RequireFromString(marketFee),
		MarketFeeCollector: collector,
	})
	require.NoError(t, err)
	return e
}

func TestGenerateExchangeID(t *testing.T) {
	t.Parallel()

	id := domain.GenerateExchangeID(baseToken, dataToken, owner)
	require.Equal(t, id, domain.GenerateExchangeID(baseToken, dataToken, owner))
	require.False(t, id.IsZero())

	permutations := []domain.ExchangeID{
		domain.GenerateExchangeID(dataToken, baseToken, owner),
		domain.GenerateExchangeID(owner, dataToken, baseToken),
		domain.GenerateExchangeID(baseToken, owner, dataToken),
		domain.GenerateExchangeID(baseToken, dataToken, stranger),
	}
	for _, other := range permutations {
		require.NotEqual(t, id, other)
	}

	parsed, err := domain.ExchangeIDFromHex(id.Hex())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = domain.ExchangeIDFromHex("0xabcd")
	require.EqualError(t, err, domain.ErrInvalidExchangeID.Error())
}

func TestNewExchange(t *testing.T) {
	t.Parallel()

	e, err := domain.NewExchange(domain.ExchangeArgs{
		Owner:     owner,
		BaseToken: baseToken,
		DataToken: dataToken,
		Rate:      decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, domain.GenerateExchangeID(baseToken, dataToken, owner), e.ID)
	require.True(t, e.State.Active)
	require.False(t, e.State.WithMint)
	require.False(t, e.State.IsSwapperRestricted())
	require.Zero(t, e.DTBalance.Sign())
	require.Zero(t, e.BTBalance.Sign())
	require.Zero(t, e.DTSupply().Sign())
	require.Zero(t, e.BTSupply().Sign())
	require.Equal(t, owner, e.Fees.MarketFeeCollector)
	require.True(t, e.Fees.MarketFee.IsZero())
}

func TestFailingNewExchange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		args          domain.ExchangeArgs
		expectedError error
	}{
		{
			name: "zero_rate",
			args: domain.ExchangeArgs{
				Owner: owner, BaseToken: baseToken, DataToken: dataToken,
				Rate: decimal.Zero,
			},
			expectedError: domain.ErrInvalidRate,
		},
		{
			name: "negative_rate",
			args: domain.ExchangeArgs{
				Owner: owner, BaseToken: baseToken, DataToken: dataToken,
				Rate: decimal.NewFromInt(-1),
			},
			expectedError: domain.ErrInvalidRate,
		},
		{
			name: "market_fee_too_high",
			args: domain.ExchangeArgs{
				Owner: owner, BaseToken: baseToken, DataToken: dataToken,
				Rate: decimal.NewFromInt(1), MarketFee: decimal.NewFromInt(1),
			},
			expectedError: domain.ErrInvalidFee,
		},
		{
			name: "missing_owner",
			args: domain.ExchangeArgs{
				BaseToken: baseToken, DataToken: dataToken,
				Rate: decimal.NewFromInt(1),
			},
			expectedError: domain.ErrInvalidAddress,
		},
		{
			name: "same_token",
			args: domain.ExchangeArgs{
				Owner: owner, BaseToken: baseToken, DataToken: baseToken,
				Rate: decimal.NewFromInt(1),
			},
			expectedError: domain.ErrSameToken,
		},
		{
			name: "negative_mint_cap",
			args: domain.ExchangeArgs{
				Owner: owner, BaseToken: baseToken, DataToken: dataToken,
				Rate: decimal.NewFromInt(1), DTMintCap: big.NewInt(-1),
			},
			expectedError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := domain.NewExchange(tt.args)
			require.EqualError(t, err, tt.expectedError.Error())
			require.Nil(t, e)
		})
	}
}

func TestExchangeSetRate(t *testing.T) {
	t.Parallel()

	e := newTestExchange(t, "2", "0")

	err := e.SetRate(stranger, decimal.NewFromInt(3))
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	err = e.SetRate(owner, decimal.Zero)
	require.EqualError(t, err, domain.ErrInvalidRate.Error())
	require.True(t, decimal.NewFromInt(2).Equal(e.Rate))

	err = e.SetRate(owner, decimal.RequireFromString("3.5"))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("3.5").Equal(e.Rate))
}

func TestExchangeOwnerProceeds(t *testing.T) {
	t.Parallel()

	e := newTestExchange(t, "2", "0")

	require.EqualError(
		t, e.DepositDT(stranger, big.NewInt(10)), domain.ErrUnauthorized.Error(),
	)
	require.EqualError(
		t, e.DepositDT(owner, big.NewInt(0)), domain.ErrInvalidAmount.Error(),
	)
	require.NoError(t, e.DepositDT(owner, big.NewInt(100)))
	require.Equal(t, int64(100), e.DTSupply().Int64())

	_, err := e.ExecuteBuy(trader, big.NewInt(40), decimal.Zero)
	require.NoError(t, err)
	require.Equal(t, int64(80), e.BTBalance.Int64())

	require.EqualError(
		t, e.CollectBT(stranger, big.NewInt(1)), domain.ErrUnauthorized.Error(),
	)
	require.EqualError(
		t, e.CollectBT(owner, big.NewInt(81)), domain.ErrInsufficientBalance.Error(),
	)
	require.NoError(t, e.CollectBT(owner, big.NewInt(80)))
	require.Zero(t, e.BTBalance.Sign())

	require.EqualError(
		t, e.CollectDT(owner, big.NewInt(61)), domain.ErrInsufficientBalance.Error(),
	)
	require.NoError(t, e.CollectDT(owner, big.NewInt(60)))
	require.Zero(t, e.DTBalance.Sign())
}

func TestExchangeFilter(t *testing.T) {
	t.Parallel()

	e := newTestExchange(t, "1", "0")
	require.NoError(t, e.DepositDT(owner, big.NewInt(50)))

	tests := []struct {
		name    string
		filter  domain.ExchangeFilter
		matched bool
	}{
		{"empty", domain.ExchangeFilter{}, true},
		{"owner", domain.ExchangeFilter{Owner: &owner}, true},
		{"other_owner", domain.ExchangeFilter{Owner: &stranger}, false},
		{"data_token", domain.ExchangeFilter{DataToken: &dataToken}, true},
		{"other_data_token", domain.ExchangeFilter{DataToken: &baseToken}, false},
		{"enough_supply", domain.ExchangeFilter{MinDTSupply: big.NewInt(50)}, true},
		{"not_enough_supply", domain.ExchangeFilter{MinDTSupply: big.NewInt(51)}, false},
		{"active_only", domain.ExchangeFilter{ActiveOnly: true}, true},
	}

	for _, tt := range tests {
		require.Equal(t, tt.matched, tt.filter.Match(e), tt.name)
	}

	_, err := e.SetActive(owner, false)
	require.NoError(t, err)
	require.False(t, domain.ExchangeFilter{ActiveOnly: true}.Match(e))
}
