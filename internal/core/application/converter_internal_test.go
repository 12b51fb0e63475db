package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type tokenMetadataStub struct {
	calls    int
	decimals map[common.Address]uint8
}

func (s *tokenMetadataStub) Decimals(
	_ context.Context, token common.Address,
) (uint8, error) {
	s.calls++
	d, ok := s.decimals[token]
	if !ok {
		return 0, fmt.Errorf("token %s not found", token.Hex())
	}
	return d, nil
}

func TestUnitConverter(t *testing.T) {
	ctx := context.Background()
	usdc := common.HexToAddress("0x00000000000000000000000000000000000000b6")
	unknown := common.HexToAddress("0x00000000000000000000000000000000000000ff")

	t.Run("cache_successful_lookups", func(t *testing.T) {
		stub := &tokenMetadataStub{
			decimals: map[common.Address]uint8{usdc: 6},
		}
		c := newUnitConverter(stub, 18)

		require.Equal(t, uint8(6), c.tokenDecimals(ctx, usdc))
		require.Equal(t, 1, stub.calls)

		require.Equal(t, uint8(6), c.tokenDecimals(ctx, usdc))
		require.Equal(t, 1, stub.calls)
	})

	t.Run("fallback_is_not_cached", func(t *testing.T) {
		stub := &tokenMetadataStub{decimals: map[common.Address]uint8{}}
		c := newUnitConverter(stub, 18)

		require.Equal(t, uint8(18), c.tokenDecimals(ctx, unknown))
		require.Equal(t, uint8(18), c.tokenDecimals(ctx, unknown))
		require.Equal(t, 2, stub.calls)

		stub.decimals[unknown] = 8
		require.Equal(t, uint8(8), c.tokenDecimals(ctx, unknown))
		require.Equal(t, uint8(8), c.tokenDecimals(ctx, unknown))
		require.Equal(t, 3, stub.calls)
	})

	t.Run("without_token_metadata", func(t *testing.T) {
		c := newUnitConverter(nil, 12)
		require.Equal(t, uint8(12), c.tokenDecimals(ctx, usdc))
	})
}
