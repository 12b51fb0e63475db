package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/tdex-fixedrate/pkg/mathutil"
)

// State groups the independent switches of an exchange.
type State struct {
	Active   bool
	WithMint bool
	// AllowedSwapper restricts swaps to a single address. The zero address
	// means anyone can swap.
	AllowedSwapper common.Address
}

// IsSwapperRestricted returns whether only one address can swap.
func (s State) IsSwapperRestricted() bool {
	return s.AllowedSwapper != (common.Address{})
}

// CanSwap returns an error if the given caller is not allowed to execute a
// swap against the exchange at its current state.
func (e *Exchange) CanSwap(caller common.Address) error {
	if !e.State.Active {
		return ErrExchangeInactive
	}
	if e.State.IsSwapperRestricted() && e.State.AllowedSwapper != caller {
		return ErrSwapperNotAllowed
	}
	return nil
}

// SetActive switches the exchange on or off. It returns false if the
// exchange is already in the requested state, in which case nothing changes.
func (e *Exchange) SetActive(caller common.Address, active bool) (bool, error) {
	if !e.IsOwner(caller) {
		return false, ErrUnauthorized
	}
	if e.State.Active == active {
		return false, nil
	}
	if active {
		if err := validateRate(e.Rate); err != nil {
			return false, err
		}
	}
	e.State.Active = active
	return true, nil
}

// SetMint enables or disables minting data tokens on buy. It returns false if
// the flag already has the requested value.
func (e *Exchange) SetMint(caller common.Address, withMint bool) (bool, error) {
	if !e.IsOwner(caller) {
		return false, ErrUnauthorized
	}
	if e.State.WithMint == withMint {
		return false, nil
	}
	e.State.WithMint = withMint
	return true, nil
}

// SetAllowedSwapper restricts swaps to the given address, or opens the
// exchange to everyone if the zero address is given.
func (e *Exchange) SetAllowedSwapper(
	caller, swapper common.Address,
) (bool, error) {
	if !e.IsOwner(caller) {
		return false, ErrUnauthorized
	}
	if e.State.AllowedSwapper == swapper {
		return false, nil
	}
	e.State.AllowedSwapper = swapper
	return true, nil
}

// Clone returns a deep copy of the exchange.
func (e *Exchange) Clone() *Exchange {
	if e == nil {
		return nil
	}
	c := *e
	c.DTBalance = mathutil.Copy(e.DTBalance)
	c.BTBalance = mathutil.Copy(e.BTBalance)
	c.DTMintCap = mathutil.Copy(e.DTMintCap)
	c.Fees.MarketFeeAvailable = mathutil.Copy(e.Fees.MarketFeeAvailable)
	c.Fees.ProtocolFeeAvailable = mathutil.Copy(e.Fees.ProtocolFeeAvailable)
	return &c
}
