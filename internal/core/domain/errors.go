package domain

import "errors"

var (
	// ErrExchangeNotFound is returned when no exchange matches the given id.
	ErrExchangeNotFound = errors.New("exchange not found")
	// ErrInvalidExchangeID ...
	ErrInvalidExchangeID = errors.New("exchange id must be a 32 bytes hex string")
	// ErrExchangeAlreadyExists is returned when creating an exchange whose id
	// is already taken by the same base token, data token and owner.
	ErrExchangeAlreadyExists = errors.New("exchange already exists")
	// ErrInvalidRate is returned for rates that are not strictly positive.
	ErrInvalidRate = errors.New("rate must be greater than zero")
	// ErrInvalidFee is returned for fee fractions outside of [0, 1).
	ErrInvalidFee = errors.New("fee must be in range [0, 1)")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address must not be the zero address")
	// ErrSameToken ...
	ErrSameToken = errors.New("base and data token must be different")
	// ErrUnauthorized is returned when the caller lacks the role required by
	// the operation.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")
	// ErrExchangeInactive is returned when executing a swap against a
	// deactivated exchange.
	ErrExchangeInactive = errors.New("exchange is not active")
	// ErrSwapperNotAllowed is returned when the exchange is restricted to
	// another swapper.
	ErrSwapperNotAllowed = errors.New("caller is not the allowed swapper")
	// ErrInsufficientSupply is returned when the exchange can't provide the
	// requested amount of tokens.
	ErrInsufficientSupply = errors.New("exchange has insufficient supply")
	// ErrInsufficientBalance is returned when withdrawing more than the
	// available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSlippageExceeded is returned when the base amount of a swap goes
	// beyond the limit set by the caller.
	ErrSlippageExceeded = errors.New("base amount exceeds the slippage limit")
	// ErrFeesExceedAmount is returned when the fees of a sell are greater than
	// the gross amount.
	ErrFeesExceedAmount = errors.New("fees exceed the swapped amount")
	// ErrAmountOverflow is returned when an amount doesn't fit into an
	// unsigned 256-bit integer.
	ErrAmountOverflow = errors.New("amount overflows uint256")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)
