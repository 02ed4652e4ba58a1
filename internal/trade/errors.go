package trade

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned for trades of zero or negative shares.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidAmount is returned for a zero cash adjustment.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidSide is returned for a side other than buy or sell.
	ErrInvalidSide = errors.New("invalid side")
	// ErrInsufficientFunds is matched by *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientHoldings is matched by *InsufficientHoldingsError.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// InsufficientFundsError reports a buy whose cost exceeds the team's cash.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: cost %s, available %s",
		ErrInsufficientFunds, e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// InsufficientHoldingsError reports a sell of more shares than the team owns.
type InsufficientHoldingsError struct {
	Requested int64
	Available int64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("%s: requested %d, available %d",
		ErrInsufficientHoldings, e.Requested, e.Available)
}

func (e *InsufficientHoldingsError) Is(target error) bool {
	return target == ErrInsufficientHoldings
}
