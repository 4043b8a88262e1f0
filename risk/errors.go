package risk

import (
	"errors"

	"github.com/rustyeddy/lotsize/market"
)

var (
	// ErrUnknownInstrument is returned when the symbol is not in the
	// reference table. No default pip value is ever substituted.
	ErrUnknownInstrument = market.ErrUnknownInstrument

	// ErrInvalidInput covers non-positive balances, risk amounts and stop
	// distances, negative factors and unknown modes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionByZero is returned when the stop distance or pip value
	// resolves to zero at compute time.
	ErrDivisionByZero = errors.New("division by zero")
)
