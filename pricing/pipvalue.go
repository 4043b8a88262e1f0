package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/lotsize/market"
)

// Fallback decides what happens when a live lookup fails.
type Fallback string

const (
	// FallbackStatic uses the pip value from the reference table.
	FallbackStatic Fallback = "static"
	// FallbackAbort fails the calculation with ErrPriceUnavailable.
	FallbackAbort Fallback = "abort"
)

func ParseFallback(s string) (Fallback, error) {
	switch Fallback(strings.ToLower(strings.TrimSpace(s))) {
	case FallbackStatic, "":
		return FallbackStatic, nil
	case FallbackAbort:
		return FallbackAbort, nil
	}
	return "", fmt.Errorf("unknown price fallback %q", s)
}

// PipValueResolver turns an instrument into a pip value in account currency,
// consulting live prices where the instrument needs them.
type PipValueResolver struct {
	Source          TickSource
	AccountCurrency string
	Fallback        Fallback
	Log             zerolog.Logger
}

// Resolve never returns a zero pip value with a nil error.
func (r *PipValueResolver) Resolve(ctx context.Context, inst market.Instrument) (float64, error) {
	if r.Source == nil {
		return inst.PipValue, nil
	}

	var (
		v   float64
		err error
	)
	switch {
	case inst.PricePipFactor > 0 && inst.LiveSymbol != "":
		v, err = r.fromPrice(ctx, inst)
	case r.needsConversion(inst):
		v, err = r.converted(ctx, inst)
	default:
		return inst.PipValue, nil
	}

	if err == nil && (!(v > 0) || math.IsInf(v, 0)) {
		err = fmt.Errorf("%w: %s resolved to %v", ErrPriceUnavailable, inst.Symbol, v)
	}
	if err == nil {
		return v, nil
	}

	if r.Fallback == FallbackAbort {
		if !errors.Is(err, ErrPriceUnavailable) {
			err = fmt.Errorf("%w: %s: %w", ErrPriceUnavailable, inst.Symbol, err)
		}
		return 0, err
	}
	r.Log.Warn().Err(err).
		Str("instrument", inst.Symbol).
		Float64("pip_value", inst.PipValue).
		Msg("live lookup failed, using table pip value")
	return inst.PipValue, nil
}

// fromPrice derives the pip value from the live price. The price is quoted
// in the instrument's quote currency (USDT is taken as USD) and is converted
// to account currency like a table value.
func (r *PipValueResolver) fromPrice(ctx context.Context, inst market.Instrument) (float64, error) {
	tick, err := r.Source.GetTick(ctx, inst.LiveSymbol)
	if err != nil {
		return 0, err
	}
	v := tick.Mid() * inst.PricePipFactor
	if !r.needsConversion(inst) {
		return v, nil
	}
	rate, err := r.QuoteToAccountRate(ctx, inst.QuoteCurrency)
	if err != nil {
		return 0, err
	}
	return v * rate, nil
}

func (r *PipValueResolver) needsConversion(inst market.Instrument) bool {
	return inst.QuoteCurrency != "" && r.AccountCurrency != "" &&
		!strings.EqualFold(inst.QuoteCurrency, r.AccountCurrency)
}

// converted scales the table pip value from quote to account currency.
func (r *PipValueResolver) converted(ctx context.Context, inst market.Instrument) (float64, error) {
	rate, err := r.QuoteToAccountRate(ctx, inst.QuoteCurrency)
	if err != nil {
		return 0, err
	}
	return inst.PipValue * rate, nil
}

// QuoteToAccountRate returns how much one unit of quote currency is worth in
// account currency. It tries QUOTE+ACCOUNT first (rate = mid), then
// ACCOUNT+QUOTE (rate = 1/mid).
func (r *PipValueResolver) QuoteToAccountRate(ctx context.Context, quote string) (float64, error) {
	quote = strings.ToUpper(quote)
	acct := strings.ToUpper(r.AccountCurrency)
	if quote == acct {
		return 1.0, nil
	}

	if t, err := r.Source.GetTick(ctx, quote+acct); err == nil && t.Mid() > 0 {
		return t.Mid(), nil
	}

	t, err := r.Source.GetTick(ctx, acct+quote)
	if err != nil {
		return 0, fmt.Errorf("convert %s to %s: %w", quote, acct, err)
	}
	mid := t.Mid()
	if !(mid > 0) {
		return 0, fmt.Errorf("%w: %s%s has no price", ErrPriceUnavailable, acct, quote)
	}
	return 1.0 / mid, nil
}
