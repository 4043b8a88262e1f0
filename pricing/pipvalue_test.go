package pricing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/lotsize/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	btc = market.Instrument{Symbol: "BTCUSD", PipValue: 100, PricePipFactor: 0.001, LiveSymbol: "BTCUSDT"}
	eur = market.Instrument{Symbol: "EURUSD", PipValue: 10, QuoteCurrency: "USD"}
)

func TestResolve_NoSource(t *testing.T) {
	t.Parallel()

	r := &PipValueResolver{}
	v, err := r.Resolve(context.Background(), btc)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

func TestResolve_FromLivePrice(t *testing.T) {
	t.Parallel()

	ts := NewTickStore()
	ts.Set(Tick{Symbol: "BTCUSDT", Bid: 64000, Ask: 64000})

	r := &PipValueResolver{Source: ts, AccountCurrency: "USD"}
	v, err := r.Resolve(context.Background(), btc)
	require.NoError(t, err)
	assert.InDelta(t, 64.0, v, 1e-9)
}

func TestResolve_LivePriceConverted(t *testing.T) {
	t.Parallel()

	usdBTC := btc
	usdBTC.QuoteCurrency = "USD"

	ts := NewTickStore()
	ts.Set(Tick{Symbol: "BTCUSDT", Bid: 64000, Ask: 64000})
	ts.Set(Tick{Symbol: "EURUSD", Bid: 1.25, Ask: 1.25})

	r := &PipValueResolver{Source: ts, AccountCurrency: "EUR", Fallback: FallbackAbort, Log: zerolog.Nop()}
	v, err := r.Resolve(context.Background(), usdBTC)
	require.NoError(t, err)
	// 64000 * 0.001 = 64 USD = 51.2 EUR
	assert.InDelta(t, 51.2, v, 1e-9)

	// no conversion rate available
	noRate := NewTickStore()
	noRate.Set(Tick{Symbol: "BTCUSDT", Bid: 64000, Ask: 64000})
	r.Source = noRate
	_, err = r.Resolve(context.Background(), usdBTC)
	assert.True(t, errors.Is(err, ErrPriceUnavailable))

	// USD account takes the price as is
	r = &PipValueResolver{Source: ts, AccountCurrency: "USD"}
	v, err = r.Resolve(context.Background(), usdBTC)
	require.NoError(t, err)
	assert.InDelta(t, 64.0, v, 1e-9)
}

func TestResolve_QuoteConversion(t *testing.T) {
	t.Parallel()

	ts := NewTickStore()
	ts.Set(Tick{Symbol: "EURUSD", Bid: 1.25, Ask: 1.25})

	// EUR account, USD quote: one USD is worth 1/1.25 EUR.
	r := &PipValueResolver{Source: ts, AccountCurrency: "EUR"}
	v, err := r.Resolve(context.Background(), eur)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, v, 1e-9)

	// Same currency needs no lookup.
	r = &PipValueResolver{Source: NewTickStore(), AccountCurrency: "usd"}
	v, err = r.Resolve(context.Background(), eur)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestQuoteToAccountRate_Direct(t *testing.T) {
	t.Parallel()

	ts := NewTickStore()
	ts.Set(Tick{Symbol: "USDEUR", Bid: 0.9, Ask: 0.9})

	r := &PipValueResolver{Source: ts, AccountCurrency: "EUR"}
	rate, err := r.QuoteToAccountRate(context.Background(), "USD")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, rate, 1e-12)
}

func TestResolve_FallbackStatic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &PipValueResolver{
		Source:          NewTickStore(),
		AccountCurrency: "USD",
		Fallback:        FallbackStatic,
		Log:             zerolog.New(&buf),
	}

	v, err := r.Resolve(context.Background(), btc)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
	assert.Contains(t, buf.String(), "using table pip value")
}

func TestResolve_FallbackAbort(t *testing.T) {
	t.Parallel()

	r := &PipValueResolver{
		Source:          NewTickStore(),
		AccountCurrency: "EUR",
		Fallback:        FallbackAbort,
		Log:             zerolog.Nop(),
	}

	for _, inst := range []market.Instrument{btc, eur} {
		v, err := r.Resolve(context.Background(), inst)
		require.Error(t, err, inst.Symbol)
		assert.True(t, errors.Is(err, ErrPriceUnavailable))
		assert.Equal(t, 0.0, v)
	}
}

func TestResolve_ZeroPriceIsUnavailable(t *testing.T) {
	t.Parallel()

	ts := NewTickStore()
	ts.Set(Tick{Symbol: "BTCUSDT"})

	r := &PipValueResolver{Source: ts, Fallback: FallbackAbort, Log: zerolog.Nop()}
	_, err := r.Resolve(context.Background(), btc)
	assert.True(t, errors.Is(err, ErrPriceUnavailable))
}

func TestParseFallback(t *testing.T) {
	t.Parallel()

	f, err := ParseFallback("")
	require.NoError(t, err)
	assert.Equal(t, FallbackStatic, f)

	f, err = ParseFallback("ABORT")
	require.NoError(t, err)
	assert.Equal(t, FallbackAbort, f)

	_, err = ParseFallback("guess")
	assert.Error(t, err)
}
