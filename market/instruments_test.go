package market

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"EURUSD", "EURUSD"},
		{"eur/usd", "EURUSD"},
		{"EUR_USD", "EURUSD"},
		{" btc-usd ", "BTCUSD"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeSymbol(tt.in))
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	assert.Equal(t, len(DefaultInstruments), c.Len())

	want := map[string]float64{
		"US100": 1, "US500": 1, "XAUUSD": 10,
		"EURUSD": 10, "GBPUSD": 10, "USDJPY": 10, "USDCAD": 10,
		"AUDUSD": 10, "NZDUSD": 10,
		"BTCUSD": 100, "ETHUSD": 10, "SOLUSD": 1, "DOGEUSD": 1,
	}
	for sym, pv := range want {
		in, err := c.Lookup(sym)
		require.NoError(t, err, sym)
		assert.Equal(t, pv, in.PipValue, sym)
	}
}

func TestCatalogLookupUnknown(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	in, err := c.Lookup("XYZABC")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownInstrument))
	assert.Equal(t, Instrument{}, in)
}

func TestCatalogLookupNormalizes(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	in, err := c.Lookup("eur/usd")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", in.Symbol)
}

func TestNewCatalogRejectsBadEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list []Instrument
		msg  string
	}{
		{"zero pip value", []Instrument{{Symbol: "EURUSD", PipValue: 0}}, "pip_value must be positive"},
		{"negative pip value", []Instrument{{Symbol: "EURUSD", PipValue: -1}}, "pip_value must be positive"},
		{"missing symbol", []Instrument{{PipValue: 1}}, "symbol is required"},
		{"negative range", []Instrument{{Symbol: "X", PipValue: 1, AverageMonthlyRange: -5}}, "average_monthly_range"},
		{"infinite range", []Instrument{{Symbol: "X", PipValue: 1, AverageMonthlyRange: math.Inf(1)}}, "average_monthly_range"},
		{"infinite pip factor", []Instrument{{Symbol: "X", PipValue: 1, PricePipFactor: math.Inf(1)}}, "price_pip_factor"},
		{"infinite pip value", []Instrument{{Symbol: "X", PipValue: math.Inf(1)}}, "pip_value must be positive"},
		{"duplicate", []Instrument{{Symbol: "EURUSD", PipValue: 1}, {Symbol: "EUR/USD", PipValue: 2}}, "duplicate"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCatalog(tt.list)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestAverageDailyRange(t *testing.T) {
	t.Parallel()

	in := Instrument{Symbol: "EURUSD", PipValue: 10, AverageMonthlyRange: 1400}
	assert.InDelta(t, 70.0, in.AverageDailyRange(), 1e-12)
}

func TestSymbolsSorted(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog([]Instrument{
		{Symbol: "GBPUSD", PipValue: 10},
		{Symbol: "AUDUSD", PipValue: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AUDUSD", "GBPUSD"}, c.Symbols())
}
