// market/instruments.go
package market

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// TradingDaysPerMonth is the divisor used to turn an average monthly range
// into an average daily range.
const TradingDaysPerMonth = 20

var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument holds the reference values needed to size a position.
// PipValue is the account-currency value of a one point move for one lot.
type Instrument struct {
	Symbol              string  `json:"symbol" yaml:"symbol"`
	PipValue            float64 `json:"pip_value" yaml:"pip_value"`
	AverageMonthlyRange float64 `json:"average_monthly_range" yaml:"average_monthly_range"`

	// QuoteCurrency is used to convert PipValue, or the live price derived
	// pip value, when the account is held in another currency. Empty means
	// the value is already in account currency.
	QuoteCurrency string `json:"quote_currency,omitempty" yaml:"quote_currency,omitempty"`

	// PricePipFactor > 0 marks an instrument whose pip value follows its
	// live price: pip value = mid * PricePipFactor.
	PricePipFactor float64 `json:"price_pip_factor,omitempty" yaml:"price_pip_factor,omitempty"`

	// LiveSymbol is the exchange symbol used for live lookups (BTCUSDT).
	LiveSymbol string `json:"live_symbol,omitempty" yaml:"live_symbol,omitempty"`
}

// AverageDailyRange derives the daily range from the monthly range.
func (i Instrument) AverageDailyRange() float64 {
	return i.AverageMonthlyRange / TradingDaysPerMonth
}

func (i Instrument) validate() error {
	if i.Symbol == "" {
		return fmt.Errorf("instrument symbol is required")
	}
	if !(i.PipValue > 0) || math.IsInf(i.PipValue, 0) {
		return fmt.Errorf("%s: pip_value must be positive, got %v", i.Symbol, i.PipValue)
	}
	if i.AverageMonthlyRange < 0 || math.IsNaN(i.AverageMonthlyRange) || math.IsInf(i.AverageMonthlyRange, 0) {
		return fmt.Errorf("%s: average_monthly_range must be finite and not negative, got %v", i.Symbol, i.AverageMonthlyRange)
	}
	if i.PricePipFactor < 0 || math.IsNaN(i.PricePipFactor) || math.IsInf(i.PricePipFactor, 0) {
		return fmt.Errorf("%s: price_pip_factor must be finite and not negative, got %v", i.Symbol, i.PricePipFactor)
	}
	return nil
}

// NormalizeSymbol maps "eur/usd", "EUR_USD" and "EURUSD" to the same key.
func NormalizeSymbol(s string) string {
	r := strings.NewReplacer("/", "", "_", "", "-", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(s)))
}

// Catalog is the read-only instrument reference table. It is built once and
// may be shared between goroutines.
type Catalog struct {
	instruments map[string]Instrument
}

// NewCatalog validates every instrument and indexes it by normalized symbol.
func NewCatalog(list []Instrument) (*Catalog, error) {
	c := &Catalog{instruments: make(map[string]Instrument, len(list))}
	for _, in := range list {
		in.Symbol = NormalizeSymbol(in.Symbol)
		if err := in.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.instruments[in.Symbol]; dup {
			return nil, fmt.Errorf("duplicate instrument %s", in.Symbol)
		}
		c.instruments[in.Symbol] = in
	}
	return c, nil
}

// Lookup returns the instrument for symbol or ErrUnknownInstrument.
func (c *Catalog) Lookup(symbol string) (Instrument, error) {
	in, ok := c.instruments[NormalizeSymbol(symbol)]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, symbol)
	}
	return in, nil
}

func (c *Catalog) Len() int {
	return len(c.instruments)
}

// Symbols returns the known symbols in sorted order.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.instruments))
	for s := range c.instruments {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Instruments returns a copy of the table sorted by symbol.
func (c *Catalog) Instruments() []Instrument {
	out := make([]Instrument, 0, len(c.instruments))
	for _, s := range c.Symbols() {
		out = append(out, c.instruments[s])
	}
	return out
}

// DefaultInstruments is the built-in table: value per lot per point/pip move,
// with average monthly ranges in the same point units.
var DefaultInstruments = []Instrument{
	{Symbol: "US100", PipValue: 1, AverageMonthlyRange: 6000, QuoteCurrency: "USD"},
	{Symbol: "US500", PipValue: 1, AverageMonthlyRange: 1200, QuoteCurrency: "USD"},
	{Symbol: "XAUUSD", PipValue: 10, AverageMonthlyRange: 6000, QuoteCurrency: "USD"},
	{Symbol: "EURUSD", PipValue: 10, AverageMonthlyRange: 1400, QuoteCurrency: "USD"},
	{Symbol: "GBPUSD", PipValue: 10, AverageMonthlyRange: 1800, QuoteCurrency: "USD"},
	{Symbol: "USDJPY", PipValue: 10, AverageMonthlyRange: 1600, QuoteCurrency: "USD"},
	{Symbol: "USDCAD", PipValue: 10, AverageMonthlyRange: 1400, QuoteCurrency: "USD"},
	{Symbol: "AUDUSD", PipValue: 10, AverageMonthlyRange: 1200, QuoteCurrency: "USD"},
	{Symbol: "NZDUSD", PipValue: 10, AverageMonthlyRange: 1100, QuoteCurrency: "USD"},
	{Symbol: "BTCUSD", PipValue: 100, AverageMonthlyRange: 60000, PricePipFactor: 0.001, LiveSymbol: "BTCUSDT", QuoteCurrency: "USD"},
	{Symbol: "ETHUSD", PipValue: 10, AverageMonthlyRange: 3000, PricePipFactor: 0.003, LiveSymbol: "ETHUSDT", QuoteCurrency: "USD"},
	{Symbol: "SOLUSD", PipValue: 1, AverageMonthlyRange: 160, PricePipFactor: 0.006, LiveSymbol: "SOLUSDT", QuoteCurrency: "USD"},
	{Symbol: "DOGEUSD", PipValue: 1, AverageMonthlyRange: 400, PricePipFactor: 5, LiveSymbol: "DOGEUSDT", QuoteCurrency: "USD"},
}

// DefaultCatalog builds a Catalog from DefaultInstruments.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultInstruments)
	if err != nil {
		panic(err)
	}
	return c
}
