package pricing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"
)

// priceLister is the part of the Binance REST API the source needs.
type priceLister func(ctx context.Context, symbol string) (string, error)

// BinanceSource fetches last-trade prices from Binance. Calls are paced by a
// rate limiter and are never retried.
type BinanceSource struct {
	list    priceLister
	limiter *rate.Limiter
	timeout time.Duration
}

// BinanceOptions configure a BinanceSource.
type BinanceOptions struct {
	APIKey            string
	APISecret         string
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
}

func NewBinanceSource(opts BinanceOptions) *BinanceSource {
	client := binance.NewClient(opts.APIKey, opts.APISecret)
	if opts.BaseURL != "" {
		client.BaseURL = opts.BaseURL
	}

	list := func(ctx context.Context, symbol string) (string, error) {
		prices, err := client.NewListPricesService().Symbol(symbol).Do(ctx)
		if err != nil {
			return "", err
		}
		if len(prices) == 0 {
			return "", fmt.Errorf("no price data returned for %s", symbol)
		}
		return prices[0].Price, nil
	}
	return newBinanceSource(list, opts.RequestsPerSecond, opts.Timeout)
}

func newBinanceSource(list priceLister, rps float64, timeout time.Duration) *BinanceSource {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BinanceSource{
		list:    list,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		timeout: timeout,
	}
}

// GetTick returns the last price as a zero-spread tick.
func (b *BinanceSource) GetTick(ctx context.Context, symbol string) (Tick, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return Tick{}, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	raw, err := b.list(ctx, symbol)
	if err != nil {
		return Tick{}, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, err)
	}

	px, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Tick{}, fmt.Errorf("%w: %s: parse %q: %v", ErrPriceUnavailable, symbol, raw, err)
	}
	if !(px > 0) {
		return Tick{}, fmt.Errorf("%w: %s: non-positive price %q", ErrPriceUnavailable, symbol, raw)
	}

	return Tick{Symbol: symbol, Time: time.Now().UTC(), Bid: px, Ask: px}, nil
}
