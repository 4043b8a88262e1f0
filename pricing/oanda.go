package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/lotsize/market"
	"golang.org/x/time/rate"
)

const (
	// OandaPracticeURL is the URL for OANDA's practice/demo environment
	OandaPracticeURL = "https://api-fxpractice.oanda.com"
	// OandaLiveURL is the URL for OANDA's live trading environment
	OandaLiveURL = "https://api-fxtrade.oanda.com"
)

// OandaBaseURL maps an environment name to its REST URL.
func OandaBaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "practice", "demo":
		return OandaPracticeURL, nil
	case "live", "trade":
		return OandaLiveURL, nil
	default:
		return "", fmt.Errorf("unknown OANDA env %q (want practice|live)", env)
	}
}

// OandaOptions configure an OandaSource.
type OandaOptions struct {
	Token             string
	AccountID         string
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTP              *http.Client
}

// OandaSource reads current FX bid/ask from the OANDA v20 pricing endpoint.
type OandaSource struct {
	baseURL    string
	token      string
	accountID  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewOandaSource(opts OandaOptions) (*OandaSource, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("oanda: missing token")
	}
	if opts.AccountID == "" {
		return nil, fmt.Errorf("oanda: missing account id")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = OandaPracticeURL
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &OandaSource{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		accountID:  opts.AccountID,
		httpClient: hc,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}, nil
}

type oandaPricingResponse struct {
	Prices []struct {
		Instrument string `json:"instrument"`
		Time       string `json:"time"`
		Bids       []struct {
			Price string `json:"price"`
		} `json:"bids"`
		Asks []struct {
			Price string `json:"price"`
		} `json:"asks"`
	} `json:"prices"`
}

// OandaInstrument converts "EURUSD" or "eur/usd" to OANDA's "EUR_USD".
func OandaInstrument(symbol string) string {
	s := market.NormalizeSymbol(symbol)
	if len(s) == 6 {
		return s[:3] + "_" + s[3:]
	}
	return s
}

// GetTick fetches one price. Any failure is reported as ErrPriceUnavailable.
func (o *OandaSource) GetTick(ctx context.Context, symbol string) (Tick, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return Tick{}, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, err)
	}

	inst := OandaInstrument(symbol)
	q := url.Values{}
	q.Set("instruments", inst)
	apiURL := fmt.Sprintf("%s/v3/accounts/%s/pricing?%s", o.baseURL, url.PathEscape(o.accountID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return Tick{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.token)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return Tick{}, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Tick{}, fmt.Errorf("%w: %s: oanda status %d: %s",
			ErrPriceUnavailable, symbol, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pr oandaPricingResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Tick{}, fmt.Errorf("%w: %s: decode: %v", ErrPriceUnavailable, symbol, err)
	}

	for _, p := range pr.Prices {
		if p.Instrument != inst || len(p.Bids) == 0 || len(p.Asks) == 0 {
			continue
		}
		bid, err1 := strconv.ParseFloat(p.Bids[0].Price, 64)
		ask, err2 := strconv.ParseFloat(p.Asks[0].Price, 64)
		if err1 != nil || err2 != nil || !(bid > 0) || !(ask > 0) {
			return Tick{}, fmt.Errorf("%w: %s: bad quote %q/%q", ErrPriceUnavailable, symbol, p.Bids[0].Price, p.Asks[0].Price)
		}

		ts, err := time.Parse(time.RFC3339Nano, p.Time)
		if err != nil {
			ts = time.Now().UTC()
		}
		return Tick{Symbol: market.NormalizeSymbol(symbol), Time: ts, Bid: bid, Ask: ask}, nil
	}
	return Tick{}, fmt.Errorf("%w: %s: not in response", ErrPriceUnavailable, symbol)
}

// Chain asks each source in turn and returns the first price found.
type Chain []TickSource

func (c Chain) GetTick(ctx context.Context, symbol string) (Tick, error) {
	var errs []error
	for _, src := range c {
		t, err := src.GetTick(ctx, symbol)
		if err == nil {
			return t, nil
		}
		if ctx.Err() != nil {
			return Tick{}, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Tick{}, fmt.Errorf("%w: %s: no price sources", ErrPriceUnavailable, symbol)
	}
	return Tick{}, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, errs)
}
