package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oandaServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/v3/accounts/101-001-1/pricing", r.URL.Path)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOanda(t *testing.T, url string) *OandaSource {
	t.Helper()

	src, err := NewOandaSource(OandaOptions{
		Token:             "test-token",
		AccountID:         "101-001-1",
		BaseURL:           url,
		RequestsPerSecond: 100,
	})
	require.NoError(t, err)
	return src
}

func TestOandaInstrument(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "EUR_USD", OandaInstrument("EURUSD"))
	assert.Equal(t, "USD_JPY", OandaInstrument("usd/jpy"))
	assert.Equal(t, "BTCUSDT", OandaInstrument("BTCUSDT"))
}

func TestOandaBaseURL(t *testing.T) {
	t.Parallel()

	u, err := OandaBaseURL("practice")
	require.NoError(t, err)
	assert.Equal(t, OandaPracticeURL, u)

	u, err = OandaBaseURL("LIVE")
	require.NoError(t, err)
	assert.Equal(t, OandaLiveURL, u)

	_, err = OandaBaseURL("sandbox")
	assert.Error(t, err)
}

func TestNewOandaSource_RequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewOandaSource(OandaOptions{AccountID: "x"})
	assert.ErrorContains(t, err, "token")

	_, err = NewOandaSource(OandaOptions{Token: "x"})
	assert.ErrorContains(t, err, "account")
}

func TestOandaSource_GetTick(t *testing.T) {
	t.Parallel()

	srv := oandaServer(t, http.StatusOK, `{"prices":[{"instrument":"USD_JPY","time":"2024-01-02T10:00:00.000000000Z",
		"bids":[{"price":"150.010"}],"asks":[{"price":"150.030"}]}]}`)

	tick, err := newTestOanda(t, srv.URL).GetTick(context.Background(), "USDJPY")
	require.NoError(t, err)
	assert.Equal(t, "USDJPY", tick.Symbol)
	assert.InDelta(t, 150.02, tick.Mid(), 1e-9)
	assert.Equal(t, 2024, tick.Time.Year())
}

func TestOandaSource_Unavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusUnauthorized, `{"errorMessage":"Insufficient authorization"}`},
		{"bad json", http.StatusOK, `{"prices":`},
		{"missing instrument", http.StatusOK, `{"prices":[]}`},
		{"zero bid", http.StatusOK, `{"prices":[{"instrument":"EUR_USD","bids":[{"price":"0"}],"asks":[{"price":"1.1"}]}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := oandaServer(t, tt.status, tt.body)
			_, err := newTestOanda(t, srv.URL).GetTick(context.Background(), "EURUSD")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrPriceUnavailable))
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	empty := NewTickStore()
	full := NewTickStore()
	full.Set(Tick{Symbol: "EURUSD", Bid: 1.1, Ask: 1.1002})

	tick, err := Chain{empty, full}.GetTick(context.Background(), "EURUSD")
	require.NoError(t, err)
	assert.InDelta(t, 1.1001, tick.Mid(), 1e-9)

	_, err = Chain{empty}.GetTick(context.Background(), "EURUSD")
	assert.True(t, errors.Is(err, ErrPriceUnavailable))

	_, err = Chain{}.GetTick(context.Background(), "EURUSD")
	assert.True(t, errors.Is(err, ErrPriceUnavailable))
}
