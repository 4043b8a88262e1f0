package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/lotsize/risk"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, 70.0, cfg.Sizing.FixedLoss)
	assert.Equal(t, 50.0, cfg.Sizing.StopLoss)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	mutate := func(f func(*Config)) *Config {
		c := Default()
		f(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "missing currency",
			config:  mutate(func(c *Config) { c.Account.Currency = "" }),
			wantErr: true,
			errMsg:  "account.currency is required",
		},
		{
			name:    "negative balance",
			config:  mutate(func(c *Config) { c.Account.Balance = -1000 }),
			wantErr: true,
			errMsg:  "account.balance must be positive",
		},
		{
			name:    "unknown risk mode",
			config:  mutate(func(c *Config) { c.Sizing.RiskMode = "kelly" }),
			wantErr: true,
			errMsg:  "sizing.risk_mode",
		},
		{
			name:    "unknown stop mode",
			config:  mutate(func(c *Config) { c.Sizing.StopLossMode = "atr" }),
			wantErr: true,
			errMsg:  "sizing.stop_loss_mode",
		},
		{
			name:    "unknown style",
			config:  mutate(func(c *Config) { c.Sizing.Style = "position" }),
			wantErr: true,
			errMsg:  "sizing.style",
		},
		{
			name:    "risk percent over 100",
			config:  mutate(func(c *Config) { c.Sizing.RiskPercent = 150 }),
			wantErr: true,
			errMsg:  "sizing.risk_percent must be between 0 and 100",
		},
		{
			name:    "sqlite without path",
			config:  mutate(func(c *Config) { c.Catalog.Source = "sqlite" }),
			wantErr: true,
			errMsg:  "catalog.path required",
		},
		{
			name:    "unknown catalog source",
			config:  mutate(func(c *Config) { c.Catalog.Source = "http" }),
			wantErr: true,
			errMsg:  "catalog.source",
		},
		{
			name:    "unknown provider",
			config:  mutate(func(c *Config) { c.Pricing.Provider = "bloomberg" }),
			wantErr: true,
			errMsg:  "pricing.provider",
		},
		{
			name:    "binance and oanda",
			config:  mutate(func(c *Config) { c.Pricing.Provider = "binance, oanda" }),
			wantErr: false,
		},
		{
			name: "bad oanda env",
			config: mutate(func(c *Config) {
				c.Pricing.Provider = "oanda"
				c.Pricing.OandaEnv = "sandbox"
			}),
			wantErr: true,
			errMsg:  "pricing.oanda_env",
		},
		{
			name:    "bad fallback",
			config:  mutate(func(c *Config) { c.Pricing.Fallback = "zero" }),
			wantErr: true,
			errMsg:  "pricing.fallback",
		},
		{
			name:    "bad timeout",
			config:  mutate(func(c *Config) { c.Pricing.Timeout = "soon" }),
			wantErr: true,
			errMsg:  "pricing.timeout",
		},
		{
			name:    "bad log format",
			config:  mutate(func(c *Config) { c.Logging.Format = "xml" }),
			wantErr: true,
			errMsg:  "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Sizing.Instrument = "GBPUSD"
			cfg.Pricing.APIKey = "secret"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "secret")

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Account, loaded.Account)
			assert.Equal(t, cfg.Sizing, loaded.Sizing)
			assert.Equal(t, cfg.Limits, loaded.Limits)
			assert.Empty(t, loaded.Pricing.APIKey)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  currency: EUR\n  balance: 2500\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, 2500.0, cfg.Account.Balance)
	assert.Equal(t, "EURUSD", cfg.Sizing.Instrument)
	assert.Equal(t, "builtin", cfg.Catalog.Source)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		timeout  string
		expected string
		wantErr  bool
	}{
		{"10s", "10s", false},
		{"1m", "1m0s", false},
		{"", "0s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			p := PricingConfig{Timeout: tt.timeout}
			d, err := p.ParseTimeout()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}

func TestProviders(t *testing.T) {
	assert.Empty(t, PricingConfig{Provider: "none"}.Providers())
	assert.Empty(t, PricingConfig{}.Providers())
	assert.Equal(t, []string{"binance", "oanda"}, PricingConfig{Provider: "Binance, oanda"}.Providers())
}

func TestParams(t *testing.T) {
	cfg := Default()
	cfg.Sizing.Style = "Swing"

	p := cfg.Params()
	assert.Equal(t, "EURUSD", p.Instrument)
	assert.Equal(t, 10000.0, p.Balance)
	assert.Equal(t, risk.RiskFixed, p.RiskMode)
	assert.Equal(t, risk.StyleSwing, p.Style)
	assert.Nil(t, p.PipValue)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"LOTSIZE_LOG_LEVEL":  "debug",
		"LOTSIZE_ADDR":       "127.0.0.1:9000",
		"BINANCE_API_KEY":    "k",
		"BINANCE_API_SECRET": "s",
		"OANDA_TOKEN":        "tok",
		"OANDA_ACCOUNT_ID":   "101-001-1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "k", cfg.Pricing.APIKey)
	assert.Equal(t, "s", cfg.Pricing.APISecret)
	assert.Equal(t, "tok", cfg.Pricing.OandaToken)
	assert.Equal(t, "101-001-1", cfg.Pricing.OandaAccountID)
	// untouched
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "builtin", cfg.Catalog.Source)
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
