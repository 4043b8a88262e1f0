package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Env holds the settings that may come from the environment or a .env file.
// Secrets are only ever read from here.
type Env struct {
	LogLevel         string `env:"LOTSIZE_LOG_LEVEL"`
	LogFormat        string `env:"LOTSIZE_LOG_FORMAT"`
	Addr             string `env:"LOTSIZE_ADDR"`
	CatalogSource    string `env:"LOTSIZE_CATALOG_SOURCE"`
	CatalogPath      string `env:"LOTSIZE_CATALOG_PATH"`
	PriceProvider    string `env:"LOTSIZE_PRICE_PROVIDER"`
	BinanceAPIKey    string `env:"BINANCE_API_KEY"`
	BinanceAPISecret string `env:"BINANCE_API_SECRET"`
	OandaToken       string `env:"OANDA_TOKEN"`
	OandaAccountID   string `env:"OANDA_ACCOUNT_ID"`
	OandaEnv         string `env:"OANDA_ENV"`
}

// LoadDotEnv loads .env files if present. Variables already set in the
// environment win.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment settings on the configuration.
func (c *Config) ApplyEnv(ctx context.Context) error {
	return c.applyEnv(ctx, envconfig.OsLookuper())
}

func (c *Config) applyEnv(ctx context.Context, l envconfig.Lookuper) error {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: l,
	}); err != nil {
		return fmt.Errorf("process env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Logging.Level, env.LogLevel)
	set(&c.Logging.Format, env.LogFormat)
	set(&c.Server.Addr, env.Addr)
	set(&c.Catalog.Source, env.CatalogSource)
	set(&c.Catalog.Path, env.CatalogPath)
	set(&c.Pricing.Provider, env.PriceProvider)
	set(&c.Pricing.APIKey, env.BinanceAPIKey)
	set(&c.Pricing.APISecret, env.BinanceAPISecret)
	set(&c.Pricing.OandaToken, env.OandaToken)
	set(&c.Pricing.OandaAccountID, env.OandaAccountID)
	set(&c.Pricing.OandaEnv, env.OandaEnv)
	return nil
}
