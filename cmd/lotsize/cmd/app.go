package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/lotsize/config"
	"github.com/rustyeddy/lotsize/internal/logging"
	"github.com/rustyeddy/lotsize/internal/service"
	"github.com/rustyeddy/lotsize/market"
	"github.com/rustyeddy/lotsize/pricing"
)

// app is everything a command needs after startup.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	svc *service.Service
}

// loadConfig reads the config file (or the defaults), overlays the
// environment and validates the result.
func loadConfig(ctx context.Context, path, logLevel string, envFiles []string) (*config.Config, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(ctx); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openCatalog(c config.CatalogConfig) (*market.Catalog, error) {
	switch c.Source {
	case "file":
		return market.LoadCatalogFile(c.Path)
	case "sqlite":
		st, err := market.OpenStore(c.Path)
		if err != nil {
			return nil, fmt.Errorf("open catalog store: %w", err)
		}
		defer st.Close()
		return st.Load()
	default:
		return market.DefaultCatalog(), nil
	}
}

// newResolver returns nil when live pricing is off.
func newResolver(cfg *config.Config, log zerolog.Logger) (*pricing.PipValueResolver, error) {
	providers := cfg.Pricing.Providers()
	if len(providers) == 0 {
		return nil, nil
	}

	timeout, err := cfg.Pricing.ParseTimeout()
	if err != nil {
		return nil, fmt.Errorf("pricing.timeout: %w", err)
	}
	fb, err := pricing.ParseFallback(cfg.Pricing.Fallback)
	if err != nil {
		return nil, err
	}

	var chain pricing.Chain
	for _, name := range providers {
		switch name {
		case "binance":
			chain = append(chain, pricing.NewBinanceSource(pricing.BinanceOptions{
				APIKey:            cfg.Pricing.APIKey,
				APISecret:         cfg.Pricing.APISecret,
				BaseURL:           cfg.Pricing.BaseURL,
				RequestsPerSecond: cfg.Pricing.RequestsPerSecond,
				Timeout:           timeout,
			}))
		case "oanda":
			base, err := pricing.OandaBaseURL(cfg.Pricing.OandaEnv)
			if err != nil {
				return nil, err
			}
			src, err := pricing.NewOandaSource(pricing.OandaOptions{
				Token:             cfg.Pricing.OandaToken,
				AccountID:         cfg.Pricing.OandaAccountID,
				BaseURL:           base,
				RequestsPerSecond: cfg.Pricing.RequestsPerSecond,
				Timeout:           timeout,
			})
			if err != nil {
				return nil, err
			}
			chain = append(chain, src)
		default:
			return nil, fmt.Errorf("unknown price provider %q", name)
		}
	}

	var src pricing.TickSource = chain
	if len(chain) == 1 {
		src = chain[0]
	}
	log.Debug().Strs("providers", providers).Str("fallback", string(fb)).Msg("live pricing enabled")

	return &pricing.PipValueResolver{
		Source:          src,
		AccountCurrency: cfg.Account.Currency,
		Fallback:        fb,
		Log:             log,
	}, nil
}

// newApp builds the service from configuration. Logs go to logOut so that
// command output on stdout stays machine readable.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(ctx, rootConfigPath, rootLogLevel, rootEnvFiles)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, logOut)
}

func buildApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	log, err := logging.New(logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	cat, err := openCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}
	log.Debug().Str("source", cfg.Catalog.Source).Int("instruments", cat.Len()).Msg("catalog loaded")

	res, err := newResolver(cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg: cfg,
		log: log,
		svc: service.New(cat, res, cfg.Limits, log),
	}, nil
}
