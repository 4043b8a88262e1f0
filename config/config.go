package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/lotsize/pricing"
	"github.com/rustyeddy/lotsize/risk"
	"gopkg.in/yaml.v3"
)

// Config represents the complete calculator configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Sizing  SizingConfig  `json:"sizing" yaml:"sizing"`
	Limits  risk.Limits   `json:"limits" yaml:"limits"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// AccountConfig contains the trading account
type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// SizingConfig contains the default trade parameters
type SizingConfig struct {
	Instrument       string  `json:"instrument" yaml:"instrument"`
	RiskMode         string  `json:"risk_mode" yaml:"risk_mode"`
	FixedLoss        float64 `json:"fixed_loss" yaml:"fixed_loss"`
	RiskPercent      float64 `json:"risk_percent" yaml:"risk_percent"`
	MaxLoss          float64 `json:"max_loss" yaml:"max_loss"`
	DesiredProfit    float64 `json:"desired_profit" yaml:"desired_profit"`
	ProfitMode       string  `json:"profit_mode" yaml:"profit_mode"`
	StopLossMode     string  `json:"stop_loss_mode" yaml:"stop_loss_mode"`
	StopLoss         float64 `json:"stop_loss" yaml:"stop_loss"`
	VolatilityFactor float64 `json:"volatility_factor" yaml:"volatility_factor"`
	Style            string  `json:"style,omitempty" yaml:"style,omitempty"`
}

// CatalogConfig selects where the instrument table is loaded from
type CatalogConfig struct {
	Source string `json:"source" yaml:"source"` // "builtin", "file" or "sqlite"
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PricingConfig contains live price lookup parameters
type PricingConfig struct {
	Provider          string  `json:"provider" yaml:"provider"` // "none", "binance", "oanda" or "binance,oanda"
	Fallback          string  `json:"fallback" yaml:"fallback"` // "static" or "abort"
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Timeout           string  `json:"timeout" yaml:"timeout"` // e.g. "10s"
	BaseURL           string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	OandaEnv          string  `json:"oanda_env,omitempty" yaml:"oanda_env,omitempty"` // "practice" or "live"
	OandaAccountID    string  `json:"oanda_account_id,omitempty" yaml:"oanda_account_id,omitempty"`

	// Credentials come from the environment only.
	APIKey     string `json:"-" yaml:"-"`
	APISecret  string `json:"-" yaml:"-"`
	OandaToken string `json:"-" yaml:"-"`
}

// Providers splits the provider list. "none" and "" yield nothing.
func (p PricingConfig) Providers() []string {
	var out []string
	for _, name := range strings.Split(p.Provider, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == "none" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// ParseTimeout converts the timeout string to time.Duration
func (p PricingConfig) ParseTimeout() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(p.Timeout)
}

// LoggingConfig contains log output parameters
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// ServerConfig contains HTTP listener parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. Trade parameters are
// checked by the sizer itself; here only their shape is checked.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if _, err := risk.ParseRiskMode(c.Sizing.RiskMode); err != nil {
		return fmt.Errorf("sizing.risk_mode: %w", err)
	}
	if _, err := risk.ParseStopLossMode(c.Sizing.StopLossMode); err != nil {
		return fmt.Errorf("sizing.stop_loss_mode: %w", err)
	}
	if _, err := risk.ParseProfitMode(c.Sizing.ProfitMode); err != nil {
		return fmt.Errorf("sizing.profit_mode: %w", err)
	}
	if _, err := risk.ParseStyle(c.Sizing.Style); err != nil {
		return fmt.Errorf("sizing.style: %w", err)
	}
	if c.Sizing.RiskPercent < 0 || c.Sizing.RiskPercent > 100 {
		return fmt.Errorf("sizing.risk_percent must be between 0 and 100")
	}
	if c.Sizing.VolatilityFactor < 0 {
		return fmt.Errorf("sizing.volatility_factor must not be negative")
	}

	switch c.Catalog.Source {
	case "", "builtin":
	case "file", "sqlite":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path required for %s source", c.Catalog.Source)
		}
	default:
		return fmt.Errorf("catalog.source must be 'builtin', 'file' or 'sqlite'")
	}

	for _, name := range c.Pricing.Providers() {
		switch name {
		case "binance":
		case "oanda":
			if _, err := pricing.OandaBaseURL(c.Pricing.OandaEnv); err != nil {
				return fmt.Errorf("pricing.oanda_env: %w", err)
			}
		default:
			return fmt.Errorf("pricing.provider must be 'none', 'binance' or 'oanda', got %q", name)
		}
	}
	if _, err := pricing.ParseFallback(c.Pricing.Fallback); err != nil {
		return fmt.Errorf("pricing.fallback: %w", err)
	}
	if c.Pricing.RequestsPerSecond < 0 {
		return fmt.Errorf("pricing.requests_per_second must not be negative")
	}
	if _, err := c.Pricing.ParseTimeout(); err != nil {
		return fmt.Errorf("pricing.timeout: %w", err)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be 'console' or 'json'")
	}
	return nil
}

// Params converts the configured defaults into trade parameters.
func (c *Config) Params() risk.Params {
	s := c.Sizing
	return risk.Params{
		Instrument:       s.Instrument,
		Balance:          c.Account.Balance,
		RiskMode:         risk.RiskMode(strings.ToLower(s.RiskMode)),
		FixedLoss:        s.FixedLoss,
		RiskPercent:      s.RiskPercent,
		MaxLoss:          s.MaxLoss,
		DesiredProfit:    s.DesiredProfit,
		ProfitMode:       risk.ProfitMode(strings.ToLower(s.ProfitMode)),
		StopLossMode:     risk.StopLossMode(strings.ToLower(s.StopLossMode)),
		StopLoss:         s.StopLoss,
		VolatilityFactor: s.VolatilityFactor,
		Style:            risk.Style(strings.ToLower(s.Style)),
	}
}

// Default returns a configuration matching the classic calculator form:
// a 10,000 balance risking a fixed 70 for a 500 target over 50 points.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency: "USD",
			Balance:  10000,
		},
		Sizing: SizingConfig{
			Instrument:       "EURUSD",
			RiskMode:         string(risk.RiskFixed),
			FixedLoss:        70,
			RiskPercent:      1,
			DesiredProfit:    500,
			ProfitMode:       string(risk.ProfitRatio),
			StopLossMode:     string(risk.StopLossUser),
			StopLoss:         50,
			VolatilityFactor: 1,
		},
		Limits: risk.Limits{
			MaxRiskPercent: 2,
		},
		Catalog: CatalogConfig{
			Source: "builtin",
		},
		Pricing: PricingConfig{
			Provider:          "none",
			Fallback:          string(pricing.FallbackStatic),
			RequestsPerSecond: 5,
			Timeout:           "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
