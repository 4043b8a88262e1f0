package risk

import (
	"fmt"
	"strings"
)

// RiskMode selects how the amount at risk is derived.
type RiskMode string

const (
	RiskFixed   RiskMode = "fixed"   // a fixed permitted loss in account currency
	RiskPercent RiskMode = "percent" // a percentage of the balance
)

// StopLossMode selects where the stop distance comes from.
type StopLossMode string

const (
	StopLossUser       StopLossMode = "user"       // supplied by the trader
	StopLossVolatility StopLossMode = "volatility" // average daily range * factor
)

// ProfitMode selects the profit target formula. The modes are not
// interchangeable and give different numbers for the same inputs.
type ProfitMode string

const (
	// ProfitRatio scales the base stop distance (user stop or ADR, before
	// volatility factor and style) by desired profit / risk amount.
	ProfitRatio ProfitMode = "ratio"
	// ProfitRatioEffective scales the effective stop distance instead, so the
	// target always pays the desired profit at the computed lot size.
	ProfitRatioEffective ProfitMode = "ratio_effective"
	// ProfitDirect divides the desired profit by the pip value.
	ProfitDirect ProfitMode = "direct"
)

// Style is the trading style. Its multiplier shrinks the stop for faster
// styles and widens it for slower ones.
type Style string

const (
	StyleNone     Style = ""
	StyleScalping Style = "scalping"
	StyleDay      Style = "day"
	StyleSwing    Style = "swing"
)

// Multiplier returns the risk multiplier for the style.
func (s Style) Multiplier() (float64, error) {
	switch s {
	case StyleNone, StyleDay:
		return 1.0, nil
	case StyleScalping:
		return 2.0, nil
	case StyleSwing:
		return 0.5, nil
	}
	return 0, fmt.Errorf("%w: unknown trading style %q", ErrInvalidInput, string(s))
}

// ParseRiskMode accepts the mode names used in config files and flags.
func ParseRiskMode(s string) (RiskMode, error) {
	switch RiskMode(strings.ToLower(strings.TrimSpace(s))) {
	case RiskFixed, "amount":
		return RiskFixed, nil
	case RiskPercent, "percentage", "pct":
		return RiskPercent, nil
	}
	return "", fmt.Errorf("%w: unknown risk mode %q", ErrInvalidInput, s)
}

func ParseStopLossMode(s string) (StopLossMode, error) {
	switch StopLossMode(strings.ToLower(strings.TrimSpace(s))) {
	case StopLossUser, "manual", "":
		return StopLossUser, nil
	case StopLossVolatility, "adr":
		return StopLossVolatility, nil
	}
	return "", fmt.Errorf("%w: unknown stop-loss mode %q", ErrInvalidInput, s)
}

func ParseProfitMode(s string) (ProfitMode, error) {
	switch ProfitMode(strings.ToLower(strings.TrimSpace(s))) {
	case ProfitRatio, "":
		return ProfitRatio, nil
	case ProfitDirect:
		return ProfitDirect, nil
	case ProfitRatioEffective, "effective":
		return ProfitRatioEffective, nil
	}
	return "", fmt.Errorf("%w: unknown profit mode %q", ErrInvalidInput, s)
}

func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, err := st.Multiplier(); err != nil {
		return "", err
	}
	return st, nil
}

// Params are the trade parameters of a single sizing request.
type Params struct {
	Instrument string  `json:"instrument" yaml:"instrument"`
	Balance    float64 `json:"balance" yaml:"balance"`

	RiskMode    RiskMode `json:"risk_mode" yaml:"risk_mode"`
	FixedLoss   float64  `json:"fixed_loss,omitempty" yaml:"fixed_loss,omitempty"`
	RiskPercent float64  `json:"risk_percent,omitempty" yaml:"risk_percent,omitempty"`
	// MaxLoss caps the percentage risk amount when > 0.
	MaxLoss float64 `json:"max_loss,omitempty" yaml:"max_loss,omitempty"`

	DesiredProfit float64    `json:"desired_profit" yaml:"desired_profit"`
	ProfitMode    ProfitMode `json:"profit_mode,omitempty" yaml:"profit_mode,omitempty"`

	StopLossMode     StopLossMode `json:"stop_loss_mode,omitempty" yaml:"stop_loss_mode,omitempty"`
	StopLoss         float64      `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
	VolatilityFactor float64      `json:"volatility_factor,omitempty" yaml:"volatility_factor,omitempty"`
	Style            Style        `json:"style,omitempty" yaml:"style,omitempty"`

	// PipValue overrides the table value, typically with a live lookup.
	PipValue *float64 `json:"pip_value,omitempty" yaml:"pip_value,omitempty"`
}

// Violation is a soft rule the computed setup breaks.
type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Limits are the soft rules a setup is checked against. Zero disables a rule.
type Limits struct {
	MaxRiskPercent  float64 `json:"max_risk_percent" yaml:"max_risk_percent"`
	MinRewardToRisk float64 `json:"min_reward_to_risk" yaml:"min_reward_to_risk"`
	MinLotSize      float64 `json:"min_lot_size" yaml:"min_lot_size"`
}

// Check reports which limits the setup violates. It never changes the setup.
func Check(l Limits, s Setup) []Violation {
	var out []Violation
	if l.MaxRiskPercent > 0 && s.RiskPercent > l.MaxRiskPercent {
		out = append(out, Violation{"RISK_TOO_HIGH",
			fmt.Sprintf("risk %.2f%% exceeds max %.2f%%", s.RiskPercent, l.MaxRiskPercent)})
	}
	if l.MinRewardToRisk > 0 && s.StopLoss > 0 {
		if rr := RR(s.StopLoss, s.ProfitTarget); rr < l.MinRewardToRisk {
			out = append(out, Violation{"RR_TOO_LOW",
				fmt.Sprintf("reward/risk %.2f below minimum %.2f", rr, l.MinRewardToRisk)})
		}
	}
	if l.MinLotSize > 0 && s.LotSize < l.MinLotSize {
		out = append(out, Violation{"LOT_TOO_SMALL",
			fmt.Sprintf("lot size %.2f below broker minimum %.2f", s.LotSize, l.MinLotSize)})
	}
	return out
}
