package risk

import (
	"fmt"
	"math"

	"github.com/rustyeddy/lotsize/market"
)

const (
	AggressiveFactor = 1.5
	ReducedFactor    = 0.5
)

// Setup is the recommended trade setup. Every numeric field is rounded to
// two decimal places.
type Setup struct {
	Instrument string `json:"instrument"`

	LotSize           float64 `json:"lot_size"`
	AggressiveLotSize float64 `json:"aggressive_lot_size"`
	ReducedLotSize    float64 `json:"reduced_lot_size"`

	StopLoss     float64 `json:"stop_loss"`     // points/pips
	ProfitTarget float64 `json:"profit_target"` // points/pips
	RiskPercent  float64 `json:"risk_percent"`
	RiskAmount   float64 `json:"risk_amount"`
	PipValue     float64 `json:"pip_value"`

	RiskMode     RiskMode     `json:"risk_mode"`
	StopLossMode StopLossMode `json:"stop_loss_mode"`
	ProfitMode   ProfitMode   `json:"profit_mode"`
}

// sizing holds the unrounded intermediate values.
type sizing struct {
	riskAmount   float64
	pipValue     float64
	baseStop     float64
	stopLoss     float64
	lotSize      float64
	profitTarget float64
	riskPercent  float64

	riskMode     RiskMode
	stopLossMode StopLossMode
	profitMode   ProfitMode
}

func (z sizing) setup(symbol string) Setup {
	return Setup{
		Instrument:        symbol,
		LotSize:           Round2(z.lotSize),
		AggressiveLotSize: Round2(z.lotSize * AggressiveFactor),
		ReducedLotSize:    Round2(z.lotSize * ReducedFactor),
		StopLoss:          Round2(z.stopLoss),
		ProfitTarget:      Round2(z.profitTarget),
		RiskPercent:       Round2(z.riskPercent),
		RiskAmount:        Round2(z.riskAmount),
		PipValue:          Round2(z.pipValue),
		RiskMode:          z.riskMode,
		StopLossMode:      z.stopLossMode,
		ProfitMode:        z.profitMode,
	}
}

// ComputeSetup sizes a position for the given instrument. It has no side
// effects and returns the same Setup for the same inputs.
func ComputeSetup(p Params, inst market.Instrument) (Setup, error) {
	z, err := compute(p, inst)
	if err != nil {
		return Setup{}, err
	}
	return z.setup(inst.Symbol), nil
}

func compute(p Params, inst market.Instrument) (sizing, error) {
	var z sizing

	if !(p.Balance > 0) || !finite(p.Balance) {
		return z, fmt.Errorf("%w: balance must be positive, got %v", ErrInvalidInput, p.Balance)
	}
	if p.DesiredProfit < 0 || !finite(p.DesiredProfit) {
		return z, fmt.Errorf("%w: desired profit must not be negative, got %v", ErrInvalidInput, p.DesiredProfit)
	}

	var err error
	if z.riskAmount, z.riskMode, err = riskAmount(p); err != nil {
		return z, err
	}
	if z.pipValue, err = pipValue(p, inst); err != nil {
		return z, err
	}
	if z.baseStop, z.stopLoss, z.stopLossMode, err = stopDistance(p, inst); err != nil {
		return z, err
	}

	per := z.stopLoss * z.pipValue
	if per == 0 {
		return z, fmt.Errorf("%w: stop %v times pip value %v underflows (%w)", ErrDivisionByZero, z.stopLoss, z.pipValue, ErrInvalidInput)
	}
	z.lotSize = math.Abs(z.riskAmount / per)
	if !finite(z.lotSize) || !finite(z.lotSize*AggressiveFactor) {
		return z, fmt.Errorf("%w: lot size overflow (stop %v, pip value %v)", ErrInvalidInput, z.stopLoss, z.pipValue)
	}

	if z.profitMode, err = ParseProfitMode(string(p.ProfitMode)); err != nil {
		return z, err
	}
	switch z.profitMode {
	case ProfitRatio:
		z.profitTarget = p.DesiredProfit / z.riskAmount * z.baseStop
	case ProfitRatioEffective:
		z.profitTarget = p.DesiredProfit / z.riskAmount * z.stopLoss
	case ProfitDirect:
		z.profitTarget = p.DesiredProfit / z.pipValue
	}
	if !finite(z.profitTarget) {
		return z, fmt.Errorf("%w: profit target overflow (profit %v, risk %v)", ErrInvalidInput, p.DesiredProfit, z.riskAmount)
	}

	z.riskPercent = RiskPct(z.riskAmount, p.Balance)
	if !finite(z.riskPercent) {
		return z, fmt.Errorf("%w: risk percent overflow (risk %v, balance %v)", ErrInvalidInput, z.riskAmount, p.Balance)
	}
	return z, nil
}

func riskAmount(p Params) (float64, RiskMode, error) {
	mode, err := ParseRiskMode(string(p.RiskMode))
	if err != nil {
		return 0, "", err
	}

	switch mode {
	case RiskFixed:
		if !(p.FixedLoss > 0) || !finite(p.FixedLoss) {
			return 0, mode, fmt.Errorf("%w: fixed loss must be positive, got %v", ErrInvalidInput, p.FixedLoss)
		}
		return p.FixedLoss, mode, nil
	default:
		if !(p.RiskPercent > 0) || !finite(p.RiskPercent) {
			return 0, mode, fmt.Errorf("%w: risk percent must be positive, got %v", ErrInvalidInput, p.RiskPercent)
		}
		if p.MaxLoss < 0 || !finite(p.MaxLoss) {
			return 0, mode, fmt.Errorf("%w: max loss must not be negative, got %v", ErrInvalidInput, p.MaxLoss)
		}
		amt := p.Balance * p.RiskPercent / 100
		if p.MaxLoss > 0 {
			amt = math.Min(amt, p.MaxLoss)
		}
		if !finite(amt) {
			return 0, mode, fmt.Errorf("%w: risk amount overflow (balance %v, percent %v)", ErrInvalidInput, p.Balance, p.RiskPercent)
		}
		if amt == 0 {
			return 0, mode, fmt.Errorf("%w: risk amount underflows to zero (%w)", ErrDivisionByZero, ErrInvalidInput)
		}
		return amt, mode, nil
	}
}

func pipValue(p Params, inst market.Instrument) (float64, error) {
	v := inst.PipValue
	if p.PipValue != nil {
		v = *p.PipValue
	}
	if v < 0 || !finite(v) {
		return 0, fmt.Errorf("%w: pip value must be positive, got %v", ErrInvalidInput, v)
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: pip value for %s is zero (%w)", ErrDivisionByZero, inst.Symbol, ErrInvalidInput)
	}
	return v, nil
}

// stopDistance returns the base distance (user stop or ADR) and the
// effective distance: base * volatility factor / style multiplier.
func stopDistance(p Params, inst market.Instrument) (base, effective float64, mode StopLossMode, err error) {
	mode, err = ParseStopLossMode(string(p.StopLossMode))
	if err != nil {
		return 0, 0, "", err
	}

	vf := p.VolatilityFactor
	if vf == 0 {
		vf = 1
	}
	if vf < 0 || !finite(vf) {
		return 0, 0, mode, fmt.Errorf("%w: volatility factor must be positive, got %v", ErrInvalidInput, p.VolatilityFactor)
	}
	mult, err := p.Style.Multiplier()
	if err != nil {
		return 0, 0, mode, err
	}

	switch mode {
	case StopLossVolatility:
		base = inst.AverageDailyRange()
		if !finite(base) || base < 0 {
			return 0, 0, mode, fmt.Errorf("%w: %s has invalid average range %v", ErrInvalidInput, inst.Symbol, inst.AverageMonthlyRange)
		}
		if base == 0 {
			return 0, 0, mode, fmt.Errorf("%w: %s has no average range (%w)", ErrDivisionByZero, inst.Symbol, ErrInvalidInput)
		}
	default:
		if p.StopLoss < 0 || !finite(p.StopLoss) {
			return 0, 0, mode, fmt.Errorf("%w: stop loss must be positive, got %v", ErrInvalidInput, p.StopLoss)
		}
		base = p.StopLoss
	}

	d := base * vf / mult
	if !finite(d) {
		return 0, 0, mode, fmt.Errorf("%w: stop loss distance overflow (base %v, factor %v)", ErrInvalidInput, base, vf)
	}
	if d == 0 {
		return 0, 0, mode, fmt.Errorf("%w: stop loss distance is zero (%w)", ErrDivisionByZero, ErrInvalidInput)
	}
	return base, d, mode, nil
}

// Lookup resolves instrument symbols. *market.Catalog implements it.
type Lookup interface {
	Lookup(symbol string) (market.Instrument, error)
}

// Sizer binds ComputeSetup to an instrument reference table.
type Sizer struct {
	instruments Lookup
}

func NewSizer(instruments Lookup) *Sizer {
	return &Sizer{instruments: instruments}
}

// Compute looks up the instrument and sizes the position. An unknown symbol
// fails before any input is evaluated.
func (s *Sizer) Compute(p Params) (Setup, error) {
	inst, err := s.instruments.Lookup(p.Instrument)
	if err != nil {
		return Setup{}, err
	}
	return ComputeSetup(p, inst)
}

// SafeSetup is the result of the capped "safe lot size" sizing.
type SafeSetup struct {
	Instrument  string  `json:"instrument,omitempty"`
	RiskAmount  float64 `json:"risk_amount"`
	LotSize     float64 `json:"lot_size"`
	RiskPercent float64 `json:"risk_percent"`
}

// SafeLotSize risks the smaller of balance*riskPercent/100 and maxLoss and
// returns the lot size per one point of stop distance. maxLoss <= 0 disables
// the cap.
func SafeLotSize(balance, riskPercent, maxLoss, pipValue float64) (SafeSetup, error) {
	p := Params{
		Balance:     balance,
		RiskMode:    RiskPercent,
		RiskPercent: riskPercent,
		MaxLoss:     math.Max(maxLoss, 0),
	}
	if !(balance > 0) || !finite(balance) {
		return SafeSetup{}, fmt.Errorf("%w: balance must be positive, got %v", ErrInvalidInput, balance)
	}
	amt, _, err := riskAmount(p)
	if err != nil {
		return SafeSetup{}, err
	}
	if pipValue < 0 || !finite(pipValue) {
		return SafeSetup{}, fmt.Errorf("%w: pip value must be positive, got %v", ErrInvalidInput, pipValue)
	}
	if pipValue == 0 {
		return SafeSetup{}, fmt.Errorf("%w: pip value is zero (%w)", ErrDivisionByZero, ErrInvalidInput)
	}

	lot, pct := amt/pipValue, RiskPct(amt, balance)
	if !finite(lot) || !finite(pct) {
		return SafeSetup{}, fmt.Errorf("%w: safe lot size overflow (risk %v, pip value %v)", ErrInvalidInput, amt, pipValue)
	}

	return SafeSetup{
		RiskAmount:  Round2(amt),
		LotSize:     Round2(lot),
		RiskPercent: Round2(pct),
	}, nil
}

// SafeLotSize looks up the pip value of instrument and calls SafeLotSize.
func (s *Sizer) SafeLotSize(instrument string, balance, riskPercent, maxLoss float64) (SafeSetup, error) {
	inst, err := s.instruments.Lookup(instrument)
	if err != nil {
		return SafeSetup{}, err
	}
	out, err := SafeLotSize(balance, riskPercent, maxLoss, inst.PipValue)
	if err != nil {
		return SafeSetup{}, err
	}
	out.Instrument = inst.Symbol
	return out, nil
}
