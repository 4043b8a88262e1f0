package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/lotsize/market"
	"github.com/rustyeddy/lotsize/pricing"
	"github.com/rustyeddy/lotsize/report"
	"github.com/rustyeddy/lotsize/risk"
)

// Service wires the instrument table, the optional live pip value lookup and
// the sizer. It holds no per-request state.
type Service struct {
	Catalog  *market.Catalog
	Resolver *pricing.PipValueResolver // nil disables live lookups
	Limits   risk.Limits
	Log      zerolog.Logger

	sizer *risk.Sizer
}

func New(c *market.Catalog, r *pricing.PipValueResolver, l risk.Limits, log zerolog.Logger) *Service {
	return &Service{
		Catalog:  c,
		Resolver: r,
		Limits:   l,
		Log:      log,
		sizer:    risk.NewSizer(c),
	}
}

// Compute resolves the pip value, sizes the position and checks limits.
// The live lookup runs before the sizer; the sizer itself does no I/O.
func (s *Service) Compute(ctx context.Context, p risk.Params) (report.Entry, error) {
	inst, err := s.Catalog.Lookup(p.Instrument)
	if err != nil {
		return report.Entry{}, err
	}

	if p.PipValue == nil && s.Resolver != nil {
		v, err := s.Resolver.Resolve(ctx, inst)
		if err != nil {
			return report.Entry{}, fmt.Errorf("pip value for %s: %w", inst.Symbol, err)
		}
		p.PipValue = &v
	}

	setup, err := s.sizer.Compute(p)
	if err != nil {
		s.Log.Debug().Err(err).Str("instrument", inst.Symbol).Msg("setup rejected")
		return report.Entry{}, err
	}

	e := report.NewEntry(p, setup, risk.Check(s.Limits, setup))
	s.Log.Info().
		Str("id", e.ID).
		Str("instrument", setup.Instrument).
		Float64("lot_size", setup.LotSize).
		Float64("stop_loss", setup.StopLoss).
		Float64("risk_percent", setup.RiskPercent).
		Int("violations", len(e.Violations)).
		Msg("setup computed")
	return e, nil
}

// Safe computes the capped safe lot size for an instrument.
func (s *Service) Safe(instrument string, balance, riskPercent, maxLoss float64) (risk.SafeSetup, error) {
	return s.sizer.SafeLotSize(instrument, balance, riskPercent, maxLoss)
}
