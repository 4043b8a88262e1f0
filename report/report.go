// report/report.go
package report

import (
	"time"

	"github.com/rustyeddy/lotsize/pkg/id"
	"github.com/rustyeddy/lotsize/risk"
)

// Entry is one computed setup together with the parameters that produced it.
// The ID and time are for display and log correlation only; the setup itself
// does not depend on them.
type Entry struct {
	ID         string           `json:"id"`
	At         time.Time        `json:"at"`
	Params     risk.Params      `json:"params"`
	Setup      risk.Setup       `json:"setup"`
	Violations []risk.Violation `json:"violations,omitempty"`
}

func NewEntry(p risk.Params, s risk.Setup, v []risk.Violation) Entry {
	return Entry{
		ID:         id.New(),
		At:         time.Now().UTC(),
		Params:     p,
		Setup:      s,
		Violations: v,
	}
}

// Metric is one row of the recommended setup table.
type Metric struct {
	Name  string
	Value float64
}

// Metrics lists the setup as the classic four-row table followed by the
// derived lot sizes.
func Metrics(s risk.Setup) []Metric {
	return []Metric{
		{"Recommended Lot Size", s.LotSize},
		{"Profit Target (Points/Pips)", s.ProfitTarget},
		{"Stop Loss (Points/Pips)", s.StopLoss},
		{"Risk Percentage (%)", s.RiskPercent},
		{"Risk Amount", s.RiskAmount},
		{"Aggressive Lot Size (1.5x)", s.AggressiveLotSize},
		{"Reduced Lot Size (0.5x)", s.ReducedLotSize},
	}
}
