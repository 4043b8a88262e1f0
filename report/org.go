package report

import (
	"fmt"
	"strings"
	"time"
)

// FormatOrg renders an entry as an Org-mode block for pasting into a trading
// journal. Structured facts go in the PROPERTIES drawer.
func FormatOrg(e Entry) string {
	s := e.Setup

	var b strings.Builder
	fmt.Fprintf(&b, "** Setup: %s (%s)\n", s.Instrument, shortID(e.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", e.ID)
	fmt.Fprintf(&b, ":TIME: %s\n", e.At.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", s.Instrument)
	fmt.Fprintf(&b, ":BALANCE: %.2f\n", e.Params.Balance)
	fmt.Fprintf(&b, ":RISK_MODE: %s\n", s.RiskMode)
	fmt.Fprintf(&b, ":STOP_LOSS_MODE: %s\n", s.StopLossMode)
	fmt.Fprintf(&b, ":PROFIT_MODE: %s\n", s.ProfitMode)
	fmt.Fprintf(&b, ":LOT_SIZE: %.2f\n", s.LotSize)
	fmt.Fprintf(&b, ":STOP_LOSS: %.2f\n", s.StopLoss)
	fmt.Fprintf(&b, ":PROFIT_TARGET: %.2f\n", s.ProfitTarget)
	fmt.Fprintf(&b, ":RISK_PERCENT: %.2f\n", s.RiskPercent)
	fmt.Fprintf(&b, ":RISK_AMOUNT: %.2f\n", s.RiskAmount)
	b.WriteString(":END:\n")
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "- [ ] %s: %s\n", v.Code, v.Msg)
	}
	b.WriteString("\n*** Thesis\n- \n")

	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
