package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rustyeddy/lotsize/risk"
)

// WriteTable renders the setup as an aligned Metric/Value table.
func WriteTable(w io.Writer, e Entry) error {
	fmt.Fprintf(w, "Recommended Trade Setup for %s\n\n", e.Setup.Instrument)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Metric\tValue")
	fmt.Fprintln(tw, "------\t-----")
	for _, m := range Metrics(e.Setup) {
		fmt.Fprintf(tw, "%s\t%.2f\n", m.Name, m.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, v := range e.Violations {
		fmt.Fprintf(w, "! %s: %s\n", v.Code, v.Msg)
	}
	return nil
}

// WriteSafeTable renders a capped safe lot size result.
func WriteSafeTable(w io.Writer, s risk.SafeSetup) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Metric\tValue")
	fmt.Fprintln(tw, "------\t-----")
	fmt.Fprintf(tw, "Risk Amount\t%.2f\n", s.RiskAmount)
	fmt.Fprintf(tw, "Safe Lot Size (per point)\t%.2f\n", s.LotSize)
	fmt.Fprintf(tw, "Risk Percentage (%%)\t%.2f\n", s.RiskPercent)
	return tw.Flush()
}
