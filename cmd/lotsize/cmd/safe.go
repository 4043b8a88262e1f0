package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/lotsize/report"
	"github.com/spf13/cobra"
)

var safeCmd = &cobra.Command{
	Use:   "safe",
	Short: "Compute the capped safe lot size",
	Long: `Risk the smaller of balance*percent/100 and the max loss, and report
the lot size per one point of stop distance.

Example:
  lotsize safe --instrument XAUUSD --balance 10000 --risk-percent 1 --max-loss 100`,
	RunE: runSafe,
}

var (
	safeInstrument  string
	safeBalance     float64
	safeRiskPercent float64
	safeMaxLoss     float64
	safeJSON        bool
)

func init() {
	rootCmd.AddCommand(safeCmd)

	safeCmd.Flags().StringVarP(&safeInstrument, "instrument", "i", "", "instrument symbol (default sizing.instrument)")
	safeCmd.Flags().Float64VarP(&safeBalance, "balance", "b", 0, "account balance (default account.balance)")
	safeCmd.Flags().Float64Var(&safeRiskPercent, "risk-percent", 0, "percent of balance to risk (default sizing.risk_percent)")
	safeCmd.Flags().Float64Var(&safeMaxLoss, "max-loss", 0, "cap on the risk amount (default sizing.max_loss)")
	safeCmd.Flags().BoolVar(&safeJSON, "json", false, "print JSON instead of a table")
}

func runSafe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	p := a.cfg.Params()
	fs := cmd.Flags()
	if fs.Changed("instrument") {
		p.Instrument = safeInstrument
	}
	if fs.Changed("balance") {
		p.Balance = safeBalance
	}
	if fs.Changed("risk-percent") {
		p.RiskPercent = safeRiskPercent
	}
	if fs.Changed("max-loss") {
		p.MaxLoss = safeMaxLoss
	}

	s, err := a.svc.Safe(p.Instrument, p.Balance, p.RiskPercent, p.MaxLoss)
	if err != nil {
		return fmt.Errorf("safe lot size: %w", err)
	}

	out := cmd.OutOrStdout()
	if safeJSON {
		return json.NewEncoder(out).Encode(s)
	}
	fmt.Fprintf(out, "Safe Lot Size for %s\n\n", s.Instrument)
	return report.WriteSafeTable(out, s)
}
