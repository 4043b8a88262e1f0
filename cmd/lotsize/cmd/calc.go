package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rustyeddy/lotsize/report"
	"github.com/rustyeddy/lotsize/risk"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute a trade setup",
	Long: `Compute lot size, stop distance and profit target for one trade.

Flags override the sizing section of the config file; anything not given
on the command line comes from the config (or the built-in defaults).

Examples:
  lotsize calc --instrument EURUSD --balance 10000 --fixed-loss 70 --stop-loss 50 --profit 500
  lotsize calc -i XAUUSD --risk-mode percent --risk-percent 1 --max-loss 150 --stop-mode volatility --style day
  lotsize calc -i BTCUSD --format json`,
	RunE: runCalc,
}

// sizingFlags mirror risk.Params.
type sizingFlags struct {
	instrument  string
	balance     float64
	riskMode    string
	fixedLoss   float64
	riskPercent float64
	maxLoss     float64
	profit      float64
	profitMode  string
	stopMode    string
	stopLoss    float64
	volatility  float64
	style       string
	pipValue    float64
}

var (
	calcOpts   sizingFlags
	calcFormat string
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcOpts.register(calcCmd.Flags())
	calcCmd.Flags().StringVarP(&calcFormat, "format", "o", "table", "output format: table, csv, org or json")
}

func (o *sizingFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.instrument, "instrument", "i", "", "instrument symbol, e.g. EURUSD or BTC/USD")
	fs.Float64VarP(&o.balance, "balance", "b", 0, "account balance")
	fs.StringVar(&o.riskMode, "risk-mode", "", "fixed or percent")
	fs.Float64Var(&o.fixedLoss, "fixed-loss", 0, "amount to risk in fixed mode")
	fs.Float64Var(&o.riskPercent, "risk-percent", 0, "percent of balance to risk in percent mode")
	fs.Float64Var(&o.maxLoss, "max-loss", 0, "cap on the percent risk amount (0 = no cap)")
	fs.Float64Var(&o.profit, "profit", 0, "desired profit amount")
	fs.StringVar(&o.profitMode, "profit-mode", "", "ratio, ratio_effective or direct")
	fs.StringVar(&o.stopMode, "stop-mode", "", "user or volatility")
	fs.Float64Var(&o.stopLoss, "stop-loss", 0, "stop distance in points (user mode)")
	fs.Float64Var(&o.volatility, "volatility", 0, "volatility factor applied to the stop")
	fs.StringVar(&o.style, "style", "", "scalping, day or swing")
	fs.Float64Var(&o.pipValue, "pip-value", 0, "override the instrument pip value")
}

// apply overwrites p with every flag set on the command line.
func (o *sizingFlags) apply(fs *pflag.FlagSet, p *risk.Params) {
	str := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	num := func(name string, dst *float64, v float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}

	str("instrument", &p.Instrument, o.instrument)
	num("balance", &p.Balance, o.balance)
	num("fixed-loss", &p.FixedLoss, o.fixedLoss)
	num("risk-percent", &p.RiskPercent, o.riskPercent)
	num("max-loss", &p.MaxLoss, o.maxLoss)
	num("profit", &p.DesiredProfit, o.profit)
	num("stop-loss", &p.StopLoss, o.stopLoss)
	num("volatility", &p.VolatilityFactor, o.volatility)

	if fs.Changed("risk-mode") {
		p.RiskMode = risk.RiskMode(o.riskMode)
	}
	if fs.Changed("profit-mode") {
		p.ProfitMode = risk.ProfitMode(o.profitMode)
	}
	if fs.Changed("stop-mode") {
		p.StopLossMode = risk.StopLossMode(o.stopMode)
	}
	if fs.Changed("style") {
		p.Style = risk.Style(o.style)
	}
	if fs.Changed("pip-value") {
		v := o.pipValue
		p.PipValue = &v
	}
}

func runCalc(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	p := a.cfg.Params()
	calcOpts.apply(cmd.Flags(), &p)

	e, err := a.svc.Compute(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	return writeEntry(cmd.OutOrStdout(), calcFormat, e)
}

func writeEntry(w io.Writer, format string, e report.Entry) error {
	switch format {
	case "", "table":
		return report.WriteTable(w, e)
	case "csv":
		cw, err := report.NewCSV(w)
		if err != nil {
			return err
		}
		return cw.Write(e)
	case "org":
		_, err := io.WriteString(w, report.FormatOrg(e))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	}
	return fmt.Errorf("unknown output format %q", format)
}
