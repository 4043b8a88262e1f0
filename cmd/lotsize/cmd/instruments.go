package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var instrumentsCmd = &cobra.Command{
	Use:     "instruments [symbol...]",
	Aliases: []string{"inst"},
	Short:   "List the instrument table",
	Long: `Print pip value and average ranges for every known instrument, or only
for the symbols given.

Examples:
  lotsize instruments
  lotsize instruments EUR/USD btcusd`,
	RunE: runInstruments,
}

func init() {
	rootCmd.AddCommand(instrumentsCmd)
}

func runInstruments(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	symbols := args
	if len(symbols) == 0 {
		symbols = a.svc.Catalog.Symbols()
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Symbol\tPip Value\tAMR\tADR\tQuote\tLive")
	for _, s := range symbols {
		in, err := a.svc.Catalog.Lookup(s)
		if err != nil {
			return err
		}
		live := "-"
		if in.LiveSymbol != "" {
			live = in.LiveSymbol
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.0f\t%.2f\t%s\t%s\n",
			in.Symbol, in.PipValue, in.AverageMonthlyRange, in.AverageDailyRange(), in.QuoteCurrency, live)
	}
	return tw.Flush()
}
