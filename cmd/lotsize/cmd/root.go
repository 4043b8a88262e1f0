package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lotsize",
	Short: "Position sizing calculator for FX, metals, indices and crypto",
	Long: `Lotsize turns an account balance and a risk budget into a recommended
lot size, stop distance and profit target for one instrument.

It provides tools for:
  - Sizing a trade from a fixed loss or a percent of balance
  - Volatility based stops from the average monthly range
  - A capped "safe" lot size per point of stop
  - Live pip values for crypto pairs from Binance
  - Keeping a custom instrument table in a file or SQLite
  - Serving the calculator over HTTP`,
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootLogLevel   string
	rootEnvFiles   []string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&rootEnvFiles, "env-file", nil, "dotenv files to load (default .env)")
}
