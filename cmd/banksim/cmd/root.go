package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "banksim",
	Short: "A bank balance-sheet liquidity stress simulator",
	Long: `Banksim is a deterministic liquidity stress-testing engine written in Go.

It provides tools for:
  - Simulating deposit runs, fire sales and credit deterioration
  - Computing Basel III metrics (LCR, NSFR, capital ratios) per period
  - Analyzing survival horizons and failure drivers
  - Journaling runs to SQLite or CSV for later comparison
  - Contingency funding actions (capital raises, facility draws)

Complete documentation is available at https://github.com/rustyeddy/banksim`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
