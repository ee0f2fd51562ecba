package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/banksim/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in stress scenarios",
	Long: `Print the preset scenarios that can be referenced from a config file
by name, e.g. "scenario: {preset: severe_combined_stress}".`,
	Run: runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) {
	for _, s := range scenario.Presets() {
		fmt.Printf("%s\n", s.Name)
		fmt.Printf("  %s\n", s.Description)
		fmt.Printf("  periods: %d (%s)\n", s.Periods, s.Granularity)
		if s.FireSale.BaseDiscount > 0 {
			fmt.Printf("  fire sale: base %.0f%%, +%.0f%% per 10%% sold, cap %.0f%%\n",
				s.FireSale.BaseDiscount*100, s.FireSale.Increment*100, s.FireSale.MaxHaircut*100)
		}
		if s.Credit.MigrationRate > 0 {
			fmt.Printf("  credit: %.0f%%/period to NPL, %.0f%% provisioned\n",
				s.Credit.MigrationRate*100, s.Credit.ProvisioningRate*100)
		}
		fmt.Println()
	}
}
