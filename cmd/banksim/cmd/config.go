package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/banksim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for stress tests.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  banksim config init -o my-stress.yaml
  banksim config validate -f my-stress.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "stress.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  banksim run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sheet, err := cfg.BuildSheet()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	scn, err := cfg.BuildScenario()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, err := cfg.BuildEngineConfig(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Balance sheet: %.2f assets / %.2f liabilities / %.2f equity\n",
		sheet.TotalAssets(), sheet.TotalLiabilities(), sheet.TotalEquity())
	fmt.Printf("  Scenario: %s (%d periods)\n", scn.Name, scn.Periods)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
