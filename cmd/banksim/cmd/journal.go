package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/banksim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled stress-test runs",
	Long: `Query and display run records from a SQLite journal.

Subcommands:
  runs    - List all journaled runs
  show    - Show one run's period-by-period path
  sales   - List a run's forced asset sales

Examples:
  banksim journal runs
  banksim journal show <run-id>
  banksim journal sales <run-id>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List all journaled runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's period-by-period path",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalSalesCmd = &cobra.Command{
	Use:   "sales <run-id>",
	Short: "List a run's forced asset sales",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSales,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalSalesCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./banksim.sqlite", "path to SQLite journal DB")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs journaled")
		return nil
	}

	fmt.Printf("%-28s %-28s %8s %8s %8s %s\n", "RUN", "SCENARIO", "HORIZON", "LCR", "CET1", "OUTCOME")
	for _, r := range runs {
		outcome := "survived"
		if r.Breached {
			outcome = "breached (" + r.PrimaryDriver + ")"
		}
		fmt.Printf("%-28s %-28s %5d/%-2d %7.1f%% %7.2f%% %s\n",
			r.RunID, r.Scenario, r.SurvivalHorizon, r.TotalPeriods, r.FinalLCR, r.FinalCET1, outcome)
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("Run %s: %s (%s), %d/%d periods\n\n",
		rec.RunID, rec.Scenario, rec.Granularity, rec.PeriodsRun, rec.TotalPeriods)

	periods, err := j.ListPeriodsByRun(rec.RunID)
	if err != nil {
		return fmt.Errorf("query periods: %w", err)
	}

	fmt.Printf("%-12s %12s %10s %10s %8s %8s %s\n",
		"PERIOD", "ASSETS", "CASH", "WITHDRAWN", "LCR", "CET1", "BREACHES")
	for _, p := range periods {
		fmt.Printf("%-12s %12.2f %10.2f %10.2f %7.1f%% %7.2f%% %s\n",
			p.Label, p.TotalAssets, p.Cash, p.Withdrawn, p.LCR, p.CET1Ratio, p.Breaches)
	}
	return nil
}

func runJournalSales(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	liqs, err := j.ListLiquidationsByRun(args[0])
	if err != nil {
		return fmt.Errorf("query liquidations: %w", err)
	}
	if len(liqs) == 0 {
		fmt.Println("no forced sales recorded")
		return nil
	}

	fmt.Printf("%-8s %-18s %12s %9s %12s %12s\n",
		"PERIOD", "CATEGORY", "GROSS", "HAIRCUT", "PROCEEDS", "LOSS")
	for _, l := range liqs {
		fmt.Printf("%-8d %-18s %12.2f %8.1f%% %12.2f %12.2f\n",
			l.Period, l.Category, l.Gross, l.Haircut*100, l.Proceeds, l.Loss)
	}
	return nil
}
