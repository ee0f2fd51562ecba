package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/config"
	"github.com/rustyeddy/banksim/engine"
	"github.com/rustyeddy/banksim/journal"
	"github.com/rustyeddy/banksim/pkg/id"
	"github.com/rustyeddy/banksim/survival"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a liquidity stress test",
	Long: `Run a stress scenario against a balance sheet defined in a config file.

The run is fully deterministic: the same config always produces the
same period-by-period results.

Example:
  banksim run -f stress.yaml
  banksim run -f stress.yaml --org run.org --verbose`,
	RunE: runStress,
}

var (
	runConfigPath string
	runOrgPath    string
	runVerbose    bool
	runProgress   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (required)")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "also write an org-mode run summary to this path")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "print per-period progress")

	runCmd.MarkFlagRequired("file")
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sheet, err := cfg.BuildSheet()
	if err != nil {
		return fmt.Errorf("balance sheet: %w", err)
	}
	scn, err := cfg.BuildScenario()
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	ecfg, err := cfg.BuildEngineConfig()
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}

	log, err := buildLogger(runVerbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	opts := []engine.Option{engine.WithLogger(log)}
	if runProgress {
		opts = append(opts, engine.WithProgress(func(period, total int, result *engine.PeriodResult) {
			fmt.Printf("  %s: LCR %.1f%%, cash %.2f\n",
				result.Label, result.Metrics.LCR, result.Sheet.Assets[balance.Cash])
		}))
	}

	e, err := engine.New(ecfg, opts...)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Running scenario: %s (%d periods)\n\n", scn.Name, scn.Periods)

	run, err := e.Run(ctx, sheet, scn)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if !run.Completed {
		fmt.Println("run interrupted; partial results follow")
	}

	sum := survival.Analyze(run)
	survival.PrintSummary(os.Stdout, run, sum)

	return persistRun(cfg, run, sum)
}

func persistRun(cfg *config.Config, run *engine.SimulationRun, sum survival.Summary) error {
	runID := id.New()

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		if err := journal.Record(j, runID, run, sum); err != nil {
			return fmt.Errorf("journal run: %w", err)
		}
		fmt.Printf("\nJournaled run %s (%s)\n", runID, cfg.Journal.Type)
	}

	if runOrgPath != "" {
		rec := journal.RunRecord{
			RunID:           runID,
			Scenario:        run.Scenario,
			Granularity:     string(run.Granularity),
			TotalPeriods:    run.TotalPeriods,
			PeriodsRun:      len(run.Periods),
			Completed:       run.Completed,
			Breached:        run.Breached,
			SurvivalHorizon: sum.SurvivalHorizon,
			PrimaryDriver:   string(sum.PrimaryDriver),
			TotalWithdrawn:  sum.TotalWithdrawn,
			TotalLoss:       sum.TotalRealizedLoss,
			FinalLCR:        sum.FinalLCR,
			FinalCET1:       sum.FinalCET1,
		}
		if err := rec.WriteOrg(runOrgPath); err != nil {
			return fmt.Errorf("write org summary: %w", err)
		}
		fmt.Printf("Wrote org summary: %s\n", runOrgPath)
	}

	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(jc.Dir)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
