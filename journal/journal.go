// journal/journal.go
package journal

import (
	"strings"
	"time"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/engine"
	"github.com/rustyeddy/banksim/survival"
)

// RunRecord is the flattened header row for one simulation run.
type RunRecord struct {
	RunID           string
	Scenario        string
	Granularity     string
	TotalPeriods    int
	PeriodsRun      int
	Completed       bool
	Breached        bool
	SurvivalHorizon int
	PrimaryDriver   string
	TotalWithdrawn  float64
	TotalLoss       float64
	FinalLCR        float64
	FinalCET1       float64
	CreatedAt       time.Time
}

// PeriodRecord is one period of a run, flattened for storage.
type PeriodRecord struct {
	RunID        string
	Period       int
	Label        string
	TotalAssets  float64
	Cash         float64
	HQLA         float64
	Withdrawn    float64
	UnmetOutflow float64
	RealizedLoss float64
	LCR          float64
	NSFR         float64
	CET1Ratio    float64
	Breaches     string // comma-separated, empty when clean
}

// LiquidationRecord is one forced sale within a period.
type LiquidationRecord struct {
	RunID    string
	Period   int
	Category string
	Gross    float64
	Haircut  float64
	Proceeds float64
	Loss     float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordPeriod(PeriodRecord) error
	RecordLiquidation(LiquidationRecord) error
	Close() error
}

// Record flattens a run and its analysis into the journal. The runID
// ties the three record kinds together; period results themselves never
// carry an ID.
func Record(j Journal, runID string, run *engine.SimulationRun, sum survival.Summary) error {
	rec := RunRecord{
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
		CreatedAt:       time.Now().UTC(),
	}
	if err := j.RecordRun(rec); err != nil {
		return err
	}

	for i := range run.Periods {
		pr := &run.Periods[i]
		cet1 := 0.0
		if pr.Metrics.CapitalDefined {
			cet1 = pr.Metrics.CET1Ratio
		}
		err := j.RecordPeriod(PeriodRecord{
			RunID:        runID,
			Period:       pr.Period,
			Label:        pr.Label,
			TotalAssets:  pr.Sheet.TotalAssets(),
			Cash:         pr.Sheet.Assets[balance.Cash],
			HQLA:         pr.Sheet.TotalHQLA(true),
			Withdrawn:    pr.Withdrawn,
			UnmetOutflow: pr.UnmetOutflow,
			RealizedLoss: pr.RealizedLoss,
			LCR:          pr.Metrics.LCR,
			NSFR:         pr.Metrics.NSFR,
			CET1Ratio:    cet1,
			Breaches:     joinBreaches(pr.Breaches),
		})
		if err != nil {
			return err
		}

		for _, liq := range pr.Liquidations {
			err := j.RecordLiquidation(LiquidationRecord{
				RunID:    runID,
				Period:   pr.Period,
				Category: string(liq.Category),
				Gross:    liq.Gross,
				Haircut:  liq.Haircut,
				Proceeds: liq.Proceeds,
				Loss:     liq.Loss,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func joinBreaches(bs []engine.Breach) string {
	if len(bs) == 0 {
		return ""
	}
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = string(b)
	}
	return strings.Join(parts, ",")
}
