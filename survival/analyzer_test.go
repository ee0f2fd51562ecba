package survival

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/engine"
	"github.com/rustyeddy/banksim/metrics"
	"github.com/rustyeddy/banksim/scenario"
)

func runScenario(t *testing.T, opening *balance.Sheet, scn *scenario.Scenario, cfg engine.Config) *engine.SimulationRun {
	t.Helper()

	e, err := engine.New(cfg)
	require.NoError(t, err)

	run, err := e.Run(context.Background(), opening, scn)
	require.NoError(t, err)
	return run
}

func stressedSheet() *balance.Sheet {
	return balance.New(
		map[balance.AssetCategory]float64{
			balance.Cash:            200,
			balance.HQLAL1:          500,
			balance.HQLAL2A:         200,
			balance.LoansPerforming: 3100,
		},
		map[balance.LiabilityCategory]float64{
			balance.RetailStable: 2400,
			balance.Wholesale:    1200,
		},
		map[balance.EquityComponent]float64{balance.CET1: 400},
	)
}

func TestSurvivalHorizonNoBreach(t *testing.T) {
	t.Parallel()

	const n = 8
	run := runScenario(t, stressedSheet(), scenario.ZeroStress(n), engine.DefaultConfig())
	sum := Analyze(run)

	assert.Equal(t, n, sum.SurvivalHorizon)
	assert.False(t, sum.Breached)
	assert.Empty(t, sum.BreachTypes)
	assert.Equal(t, DriverNone, sum.PrimaryDriver)
	assert.Empty(t, sum.CriticalPeriods)
	assert.Zero(t, sum.TotalRealizedLoss)
}

func TestSurvivalHorizonAtFirstBreach(t *testing.T) {
	t.Parallel()

	scn := &scenario.Scenario{
		Name:        "drain",
		Granularity: scenario.Daily,
		Periods:     20,
		RunoffRates: map[balance.LiabilityCategory]float64{
			balance.RetailStable: 0.05,
			balance.Wholesale:    0.25,
		},
	}

	cfg := engine.DefaultConfig()
	cfg.StopOnFirstBreach = false
	run := runScenario(t, stressedSheet(), scn, cfg)
	require.True(t, run.Breached)

	sum := Analyze(run)

	first := 0
	for i := range run.Periods {
		if run.Periods[i].Breached() {
			first = run.Periods[i].Period
			break
		}
	}
	require.Positive(t, first)

	assert.Equal(t, first, sum.SurvivalHorizon)
	assert.True(t, sum.Breached)
	assert.Equal(t, run.Periods[first-1].Breaches, sum.BreachTypes)

	// cumulative flows are taken at the horizon, not at the run end
	assert.InDelta(t, run.Periods[first-1].CumWithdrawn, sum.TotalWithdrawn, 1e-9)
	assert.InDelta(t, run.Periods[first-1].CumRealizedLoss, sum.TotalRealizedLoss, 1e-9)
}

func TestPrimaryDriverClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		withdrawn float64
		loss      float64
		want      Driver
	}{
		{"deposit_flight", 100, 10, DriverDepositFlight},
		{"deposit_flight_boundary", 100, 50, DriverDepositFlight},
		{"asset_losses", 10, 100, DriverAssetLosses},
		{"asset_losses_boundary", 50, 100, DriverAssetLosses},
		{"combined", 100, 60, DriverCombined},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classifyDriver(tt.withdrawn, tt.loss))
		})
	}
}

func TestCriticalPeriodsTopK(t *testing.T) {
	t.Parallel()

	scn := &scenario.Scenario{
		Name:        "decline",
		Granularity: scenario.Daily,
		Periods:     10,
		RunoffRates: map[balance.LiabilityCategory]float64{
			balance.RetailStable: 0.04,
			balance.Wholesale:    0.20,
		},
	}

	cfg := engine.DefaultConfig()
	cfg.StopOnFirstBreach = false
	run := runScenario(t, stressedSheet(), scn, cfg)

	sum := Analyze(run)
	require.NotEmpty(t, sum.CriticalPeriods)
	assert.LessOrEqual(t, len(sum.CriticalPeriods), DefaultTopK)

	// sorted by drop, descending
	for i := 1; i < len(sum.CriticalPeriods); i++ {
		assert.GreaterOrEqual(t, sum.CriticalPeriods[i-1].Drop, sum.CriticalPeriods[i].Drop)
	}

	one := Analyze(run, WithTopK(1))
	require.Len(t, one.CriticalPeriods, 1)
	assert.Equal(t, sum.CriticalPeriods[0], one.CriticalPeriods[0])
}

func TestCriticalPeriodsSkipSentinelReadings(t *testing.T) {
	t.Parallel()

	// A run whose LCR sits at the ceiling (no outflow weights) must not
	// produce phantom LCR drops.
	opening := balance.New(
		map[balance.AssetCategory]float64{
			balance.Cash:            100,
			balance.HQLAL1:          400,
			balance.LoansPerforming: 500,
		},
		map[balance.LiabilityCategory]float64{balance.OtherLiabilities: 900},
		map[balance.EquityComponent]float64{balance.CET1: 100},
	)

	run := runScenario(t, opening, scenario.ZeroStress(5), engine.DefaultConfig())
	require.InDelta(t, metrics.RatioCeiling, run.OpeningMetrics.LCR, 1e-9)

	sum := Analyze(run)
	for _, cp := range sum.CriticalPeriods {
		assert.NotEqual(t, "lcr", cp.Metric)
	}
}

func TestAssetDepletionAggregation(t *testing.T) {
	t.Parallel()

	scn := &scenario.Scenario{
		Name:        "forced sales",
		Granularity: scenario.Daily,
		Periods:     3,
		RunoffRates: map[balance.LiabilityCategory]float64{
			balance.Wholesale: 0.40,
		},
		FireSale: scenario.FireSale{BaseDiscount: 0.05, MaxHaircut: 0.50},
	}

	cfg := engine.DefaultConfig()
	cfg.StopOnFirstBreach = false
	run := runScenario(t, stressedSheet(), scn, cfg)

	sum := Analyze(run)
	require.NotEmpty(t, sum.AssetDepletion)

	var wantSold, wantLoss float64
	for i := range run.Periods {
		for _, liq := range run.Periods[i].Liquidations {
			wantSold += liq.Gross
			wantLoss += liq.Loss
		}
	}

	var gotSold, gotLoss float64
	for _, d := range sum.AssetDepletion {
		gotSold += d.TotalSold
		gotLoss += d.TotalLoss
		if d.TotalSold > 0 {
			assert.InDelta(t, d.TotalLoss/d.TotalSold, d.AvgHaircut, 1e-9)
		}
	}
	assert.InDelta(t, wantSold, gotSold, 1e-9)
	assert.InDelta(t, wantLoss, gotLoss, 1e-9)

	assert.InDelta(t, sum.TotalRealizedLoss/400*100, sum.CapitalErosionPct, 1e-6)
}

func TestAnalyzeDoesNotMutateRun(t *testing.T) {
	t.Parallel()

	cfg := engine.DefaultConfig()
	cfg.StopOnFirstBreach = false
	run := runScenario(t, stressedSheet(), scenario.BaselLCRStandard(), cfg)

	before := make([]engine.PeriodResult, len(run.Periods))
	copy(before, run.Periods)

	_ = Analyze(run)

	assert.Equal(t, before, run.Periods)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	cfg := engine.DefaultConfig()
	run := runScenario(t, stressedSheet(), scenario.BaselLCRStandard(), cfg)
	sum := Analyze(run)

	var buf bytes.Buffer
	PrintSummary(&buf, run, sum)

	out := buf.String()
	assert.Contains(t, out, "Stress Test Result")
	assert.Contains(t, out, "Survival Horizon")
	assert.Contains(t, out, "Final LCR")
}
