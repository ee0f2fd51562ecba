package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/engine"
	"github.com/rustyeddy/banksim/scenario"
	"github.com/rustyeddy/banksim/survival"
)

func simulate(t *testing.T) (*engine.SimulationRun, survival.Summary) {
	t.Helper()

	opening := balance.New(
		map[balance.AssetCategory]float64{
			balance.Cash:            150,
			balance.HQLAL1:          350,
			balance.HQLAL2A:         100,
			balance.LoansPerforming: 2400,
		},
		map[balance.LiabilityCategory]float64{
			balance.RetailStable: 1800,
			balance.Wholesale:    900,
		},
		map[balance.EquityComponent]float64{balance.CET1: 300},
	)

	cfg := engine.DefaultConfig()
	cfg.StopOnFirstBreach = false

	e, err := engine.New(cfg)
	require.NoError(t, err)

	run, err := e.Run(context.Background(), opening, scenario.SevereStress())
	require.NoError(t, err)
	return run, survival.Analyze(run)
}

func TestRecordFlattensRunIntoSQLite(t *testing.T) {
	t.Parallel()

	run, sum := simulate(t)

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, Record(j, "01JRUNX", run, sum))

	rec, err := j.GetRun("01JRUNX")
	require.NoError(t, err)
	assert.Equal(t, run.Scenario, rec.Scenario)
	assert.Equal(t, string(run.Granularity), rec.Granularity)
	assert.Equal(t, run.TotalPeriods, rec.TotalPeriods)
	assert.Equal(t, len(run.Periods), rec.PeriodsRun)
	assert.Equal(t, run.Breached, rec.Breached)
	assert.Equal(t, sum.SurvivalHorizon, rec.SurvivalHorizon)
	assert.Equal(t, string(sum.PrimaryDriver), rec.PrimaryDriver)
	assert.InDelta(t, sum.TotalWithdrawn, rec.TotalWithdrawn, 1e-6)
	assert.False(t, rec.CreatedAt.IsZero())

	periods, err := j.ListPeriodsByRun("01JRUNX")
	require.NoError(t, err)
	require.Len(t, periods, len(run.Periods))
	for i, p := range periods {
		pr := &run.Periods[i]
		assert.Equal(t, pr.Period, p.Period)
		assert.Equal(t, pr.Label, p.Label)
		assert.InDelta(t, pr.Sheet.TotalAssets(), p.TotalAssets, 1e-6)
		assert.InDelta(t, pr.Metrics.LCR, p.LCR, 1e-6)
	}

	var wantLiqs int
	for i := range run.Periods {
		wantLiqs += len(run.Periods[i].Liquidations)
	}
	liqs, err := j.ListLiquidationsByRun("01JRUNX")
	require.NoError(t, err)
	assert.Len(t, liqs, wantLiqs)
}

func TestRecordFlattensRunIntoCSV(t *testing.T) {
	t.Parallel()

	run, sum := simulate(t)

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	require.NoError(t, Record(j, "01JRUNY", run, sum))
	require.NoError(t, j.Close())

	periods := readCSV(t, dir+"/periods.csv")
	assert.Len(t, periods, len(run.Periods)+1) // header + rows
}

func TestJoinBreaches(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", joinBreaches(nil))
	assert.Equal(t, "lcr", joinBreaches([]engine.Breach{engine.BreachLCR}))
	assert.Equal(t, "lcr,cash", joinBreaches([]engine.Breach{engine.BreachLCR, engine.BreachCash}))
}
