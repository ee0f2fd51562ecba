// Package survival performs post-run analysis over a simulation run:
// survival horizon, breach classification, driver attribution and
// critical-period identification. Analysis is read-only; the input run
// is never mutated.
package survival

import (
	"sort"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/engine"
	"github.com/rustyeddy/banksim/metrics"
)

// Driver classifies what pushed the bank over the edge.
type Driver string

const (
	// DriverNone means the scenario was survived in full.
	DriverNone Driver = "none"
	// DriverDepositFlight: cumulative withdrawals at least twice the
	// cumulative realized losses.
	DriverDepositFlight Driver = "deposit_flight"
	// DriverAssetLosses: cumulative realized losses at least twice the
	// cumulative withdrawals.
	DriverAssetLosses Driver = "asset_losses"
	// DriverCombined: neither side dominates.
	DriverCombined Driver = "combined"
)

// DefaultTopK is the number of critical periods reported by default.
const DefaultTopK = 3

// CriticalPeriod is one of the sharpest single-period metric drops.
type CriticalPeriod struct {
	Period int
	Metric string // "lcr" or "cet1_ratio"
	Drop   float64
}

// Depletion aggregates the sales of one asset category across the run.
type Depletion struct {
	TotalSold  float64
	TotalLoss  float64
	Sales      int
	AvgHaircut float64 // realized loss over book value sold
}

// Summary is the analyzer's output, a plain record for export and
// visualization collaborators.
type Summary struct {
	Scenario        string
	SurvivalHorizon int // first breached period, or total periods if none
	PeriodsRun      int
	Breached        bool
	BreachTypes     []engine.Breach
	PrimaryDriver   Driver
	CriticalPeriods []CriticalPeriod

	TotalWithdrawn    float64
	TotalRealizedLoss float64
	TotalUnmetOutflow float64
	AssetDepletion    map[balance.AssetCategory]Depletion
	CapitalErosionPct float64 // realized losses over opening equity

	FinalLCR  float64
	FinalCET1 float64
}

// Option adjusts analysis parameters.
type Option func(*analyzer)

// WithTopK sets the number of critical periods reported.
func WithTopK(k int) Option {
	return func(a *analyzer) { a.topK = k }
}

type analyzer struct {
	topK int
}

// Analyze summarizes a completed (or cancelled-partial) run.
func Analyze(run *engine.SimulationRun, opts ...Option) Summary {
	a := analyzer{topK: DefaultTopK}
	for _, opt := range opts {
		opt(&a)
	}

	sum := Summary{
		Scenario:        run.Scenario,
		SurvivalHorizon: run.TotalPeriods,
		PeriodsRun:      len(run.Periods),
		PrimaryDriver:   DriverNone,
		AssetDepletion:  map[balance.AssetCategory]Depletion{},
	}

	breachAt := 0
	for i := range run.Periods {
		pr := &run.Periods[i]
		if pr.Breached() && breachAt == 0 {
			breachAt = pr.Period
			sum.Breached = true
			sum.BreachTypes = append([]engine.Breach(nil), pr.Breaches...)
		}
		sum.TotalUnmetOutflow += pr.UnmetOutflow
		for _, liq := range pr.Liquidations {
			d := sum.AssetDepletion[liq.Category]
			d.TotalSold += liq.Gross
			d.TotalLoss += liq.Loss
			d.Sales++
			sum.AssetDepletion[liq.Category] = d
		}
	}
	for cat, d := range sum.AssetDepletion {
		if d.TotalSold > 0 {
			d.AvgHaircut = d.TotalLoss / d.TotalSold
		}
		sum.AssetDepletion[cat] = d
	}

	if sum.Breached {
		sum.SurvivalHorizon = breachAt
	}

	// Cumulative flows up to (and including) the horizon period.
	if last := lastAtHorizon(run, sum.SurvivalHorizon); last != nil {
		sum.TotalWithdrawn = last.CumWithdrawn
		sum.TotalRealizedLoss = last.CumRealizedLoss
	}
	if final := run.Final(); final != nil {
		sum.FinalLCR = final.Metrics.LCR
		if final.Metrics.CapitalDefined {
			sum.FinalCET1 = final.Metrics.CET1Ratio
		}
	}

	if sum.Breached {
		sum.PrimaryDriver = classifyDriver(sum.TotalWithdrawn, sum.TotalRealizedLoss)
	}

	if equity := run.Opening.TotalEquity(); equity > 0 {
		sum.CapitalErosionPct = sum.TotalRealizedLoss / equity * 100
	}

	sum.CriticalPeriods = criticalPeriods(run, a.topK)
	return sum
}

func lastAtHorizon(run *engine.SimulationRun, horizon int) *engine.PeriodResult {
	var last *engine.PeriodResult
	for i := range run.Periods {
		if run.Periods[i].Period > horizon {
			break
		}
		last = &run.Periods[i]
	}
	return last
}

func classifyDriver(withdrawn, loss float64) Driver {
	switch {
	case withdrawn >= 2*loss:
		return DriverDepositFlight
	case loss >= 2*withdrawn:
		return DriverAssetLosses
	default:
		return DriverCombined
	}
}

// criticalPeriods ranks the largest single-period decreases in LCR or
// CET1 ratio. Sentinel-ceiling LCR readings are skipped on both sides
// of a difference: a drop from "no outflows" to a finite reading says
// nothing about stress severity.
func criticalPeriods(run *engine.SimulationRun, topK int) []CriticalPeriod {
	if topK <= 0 || len(run.Periods) == 0 {
		return nil
	}

	var candidates []CriticalPeriod

	prev := run.OpeningMetrics
	for i := range run.Periods {
		pr := &run.Periods[i]
		cur := pr.Metrics

		if finiteRatio(prev.LCR) && finiteRatio(cur.LCR) {
			if drop := prev.LCR - cur.LCR; drop > 0 {
				candidates = append(candidates, CriticalPeriod{Period: pr.Period, Metric: "lcr", Drop: drop})
			}
		}
		if prev.CapitalDefined && cur.CapitalDefined {
			if drop := prev.CET1Ratio - cur.CET1Ratio; drop > 0 {
				candidates = append(candidates, CriticalPeriod{Period: pr.Period, Metric: "cet1_ratio", Drop: drop})
			}
		}
		prev = cur
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Drop != candidates[j].Drop {
			return candidates[i].Drop > candidates[j].Drop
		}
		return candidates[i].Period < candidates[j].Period
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

func finiteRatio(v float64) bool {
	return v < metrics.RatioCeiling
}
