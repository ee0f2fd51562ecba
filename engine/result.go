package engine

import (
	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/metrics"
	"github.com/rustyeddy/banksim/scenario"
)

// Breach identifies one violated threshold. Several may be active in
// the same period.
type Breach string

const (
	BreachLCR       Breach = "lcr"
	BreachCET1      Breach = "cet1"
	BreachCash      Breach = "cash"
	BreachLiquidity Breach = "liquidity_exhausted"
)

// PeriodResult is the immutable record of one simulated period.
// Sheet is a snapshot taken after every mutation of the period; nothing
// mutates it afterwards.
type PeriodResult struct {
	Period int // 1-based
	Label  string

	Sheet   *balance.Sheet
	Metrics metrics.Snapshot

	Liquidations []balance.Liquidation

	Withdrawn    float64 // liability outflow actually paid this period
	UnmetOutflow float64 // outflow that could not be funded (exhaustion)
	RealizedLoss float64 // liquidation losses this period

	CumWithdrawn    float64
	CumRealizedLoss float64

	RecoveryFired []string

	Breaches []Breach

	// shortfalls is working state while the period is being built: the
	// unmet withdrawal per liability category, needed for pro-rata
	// restoration on liquidity exhaustion.
	shortfalls map[balance.LiabilityCategory]float64
}

// Breached reports whether any flag is active this period.
func (p *PeriodResult) Breached() bool {
	return len(p.Breaches) > 0
}

// HasBreach reports whether the given flag is active this period.
func (p *PeriodResult) HasBreach(b Breach) bool {
	for _, x := range p.Breaches {
		if x == b {
			return true
		}
	}
	return false
}

// SimulationRun is the ordered period sequence for one (balance sheet,
// scenario) pair. It is the sole artifact handed to the survival
// analyzer and to export collaborators.
type SimulationRun struct {
	Scenario     string
	Granularity  scenario.Granularity
	TotalPeriods int

	Opening        *balance.Sheet
	OpeningMetrics metrics.Snapshot

	Periods []PeriodResult

	// Completed is false when the run was cancelled; the periods
	// completed so far are still returned.
	Completed bool
	Breached  bool
}

// Final returns the last period result, or nil for an empty run.
func (r *SimulationRun) Final() *PeriodResult {
	if len(r.Periods) == 0 {
		return nil
	}
	return &r.Periods[len(r.Periods)-1]
}
