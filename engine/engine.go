// Package engine drives one balance sheet through one stress scenario,
// period by period, producing an ordered sequence of period records.
// A run is strictly sequential and deterministic: identical inputs
// reproduce identical results, with no randomness and no wall clock.
package engine

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/metrics"
	"github.com/rustyeddy/banksim/scenario"
)

// epsilon below which a residual cash need counts as met.
const epsilon = 1e-9

// ProgressFunc is invoked synchronously after each period is recorded.
// It must not mutate engine state; the result is the just-appended
// record.
type ProgressFunc func(period, total int, result *PeriodResult)

// Engine runs simulations. One Engine may serve any number of
// concurrent runs: it holds no per-run state, and each run works on its
// own deep copy of the opening balance sheet.
type Engine struct {
	cfg      Config
	log      *zap.Logger
	progress ProgressFunc
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithLogger attaches a structured logger. The engine is silent
// without one.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithProgress attaches a per-period progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// New validates the config and builds an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run simulates the scenario against the opening balance sheet and
// returns the ordered period records. The opening sheet is never
// mutated. Cancelling ctx between periods returns the periods completed
// so far with Completed=false; cancellation is not an error. Breaches
// and liquidity exhaustion are modeled outputs, never errors. An error
// return means invalid inputs (ValidationError) or an engine defect
// (InternalError).
func (e *Engine) Run(ctx context.Context, opening *balance.Sheet, scn *scenario.Scenario) (*SimulationRun, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	if err := opening.Validate(); err != nil {
		return nil, err
	}

	ws := opening.Copy()
	weights := scn.LCRWeights()
	rwaMult := 1.0

	run := &SimulationRun{
		Scenario:       scn.Name,
		Granularity:    scn.Granularity,
		TotalPeriods:   scn.Periods,
		Opening:        opening.Copy(),
		OpeningMetrics: metrics.Compute(ws, weights, rwaMult),
		Periods:        make([]PeriodResult, 0, scn.Periods),
	}

	e.log.Info("simulation started",
		zap.String("scenario", scn.Name),
		zap.Int("periods", scn.Periods),
		zap.Float64("opening_assets", ws.TotalAssets()))

	lastMetrics := run.OpeningMetrics
	fired := make([]bool, len(e.cfg.RecoveryActions))
	var cumWithdrawn, cumLoss float64

	for period := 1; period <= scn.Periods; period++ {
		if ctx.Err() != nil {
			e.log.Info("simulation cancelled",
				zap.Int("period", period-1),
				zap.Int("of", scn.Periods))
			return run, nil
		}

		pr := PeriodResult{
			Period: period,
			Label:  scn.Granularity.Label(period),
		}

		// 1. Withdraw scenario outflows; shortfall becomes the cash need.
		required := e.withdraw(ws, scn, period, &pr)

		// 2. Liquidate down the priority waterfall.
		required = e.liquidate(ws, scn, required, &pr)

		// Unpaid outflow goes back to its liability categories: the
		// depositors were never actually paid, and the identity must
		// hold on every recorded period.
		if required > epsilon {
			e.restoreUnmet(ws, required, &pr)
		}

		// 3. Market shocks write down remaining balances against CET1.
		e.applyShocks(ws, scn)

		// 4. Credit migration: performing → NPL, provision, RWA uplift.
		rwaMult = e.migrate(ws, scn, rwaMult)

		// 5. Recovery actions, each at most once per run.
		e.applyRecovery(ws, lastMetrics, fired, &pr)

		// 6. Metrics over the post-period state.
		pr.Metrics = metrics.Compute(ws, weights, rwaMult)

		// 7. Breach flags.
		pr.Breaches = e.checkBreaches(ws, pr.Metrics)

		if err := checkInvariants(ws); err != nil {
			return nil, err
		}

		// 8. Record the immutable snapshot.
		cumWithdrawn += pr.Withdrawn
		cumLoss += pr.RealizedLoss
		pr.CumWithdrawn = cumWithdrawn
		pr.CumRealizedLoss = cumLoss
		pr.Sheet = ws.Copy()
		run.Periods = append(run.Periods, pr)
		if pr.Breached() {
			run.Breached = true
		}

		e.log.Debug("period recorded",
			zap.Int("period", period),
			zap.Float64("lcr", pr.Metrics.LCR),
			zap.Float64("cet1_ratio", pr.Metrics.CET1Ratio),
			zap.Float64("withdrawn", pr.Withdrawn),
			zap.Float64("realized_loss", pr.RealizedLoss),
			zap.Int("breaches", len(pr.Breaches)))

		if e.progress != nil {
			e.progress(period, scn.Periods, run.Final())
		}

		// 9. Stop or continue.
		if e.cfg.StopOnFirstBreach && pr.Breached() {
			e.log.Info("simulation stopped on breach",
				zap.Int("period", period),
				zap.Any("breaches", pr.Breaches))
			break
		}

		lastMetrics = pr.Metrics
	}

	run.Completed = true
	e.log.Info("simulation completed",
		zap.Int("periods_run", len(run.Periods)),
		zap.Bool("breached", run.Breached))
	return run, nil
}

// withdraw applies every scenario outflow for the period and returns
// the cash shortfall to be met by liquidation. Per-category shortfalls
// are kept on the result for pro-rata restoration if liquidation also
// falls short.
func (e *Engine) withdraw(ws *balance.Sheet, scn *scenario.Scenario, period int, pr *PeriodResult) float64 {
	var required float64
	pr.shortfalls = make(map[balance.LiabilityCategory]float64)

	for _, cat := range balance.LiabilityCategories {
		amount := scn.WithdrawalFor(period, cat, ws.Liabilities[cat])
		if amount <= 0 {
			continue
		}
		withdrawn, shortfall, err := ws.ApplyWithdrawal(cat, amount)
		if err != nil {
			// unreachable: categories come from the canonical list
			continue
		}
		pr.Withdrawn += withdrawn
		if shortfall > 0 {
			pr.shortfalls[cat] = shortfall
			required += shortfall
		}
	}
	return required
}

// liquidate walks the priority list selling assets until the cash need
// is met or every category is exhausted; it returns the unmet need.
// Net proceeds immediately pay the outstanding withdrawals.
func (e *Engine) liquidate(ws *balance.Sheet, scn *scenario.Scenario, required float64, pr *PeriodResult) float64 {
	for _, cat := range e.cfg.LiquidationPriority {
		if required <= epsilon {
			return 0
		}

		if cat == balance.Cash {
			pay := math.Min(ws.Assets[balance.Cash], required)
			ws.Assets[balance.Cash] -= pay
			required -= pay
			continue
		}

		bal := ws.Assets[cat]
		if bal <= epsilon {
			continue
		}

		fixed := scn.BaseHaircut(cat) + scn.FireSale.BaseDiscount
		gross := grossToRaise(required, bal, fixed, scn.FireSale.Increment, scn.FireSale.MaxHaircut)
		if gross <= 0 {
			continue
		}
		haircut := effectiveHaircut(gross, bal, fixed, scn.FireSale.Increment, scn.FireSale.MaxHaircut)

		liq, _, err := ws.Liquidate(cat, gross, haircut)
		if err != nil {
			// surfaced by checkInvariants at period end; skip the category
			continue
		}

		pay := math.Min(ws.Assets[balance.Cash], required)
		ws.Assets[balance.Cash] -= pay
		required -= pay

		pr.Liquidations = append(pr.Liquidations, liq)
		pr.RealizedLoss += liq.Loss
	}

	if required <= epsilon {
		return 0
	}
	return required
}

// restoreUnmet credits the unpayable remainder back to the withdrawing
// categories pro-rata to each category's unmet share, and records the
// exhaustion on the period.
func (e *Engine) restoreUnmet(ws *balance.Sheet, unmet float64, pr *PeriodResult) {
	var totalShort float64
	for _, s := range pr.shortfalls {
		totalShort += s
	}
	if totalShort <= 0 {
		return
	}

	for _, cat := range balance.LiabilityCategories {
		s, ok := pr.shortfalls[cat]
		if !ok {
			continue
		}
		restore := unmet * s / totalShort
		ws.Liabilities[cat] += restore
		pr.Withdrawn -= restore
	}
	pr.UnmetOutflow = unmet
}

// applyShocks writes remaining balances down (or up) by the scenario's
// fractional price moves. Valuation changes hit CET1, not cash; nothing
// is sold.
func (e *Engine) applyShocks(ws *balance.Sheet, scn *scenario.Scenario) {
	if len(scn.Shocks) == 0 {
		return
	}
	for _, cat := range balance.AssetCategories {
		shock := scn.Shocks[cat]
		if shock == 0 {
			continue
		}
		delta := ws.Assets[cat] * shock
		ws.Assets[cat] += delta
		ws.Equity[balance.CET1] += delta
	}
}

// migrate moves part of the performing book to NPL, provisions the
// migrated amount against both the NPL balance and CET1, and compounds
// the RWA uplift. Returns the updated multiplier.
func (e *Engine) migrate(ws *balance.Sheet, scn *scenario.Scenario, rwaMult float64) float64 {
	rate := scn.Credit.MigrationRate
	if rate <= 0 {
		return rwaMult
	}
	migrated := ws.Assets[balance.LoansPerforming] * rate
	if migrated <= 0 {
		return rwaMult
	}

	ws.Assets[balance.LoansPerforming] -= migrated
	ws.Assets[balance.LoansNPL] += migrated

	provision := migrated * scn.Credit.ProvisioningRate
	ws.Assets[balance.LoansNPL] -= provision
	ws.Equity[balance.CET1] -= provision

	if scn.Credit.RWAUplift > 0 {
		rwaMult *= 1 + scn.Credit.RWAUplift
	}
	return rwaMult
}

// applyRecovery fires each not-yet-fired action whose trigger metric,
// as of the previous period, is at or below its trigger value.
func (e *Engine) applyRecovery(ws *balance.Sheet, last metrics.Snapshot, fired []bool, pr *PeriodResult) {
	for i, act := range e.cfg.RecoveryActions {
		if fired[i] {
			continue
		}

		var value float64
		switch act.Trigger {
		case TriggerLCR:
			value = last.LCR
		case TriggerCET1:
			if !last.CapitalDefined {
				continue
			}
			value = last.CET1Ratio
		case TriggerNSFR:
			value = last.NSFR
		case TriggerCash:
			value = ws.Assets[balance.Cash]
		}
		if value > act.TriggerValue {
			continue
		}

		switch act.Action {
		case ActionCapitalRaise:
			ws.Assets[balance.Cash] += act.Amount
			ws.Equity[balance.CET1] += act.Amount
		case ActionFacilityDraw:
			ws.Assets[balance.Cash] += act.Amount
			ws.Liabilities[balance.Secured] += act.Amount
		}

		fired[i] = true
		name := act.Name
		if name == "" {
			name = string(act.Action)
		}
		pr.RecoveryFired = append(pr.RecoveryFired, name)

		e.log.Info("recovery action fired",
			zap.String("action", name),
			zap.String("trigger", string(act.Trigger)),
			zap.Float64("trigger_value", act.TriggerValue),
			zap.Float64("metric", value),
			zap.Float64("amount", act.Amount))
	}
}

// checkBreaches evaluates the threshold flags in a fixed order.
func (e *Engine) checkBreaches(ws *balance.Sheet, m metrics.Snapshot) []Breach {
	var flags []Breach
	t := e.cfg.Thresholds

	if m.LCR < t.LCRMin {
		flags = append(flags, BreachLCR)
	}
	if m.CapitalDefined && m.CET1Ratio < t.CET1Min {
		flags = append(flags, BreachCET1)
	}
	if ws.Assets[balance.Cash] <= t.CashMin {
		flags = append(flags, BreachCash)
	}
	if ws.LiquidAssets() <= epsilon {
		flags = append(flags, BreachLiquidity)
	}
	return flags
}

// checkInvariants catches engine defects: a negative category balance
// or a broken identity after the period's mutations is unrecoverable
// and aborts the run.
func checkInvariants(ws *balance.Sheet) error {
	for _, cat := range balance.AssetCategories {
		if ws.Assets[cat] < -epsilon {
			return &balance.InternalError{Op: "period", Detail: "negative asset balance: " + string(cat)}
		}
	}
	for _, cat := range balance.LiabilityCategories {
		if ws.Liabilities[cat] < -epsilon {
			return &balance.InternalError{Op: "period", Detail: "negative liability balance: " + string(cat)}
		}
	}
	if !ws.Balanced() {
		return &balance.InternalError{Op: "period", Detail: "accounting identity broken"}
	}
	return nil
}
