package engine

import (
	"github.com/rustyeddy/banksim/balance"
)

// TriggerMetric names the metric a recovery action watches.
type TriggerMetric string

const (
	TriggerLCR  TriggerMetric = "lcr"
	TriggerCET1 TriggerMetric = "cet1_ratio"
	TriggerNSFR TriggerMetric = "nsfr"
	TriggerCash TriggerMetric = "cash"
)

// ActionType names a recovery action's effect.
type ActionType string

const (
	// ActionCapitalRaise injects the amount into cash and CET1.
	ActionCapitalRaise ActionType = "capital_raise"
	// ActionFacilityDraw injects the amount into cash against a matching
	// increase in secured funding.
	ActionFacilityDraw ActionType = "facility_draw"
)

// RecoveryAction fires at most once per run, the first period its
// trigger metric is at or below the trigger value.
type RecoveryAction struct {
	Name         string
	Trigger      TriggerMetric
	TriggerValue float64
	Action       ActionType
	Amount       float64
}

// Thresholds are the breach minimums checked every period. Ratio
// thresholds are in percent.
type Thresholds struct {
	LCRMin  float64
	CET1Min float64
	CashMin float64
}

// Config controls one run.
type Config struct {
	// LiquidationPriority is tried in order until the period's cash need
	// is met. Cash in the list is consumed directly, never "sold".
	LiquidationPriority []balance.AssetCategory

	Thresholds Thresholds

	RecoveryActions []RecoveryAction

	// StopOnFirstBreach terminates the run at the first breached period.
	StopOnFirstBreach bool
}

// DefaultConfig returns the standard waterfall and Basel minimums.
func DefaultConfig() Config {
	return Config{
		LiquidationPriority: []balance.AssetCategory{
			balance.Cash,
			balance.HQLAL1,
			balance.HQLAL2A,
			balance.HQLAL2B,
			balance.OtherSecurities,
			balance.LoansPerforming,
			balance.RealEstate,
		},
		Thresholds: Thresholds{
			LCRMin:  100.0,
			CET1Min: 4.5,
			CashMin: 0.0,
		},
		StopOnFirstBreach: true,
	}
}

// Validate checks the config and reports every violation.
func (c *Config) Validate() error {
	verr := &balance.ValidationError{}

	if len(c.LiquidationPriority) == 0 {
		verr.Add("liquidation priority list is empty")
	}
	seen := map[balance.AssetCategory]bool{}
	for _, cat := range c.LiquidationPriority {
		if !balance.ValidAssetCategory(cat) {
			verr.Add("unknown asset category in liquidation priority: %q", cat)
		}
		if seen[cat] {
			verr.Add("duplicate category in liquidation priority: %q", cat)
		}
		seen[cat] = true
	}

	if c.Thresholds.LCRMin < 0 {
		verr.Add("lcr_min must be non-negative: %g", c.Thresholds.LCRMin)
	}
	if c.Thresholds.CET1Min < 0 {
		verr.Add("cet1_min must be non-negative: %g", c.Thresholds.CET1Min)
	}
	if c.Thresholds.CashMin < 0 {
		verr.Add("cash_min must be non-negative: %g", c.Thresholds.CashMin)
	}

	for i, a := range c.RecoveryActions {
		switch a.Trigger {
		case TriggerLCR, TriggerCET1, TriggerNSFR, TriggerCash:
		default:
			verr.Add("recovery action %d: unknown trigger metric %q", i, a.Trigger)
		}
		switch a.Action {
		case ActionCapitalRaise, ActionFacilityDraw:
		default:
			verr.Add("recovery action %d: unknown action type %q", i, a.Action)
		}
		if a.Amount <= 0 {
			verr.Add("recovery action %d: amount must be positive: %g", i, a.Amount)
		}
	}

	return verr.OrNil()
}
