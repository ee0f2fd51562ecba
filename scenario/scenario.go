package scenario

import (
	"fmt"

	"github.com/rustyeddy/banksim/balance"
)

// Granularity is the length of one simulation period. It only affects
// period labeling; the engine itself is granularity-agnostic.
type Granularity string

const (
	Daily     Granularity = "daily"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

// PeriodDays returns the nominal duration of one period in days.
func (g Granularity) PeriodDays() int {
	switch g {
	case Daily:
		return 1
	case Monthly:
		return 30
	case Quarterly:
		return 90
	case Yearly:
		return 365
	default:
		return 0
	}
}

// Label renders a human label for a 1-based period index, e.g. "Day 3".
func (g Granularity) Label(period int) string {
	switch g {
	case Daily:
		return fmt.Sprintf("Day %d", period)
	case Monthly:
		return fmt.Sprintf("Month %d", period)
	case Quarterly:
		return fmt.Sprintf("Quarter %d", period)
	case Yearly:
		return fmt.Sprintf("Year %d", period)
	default:
		return fmt.Sprintf("Period %d", period)
	}
}

// FireSale parameterizes distressed-sale pricing. Selling 10% of a
// category's balance in one period adds exactly Increment to the
// haircut; the penalty scales linearly and continuously with the
// fraction sold. MaxHaircut caps the all-in haircut.
type FireSale struct {
	BaseDiscount float64 `yaml:"base_discount" json:"base_discount"`
	Increment    float64 `yaml:"increment" json:"increment"`
	MaxHaircut   float64 `yaml:"max_haircut" json:"max_haircut"`
}

// CreditMigration parameterizes per-period loan-book deterioration.
type CreditMigration struct {
	MigrationRate    float64 `yaml:"migration_rate" json:"migration_rate"`       // performing → NPL per period
	ProvisioningRate float64 `yaml:"provisioning_rate" json:"provisioning_rate"` // fraction of migrated amount provisioned
	RWAUplift        float64 `yaml:"rwa_uplift" json:"rwa_uplift"`               // multiplicative RWA uplift per migration period
}

// Scenario is one immutable set of stress parameters. Validate it once,
// then share it read-only across any number of runs. All rates and
// haircuts are fractions in [0,1]; shocks are fractional price moves in
// [-1,1] applied to the remaining balance each period.
type Scenario struct {
	Name        string
	Granularity Granularity
	Periods     int

	// RunoffRates gives the per-period run-off fraction per liability
	// category. WithdrawalTable, when set for a category, overrides the
	// rate with explicit per-period amounts.
	RunoffRates     map[balance.LiabilityCategory]float64
	WithdrawalTable map[balance.LiabilityCategory][]float64

	// Shocks are per-period fractional price moves per asset category.
	Shocks map[balance.AssetCategory]float64

	// BaseHaircuts are the liquidation haircuts before fire-sale
	// penalties. Nil means DefaultBaseHaircuts.
	BaseHaircuts map[balance.AssetCategory]float64

	FireSale FireSale
	Credit   CreditMigration

	// Funding-stress descriptors carried through to reporting; they do
	// not feed the period loop.
	FundingSpreadBps        int
	CollateralHaircutUplift float64

	Description string
}

// DefaultBaseHaircuts returns the standard liquidation haircut table.
func DefaultBaseHaircuts() map[balance.AssetCategory]float64 {
	return map[balance.AssetCategory]float64{
		balance.Cash:            0.00,
		balance.HQLAL1:          0.00,
		balance.HQLAL2A:         0.05,
		balance.HQLAL2B:         0.15,
		balance.OtherSecurities: 0.25,
		balance.LoansPerforming: 0.30,
		balance.LoansNPL:        0.50,
		balance.RealEstate:      0.40,
		balance.OtherAssets:     0.35,
	}
}

// BaselRunoffRates returns the Basel III standard run-off assumptions.
func BaselRunoffRates() map[balance.LiabilityCategory]float64 {
	return map[balance.LiabilityCategory]float64{
		balance.RetailStable:            0.05,
		balance.RetailUnstable:          0.10,
		balance.CorporateOperational:    0.25,
		balance.CorporateNonOperational: 0.40,
		balance.Wholesale:               1.00,
		balance.Secured:                 0.25,
		balance.OtherLiabilities:        0.00,
	}
}

// Validate checks every scenario parameter and reports all violations.
func (s *Scenario) Validate() error {
	verr := &balance.ValidationError{}

	switch s.Granularity {
	case Daily, Monthly, Quarterly, Yearly:
	default:
		verr.Add("unknown time granularity %q", s.Granularity)
	}
	if s.Periods <= 0 {
		verr.Add("period count must be positive, got %d", s.Periods)
	}

	for cat, rate := range s.RunoffRates {
		if !balance.ValidLiabilityCategory(cat) {
			verr.Add("run-off rate for unknown liability category %q", cat)
		}
		if rate < 0 || rate > 1 {
			verr.Add("run-off rate for %s out of [0,1]: %g", cat, rate)
		}
	}
	for cat, rows := range s.WithdrawalTable {
		if !balance.ValidLiabilityCategory(cat) {
			verr.Add("withdrawal table for unknown liability category %q", cat)
		}
		for i, amt := range rows {
			if amt < 0 {
				verr.Add("withdrawal table %s period %d is negative: %g", cat, i+1, amt)
			}
		}
	}
	for cat, shock := range s.Shocks {
		if !balance.ValidAssetCategory(cat) {
			verr.Add("shock for unknown asset category %q", cat)
		}
		if shock < -1 || shock > 1 {
			verr.Add("shock for %s out of [-1,1]: %g", cat, shock)
		}
	}
	for cat, h := range s.BaseHaircuts {
		if !balance.ValidAssetCategory(cat) {
			verr.Add("base haircut for unknown asset category %q", cat)
		}
		if h < 0 || h >= 1 {
			verr.Add("base haircut for %s out of [0,1): %g", cat, h)
		}
	}

	if s.FireSale.BaseDiscount < 0 || s.FireSale.BaseDiscount >= 1 {
		verr.Add("fire-sale base discount out of [0,1): %g", s.FireSale.BaseDiscount)
	}
	if s.FireSale.Increment < 0 || s.FireSale.Increment >= 1 {
		verr.Add("fire-sale increment out of [0,1): %g", s.FireSale.Increment)
	}
	if s.FireSale.MaxHaircut < 0 || s.FireSale.MaxHaircut >= 1 {
		verr.Add("fire-sale max haircut out of [0,1): %g", s.FireSale.MaxHaircut)
	}

	if s.Credit.MigrationRate < 0 || s.Credit.MigrationRate > 1 {
		verr.Add("credit migration rate out of [0,1]: %g", s.Credit.MigrationRate)
	}
	if s.Credit.ProvisioningRate < 0 || s.Credit.ProvisioningRate > 1 {
		verr.Add("provisioning rate out of [0,1]: %g", s.Credit.ProvisioningRate)
	}
	if s.Credit.RWAUplift < 0 {
		verr.Add("rwa uplift must be non-negative: %g", s.Credit.RWAUplift)
	}

	return verr.OrNil()
}

// WithdrawalFor returns the withdrawal amount for the given 1-based
// period and liability category. An explicit withdrawal table entry
// wins over the run-off rate; periods past the end of a table withdraw
// nothing.
func (s *Scenario) WithdrawalFor(period int, category balance.LiabilityCategory, opening float64) float64 {
	if rows, ok := s.WithdrawalTable[category]; ok {
		if period >= 1 && period <= len(rows) {
			return rows[period-1]
		}
		return 0
	}
	return opening * s.RunoffRates[category]
}

// BaseHaircut returns the pre-fire-sale haircut for an asset category.
func (s *Scenario) BaseHaircut(category balance.AssetCategory) float64 {
	if s.BaseHaircuts != nil {
		return s.BaseHaircuts[category]
	}
	return DefaultBaseHaircuts()[category]
}

// LCRWeights returns the run-off weights for the LCR denominator: the
// scenario's own run-off rates when present, else the Basel standard
// table. An empty non-nil rate map means explicitly zero outflows, so
// it is returned as-is rather than falling back.
func (s *Scenario) LCRWeights() map[balance.LiabilityCategory]float64 {
	if s.RunoffRates != nil {
		return s.RunoffRates
	}
	return BaselRunoffRates()
}
