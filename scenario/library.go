package scenario

import (
	"strings"

	"github.com/rustyeddy/banksim/balance"
)

// Preset scenarios. Each constructor returns a fresh value so callers
// can never alias or mutate a shared instance.

// BaselLCRStandard is the Basel III LCR stress: standard run-off rates
// over 30 days, no market shocks, no fire sales.
func BaselLCRStandard() *Scenario {
	return &Scenario{
		Name:        "Basel III LCR Standard",
		Granularity: Daily,
		Periods:     30,
		RunoffRates: BaselRunoffRates(),
		FireSale:    FireSale{MaxHaircut: 0.50},
		Description: "Standard Basel III LCR stress scenario over 30 days",
	}
}

// SevereStress combines an accelerated deposit run with market shocks,
// fire-sale pricing and credit deterioration.
func SevereStress() *Scenario {
	return &Scenario{
		Name:        "Severe Combined Stress",
		Granularity: Daily,
		Periods:     60,
		RunoffRates: map[balance.LiabilityCategory]float64{
			balance.RetailStable:            0.15,
			balance.RetailUnstable:          0.30,
			balance.CorporateOperational:    0.40,
			balance.CorporateNonOperational: 0.60,
			balance.Wholesale:               1.00,
			balance.Secured:                 0.50,
		},
		Shocks: map[balance.AssetCategory]float64{
			balance.HQLAL2A:         -0.10,
			balance.HQLAL2B:         -0.25,
			balance.OtherSecurities: -0.40,
		},
		FireSale: FireSale{
			BaseDiscount: 0.15,
			Increment:    0.03,
			MaxHaircut:   0.50,
		},
		Credit: CreditMigration{
			MigrationRate:    0.05,
			ProvisioningRate: 0.60,
			RWAUplift:        0.15,
		},
		FundingSpreadBps:        250,
		CollateralHaircutUplift: 0.20,
		Description:             "Severe stress combining deposit runs, market shocks, and credit deterioration",
	}
}

// IdiosyncraticCrisis models a bank-specific confidence loss with major
// deposit flight and deep fire-sale discounts.
func IdiosyncraticCrisis() *Scenario {
	return &Scenario{
		Name:        "Idiosyncratic Bank Crisis",
		Granularity: Daily,
		Periods:     90,
		RunoffRates: map[balance.LiabilityCategory]float64{
			balance.RetailStable:            0.20,
			balance.RetailUnstable:          0.50,
			balance.CorporateOperational:    0.60,
			balance.CorporateNonOperational: 0.80,
			balance.Wholesale:               1.00,
			balance.Secured:                 0.75,
		},
		Shocks: map[balance.AssetCategory]float64{
			balance.HQLAL2A:         -0.15,
			balance.HQLAL2B:         -0.35,
			balance.OtherSecurities: -0.50,
		},
		FireSale: FireSale{
			BaseDiscount: 0.20,
			Increment:    0.05,
			MaxHaircut:   0.50,
		},
		Credit: CreditMigration{
			MigrationRate:    0.08,
			ProvisioningRate: 0.70,
			RWAUplift:        0.25,
		},
		FundingSpreadBps:        500,
		CollateralHaircutUplift: 0.30,
		Description:             "Severe idiosyncratic crisis with major deposit flight",
	}
}

// ZeroStress runs n periods with no run-off, shocks, fire sales or
// migration. Useful as a baseline: a zero-stress run must leave the
// balance sheet untouched.
func ZeroStress(n int) *Scenario {
	return &Scenario{
		Name:        "Zero Stress",
		Granularity: Daily,
		Periods:     n,
		RunoffRates: map[balance.LiabilityCategory]float64{},
		FireSale:    FireSale{MaxHaircut: 0.50},
		Description: "No-op baseline scenario",
	}
}

// Presets returns every predefined scenario.
func Presets() []*Scenario {
	return []*Scenario{
		BaselLCRStandard(),
		SevereStress(),
		IdiosyncraticCrisis(),
	}
}

// PresetByName looks a predefined scenario up by display name or slug,
// e.g. "Severe Combined Stress" and "severe_combined_stress" both match.
func PresetByName(name string) (*Scenario, bool) {
	want := slug(name)
	for _, s := range Presets() {
		if s.Name == name || slug(s.Name) == want {
			return s, true
		}
	}
	return nil, false
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
