package balance

import (
	"math"
)

// Tolerance is the relative tolerance on the accounting identity
// assets == liabilities + equity.
const Tolerance = 1e-6

// Regulatory haircuts on Level 2 HQLA (Basel III LCR).
const (
	L2AHaircut = 0.15
	L2BHaircut = 0.50
)

// Sheet is a bank balance sheet in a single currency unit. All category
// amounts are plain float64 balances; they are non-negative on a valid
// opening sheet and stay non-negative through simulation mutations
// (equity alone may be driven negative by losses).
//
// A Sheet is not safe for concurrent use. The engine deep-copies the
// opening sheet per run so concurrent runs never share one.
type Sheet struct {
	Assets      map[AssetCategory]float64
	Liabilities map[LiabilityCategory]float64
	Equity      map[EquityComponent]float64
}

// New builds a Sheet from category amounts. Unknown categories are
// dropped silently by construction (callers validate names first);
// missing categories are zero-filled so lookups never miss.
func New(assets map[AssetCategory]float64, liabilities map[LiabilityCategory]float64, equity map[EquityComponent]float64) *Sheet {
	s := &Sheet{
		Assets:      make(map[AssetCategory]float64, len(AssetCategories)),
		Liabilities: make(map[LiabilityCategory]float64, len(LiabilityCategories)),
		Equity:      make(map[EquityComponent]float64, len(EquityComponents)),
	}
	for _, c := range AssetCategories {
		s.Assets[c] = assets[c]
	}
	for _, c := range LiabilityCategories {
		s.Liabilities[c] = liabilities[c]
	}
	for _, c := range EquityComponents {
		s.Equity[c] = equity[c]
	}
	return s
}

// Copy returns a deep copy. The engine works on a copy so the caller's
// opening sheet survives the run untouched.
func (s *Sheet) Copy() *Sheet {
	return New(s.Assets, s.Liabilities, s.Equity)
}

// TotalAssets returns the sum of all asset categories.
func (s *Sheet) TotalAssets() float64 {
	var sum float64
	for _, c := range AssetCategories {
		sum += s.Assets[c]
	}
	return sum
}

// TotalLiabilities returns the sum of all liability categories.
func (s *Sheet) TotalLiabilities() float64 {
	var sum float64
	for _, c := range LiabilityCategories {
		sum += s.Liabilities[c]
	}
	return sum
}

// TotalEquity returns the sum of all capital tiers.
func (s *Sheet) TotalEquity() float64 {
	var sum float64
	for _, c := range EquityComponents {
		sum += s.Equity[c]
	}
	return sum
}

// TotalHQLA returns the HQLA stock. With applyHaircuts the Level 2
// tiers carry their regulatory haircuts (uncapped; the 40% Level 2 cap
// lives in the LCR calculation).
func (s *Sheet) TotalHQLA(applyHaircuts bool) float64 {
	l1 := s.Assets[HQLAL1]
	l2a := s.Assets[HQLAL2A]
	l2b := s.Assets[HQLAL2B]
	if applyHaircuts {
		l2a *= 1 - L2AHaircut
		l2b *= 1 - L2BHaircut
	}
	return l1 + l2a + l2b
}

// LiquidAssets returns cash plus unhaircut HQLA.
func (s *Sheet) LiquidAssets() float64 {
	return s.Assets[Cash] + s.TotalHQLA(false)
}

// TotalDeposits returns retail plus corporate deposit funding.
func (s *Sheet) TotalDeposits() float64 {
	return s.Liabilities[RetailStable] +
		s.Liabilities[RetailUnstable] +
		s.Liabilities[CorporateOperational] +
		s.Liabilities[CorporateNonOperational]
}

// Tier1Capital returns CET1 + AT1.
func (s *Sheet) Tier1Capital() float64 {
	return s.Equity[CET1] + s.Equity[AT1]
}

// TotalCapital returns CET1 + AT1 + Tier2.
func (s *Sheet) TotalCapital() float64 {
	return s.Tier1Capital() + s.Equity[Tier2]
}

// RiskWeightedAssets returns Σ(category balance × stylized risk weight).
func (s *Sheet) RiskWeightedAssets() float64 {
	var rwa float64
	for _, c := range AssetCategories {
		rwa += s.Assets[c] * riskWeights[c]
	}
	return rwa
}

// Imbalance returns assets − (liabilities + equity).
func (s *Sheet) Imbalance() float64 {
	return s.TotalAssets() - s.TotalLiabilities() - s.TotalEquity()
}

// Balanced reports whether the accounting identity holds within the
// relative tolerance.
func (s *Sheet) Balanced() bool {
	scale := math.Max(1, math.Abs(s.TotalAssets()))
	return math.Abs(s.Imbalance()) <= Tolerance*scale
}

// Validate checks the opening-position rules: every amount non-negative
// and the identity assets == liabilities + equity within tolerance. It
// reports every violation, not just the first. Call it before a run
// starts, never mid-run.
func (s *Sheet) Validate() error {
	verr := &ValidationError{}

	for _, c := range AssetCategories {
		if s.Assets[c] < 0 {
			verr.Add("negative asset balance: %s = %g", c, s.Assets[c])
		}
	}
	for _, c := range LiabilityCategories {
		if s.Liabilities[c] < 0 {
			verr.Add("negative liability balance: %s = %g", c, s.Liabilities[c])
		}
	}
	for _, c := range EquityComponents {
		if s.Equity[c] < 0 {
			verr.Add("negative equity component: %s = %g", c, s.Equity[c])
		}
	}
	if !s.Balanced() {
		verr.Add("balance sheet out of balance: assets=%g liabilities=%g equity=%g diff=%g",
			s.TotalAssets(), s.TotalLiabilities(), s.TotalEquity(), s.Imbalance())
	}

	return verr.OrNil()
}

// ApplyWithdrawal reduces the named liability category and cash by
// amount. The reduction is clamped to the category balance. If cash
// cannot cover the clamped withdrawal, cash is driven to zero and the
// unmet remainder is returned as shortfall; a shortfall is an ordinary
// simulation signal, not an error. The returned error only fires for
// an unknown category, which indicates a config defect upstream.
func (s *Sheet) ApplyWithdrawal(category LiabilityCategory, amount float64) (withdrawn, shortfall float64, err error) {
	if !ValidLiabilityCategory(category) {
		return 0, 0, &InternalError{Op: "ApplyWithdrawal", Detail: "unknown liability category " + string(category)}
	}
	if amount <= 0 {
		return 0, 0, nil
	}

	withdrawn = math.Min(amount, s.Liabilities[category])
	s.Liabilities[category] -= withdrawn

	paid := math.Min(withdrawn, s.Assets[Cash])
	s.Assets[Cash] -= paid
	shortfall = withdrawn - paid

	return withdrawn, shortfall, nil
}

// Liquidation describes one asset sale.
type Liquidation struct {
	Category AssetCategory
	Gross    float64 // book value sold
	Haircut  float64 // fraction of gross lost on sale
	Proceeds float64 // cash received: gross × (1 − haircut)
	Loss     float64 // realized loss charged to CET1: gross × haircut
}

// Liquidate sells up to requested book value from the asset category at
// the given fractional haircut. Proceeds go to cash; the haircut is a
// realized loss against CET1. It never sells more than the category
// holds; the unmet remainder comes back as shortfall.
func (s *Sheet) Liquidate(category AssetCategory, requested, haircut float64) (liq Liquidation, shortfall float64, err error) {
	if !ValidAssetCategory(category) {
		return Liquidation{}, 0, &InternalError{Op: "Liquidate", Detail: "unknown asset category " + string(category)}
	}
	if haircut < 0 || haircut >= 1 {
		return Liquidation{}, 0, &InternalError{Op: "Liquidate", Detail: "haircut out of range"}
	}
	if requested <= 0 {
		return Liquidation{Category: category, Haircut: haircut}, 0, nil
	}

	gross := math.Min(requested, s.Assets[category])
	proceeds := gross * (1 - haircut)
	loss := gross - proceeds

	s.Assets[category] -= gross
	s.Assets[Cash] += proceeds
	s.Equity[CET1] -= loss

	if s.Assets[category] < 0 {
		return Liquidation{}, 0, &InternalError{Op: "Liquidate", Detail: "category balance went negative"}
	}

	return Liquidation{
		Category: category,
		Gross:    gross,
		Haircut:  haircut,
		Proceeds: proceeds,
		Loss:     loss,
	}, requested - gross, nil
}
