// Package metrics computes Basel-style regulatory metrics over a
// balance-sheet snapshot. Every function is stateless and read-only, so
// the calculators are shared freely between the engine and reporting.
package metrics

import (
	"github.com/rustyeddy/banksim/balance"
)

// RatioCeiling is the sentinel reported (in percent) for ratios whose
// denominator is zero or negative. Reported instead of dividing.
const RatioCeiling = 999.9

// level2CapFactor enforces the Basel 40% cap on Level 2 HQLA: after
// haircuts, Level 2 may be at most 2/3 of Level 1, which keeps Level 1
// at 60% or more of the total stock.
const level2CapFactor = 2.0 / 3.0

// ASF factors by funding category (equity carries 100%).
var asfFactors = map[balance.LiabilityCategory]float64{
	balance.RetailStable:            0.95,
	balance.RetailUnstable:          0.90,
	balance.CorporateOperational:    0.50,
	balance.CorporateNonOperational: 0.00,
	balance.Wholesale:               0.00,
	balance.Secured:                 0.00,
	balance.OtherLiabilities:        0.00,
}

// RSF factors by asset category.
var rsfFactors = map[balance.AssetCategory]float64{
	balance.Cash:            0.00,
	balance.HQLAL1:          0.05,
	balance.HQLAL2A:         0.15,
	balance.HQLAL2B:         0.50,
	balance.OtherSecurities: 1.00,
	balance.LoansPerforming: 0.85,
	balance.LoansNPL:        1.00,
	balance.RealEstate:      1.00,
	balance.OtherAssets:     1.00,
}

// Snapshot carries every metric computed over one balance-sheet state.
// Ratios are in percent (100 = 100%).
type Snapshot struct {
	LCR         float64
	HQLA        float64 // LCR numerator after haircuts and the Level 2 cap
	NetOutflows float64 // LCR denominator

	NSFR float64
	ASF  float64
	RSF  float64

	// Capital ratios are meaningless at zero RWA; CapitalDefined is
	// false there and the ratio fields hold zero.
	CET1Ratio         float64
	Tier1Ratio        float64
	TotalCapitalRatio float64
	CapitalDefined    bool
	RWA               float64

	LeverageRatio float64
	LoanToDeposit float64
}

// LCR returns the Liquidity Coverage Ratio in percent along with its
// numerator and denominator. weights gives the run-off fraction per
// liability category over the 30-day-equivalent window.
func LCR(s *balance.Sheet, weights map[balance.LiabilityCategory]float64) (lcr, hqla, outflows float64) {
	l1 := s.Assets[balance.HQLAL1]
	l2 := s.Assets[balance.HQLAL2A]*(1-balance.L2AHaircut) +
		s.Assets[balance.HQLAL2B]*(1-balance.L2BHaircut)

	cap := level2CapFactor * l1
	if l2 > cap {
		l2 = cap
	}
	hqla = l1 + l2

	for _, cat := range balance.LiabilityCategories {
		outflows += s.Liabilities[cat] * weights[cat]
	}

	if outflows <= 0 {
		return RatioCeiling, hqla, outflows
	}
	lcr = hqla / outflows * 100
	if lcr > RatioCeiling {
		lcr = RatioCeiling
	}
	return lcr, hqla, outflows
}

// NSFR returns the Net Stable Funding Ratio in percent with its ASF and
// RSF components.
func NSFR(s *balance.Sheet) (nsfr, asf, rsf float64) {
	asf = s.TotalEquity()
	for _, cat := range balance.LiabilityCategories {
		asf += s.Liabilities[cat] * asfFactors[cat]
	}
	for _, cat := range balance.AssetCategories {
		rsf += s.Assets[cat] * rsfFactors[cat]
	}

	if rsf <= 0 {
		return RatioCeiling, asf, rsf
	}
	nsfr = asf / rsf * 100
	if nsfr > RatioCeiling {
		nsfr = RatioCeiling
	}
	return nsfr, asf, rsf
}

// CapitalRatios returns CET1, Tier 1 and total capital ratios in
// percent over risk-weighted assets scaled by rwaMultiplier (credit
// deterioration uplift; pass 1 for none). defined is false at zero RWA:
// the ratios are reported as undefined rather than raising or dividing.
func CapitalRatios(s *balance.Sheet, rwaMultiplier float64) (cet1, tier1, total, rwa float64, defined bool) {
	rwa = s.RiskWeightedAssets() * rwaMultiplier
	if rwa <= 0 {
		return 0, 0, 0, rwa, false
	}
	cet1 = s.Equity[balance.CET1] / rwa * 100
	tier1 = s.Tier1Capital() / rwa * 100
	total = s.TotalCapital() / rwa * 100
	return cet1, tier1, total, rwa, true
}

// Leverage returns equity over total assets in percent (zero on an
// empty sheet).
func Leverage(s *balance.Sheet) float64 {
	assets := s.TotalAssets()
	if assets <= 0 {
		return 0
	}
	return s.TotalEquity() / assets * 100
}

// LoanToDeposit returns performing loans over total deposits in percent
// (zero when there are no deposits).
func LoanToDeposit(s *balance.Sheet) float64 {
	deposits := s.TotalDeposits()
	if deposits <= 0 {
		return 0
	}
	return s.Assets[balance.LoansPerforming] / deposits * 100
}

// Compute evaluates every metric over one snapshot.
func Compute(s *balance.Sheet, weights map[balance.LiabilityCategory]float64, rwaMultiplier float64) Snapshot {
	var m Snapshot
	m.LCR, m.HQLA, m.NetOutflows = LCR(s, weights)
	m.NSFR, m.ASF, m.RSF = NSFR(s)
	m.CET1Ratio, m.Tier1Ratio, m.TotalCapitalRatio, m.RWA, m.CapitalDefined = CapitalRatios(s, rwaMultiplier)
	m.LeverageRatio = Leverage(s)
	m.LoanToDeposit = LoanToDeposit(s)
	return m
}
