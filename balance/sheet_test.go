package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSheet() *Sheet {
	return New(
		map[AssetCategory]float64{
			Cash:            100,
			HQLAL1:          200,
			HQLAL2A:         100,
			HQLAL2B:         50,
			OtherSecurities: 50,
			LoansPerforming: 400,
			LoansNPL:        20,
			RealEstate:      60,
			OtherAssets:     20,
		},
		map[LiabilityCategory]float64{
			RetailStable:            400,
			RetailUnstable:          150,
			CorporateOperational:    100,
			CorporateNonOperational: 80,
			Wholesale:               120,
			Secured:                 40,
			OtherLiabilities:        10,
		},
		map[EquityComponent]float64{
			CET1:  80,
			AT1:   10,
			Tier2: 10,
		},
	)
}

func TestTotals(t *testing.T) {
	t.Parallel()

	s := testSheet()

	assert.InDelta(t, 1000.0, s.TotalAssets(), 1e-9)
	assert.InDelta(t, 900.0, s.TotalLiabilities(), 1e-9)
	assert.InDelta(t, 100.0, s.TotalEquity(), 1e-9)
	assert.True(t, s.Balanced())

	assert.InDelta(t, 350.0, s.TotalHQLA(false), 1e-9)
	assert.InDelta(t, 200+100*0.85+50*0.50, s.TotalHQLA(true), 1e-9)
	assert.InDelta(t, 450.0, s.LiquidAssets(), 1e-9)
	assert.InDelta(t, 730.0, s.TotalDeposits(), 1e-9)
	assert.InDelta(t, 90.0, s.Tier1Capital(), 1e-9)
	assert.InDelta(t, 100.0, s.TotalCapital(), 1e-9)
}

func TestRiskWeightedAssets(t *testing.T) {
	t.Parallel()

	s := testSheet()

	// cash and L1 at 0%, L2A 20%, L2B 50%, NPL 150%, the rest 100%.
	want := 100*0.20 + 50*0.50 + 50 + 400 + 20*1.5 + 60 + 20
	assert.InDelta(t, want, s.RiskWeightedAssets(), 1e-9)
}

func TestValidateReportsAllViolations(t *testing.T) {
	t.Parallel()

	s := testSheet()
	s.Assets[Cash] = -5
	s.Liabilities[Wholesale] = -1

	err := s.Validate()
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)

	// two negatives plus the identity now being broken
	assert.Len(t, verr.Violations, 3)
}

func TestValidateBalancedWithinTolerance(t *testing.T) {
	t.Parallel()

	s := testSheet()
	s.Assets[Cash] += 1e-5 // within 1e-6 relative on a 1000 sheet
	assert.NoError(t, s.Validate())

	s.Assets[Cash] += 1.0
	err := s.Validate()
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestApplyWithdrawal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		amount         float64
		wantWithdrawn  float64
		wantShortfall  float64
		wantCash       float64
		wantStableLeft float64
	}{
		{"covered_by_cash", 60, 60, 0, 40, 340},
		{"cash_exhausted", 250, 250, 150, 0, 150},
		{"clamped_to_liability", 500, 400, 300, 0, 0},
		{"zero_amount", 0, 0, 0, 100, 400},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := testSheet()
			withdrawn, shortfall, err := s.ApplyWithdrawal(RetailStable, tt.amount)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantWithdrawn, withdrawn, 1e-9)
			assert.InDelta(t, tt.wantShortfall, shortfall, 1e-9)
			assert.InDelta(t, tt.wantCash, s.Assets[Cash], 1e-9)
			assert.InDelta(t, tt.wantStableLeft, s.Liabilities[RetailStable], 1e-9)
		})
	}
}

func TestApplyWithdrawalUnknownCategory(t *testing.T) {
	t.Parallel()

	s := testSheet()
	_, _, err := s.ApplyWithdrawal("checking", 10)
	require.Error(t, err)
	assert.IsType(t, &InternalError{}, err)
}

func TestLiquidate(t *testing.T) {
	t.Parallel()

	s := testSheet()

	liq, shortfall, err := s.Liquidate(HQLAL2A, 40, 0.10)
	require.NoError(t, err)

	assert.InDelta(t, 40.0, liq.Gross, 1e-9)
	assert.InDelta(t, 36.0, liq.Proceeds, 1e-9)
	assert.InDelta(t, 4.0, liq.Loss, 1e-9)
	assert.InDelta(t, 0.0, shortfall, 1e-9)

	assert.InDelta(t, 60.0, s.Assets[HQLAL2A], 1e-9)
	assert.InDelta(t, 136.0, s.Assets[Cash], 1e-9)
	assert.InDelta(t, 76.0, s.Equity[CET1], 1e-9)

	// realized loss hits both sides equally, identity survives
	assert.True(t, s.Balanced())
}

func TestLiquidateNeverOversells(t *testing.T) {
	t.Parallel()

	s := testSheet()

	liq, shortfall, err := s.Liquidate(HQLAL2B, 500, 0)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, liq.Gross, 1e-9)
	assert.InDelta(t, 450.0, shortfall, 1e-9)
	assert.InDelta(t, 0.0, s.Assets[HQLAL2B], 1e-9)
	assert.True(t, s.Balanced())
}

func TestLiquidateBadHaircut(t *testing.T) {
	t.Parallel()

	s := testSheet()
	_, _, err := s.Liquidate(HQLAL1, 10, 1.0)
	require.Error(t, err)
	assert.IsType(t, &InternalError{}, err)
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	s := testSheet()
	c := s.Copy()

	c.Assets[Cash] = 0
	c.Liabilities[Wholesale] = 0
	c.Equity[CET1] = 0

	assert.InDelta(t, 100.0, s.Assets[Cash], 1e-9)
	assert.InDelta(t, 120.0, s.Liabilities[Wholesale], 1e-9)
	assert.InDelta(t, 80.0, s.Equity[CET1], 1e-9)
}
