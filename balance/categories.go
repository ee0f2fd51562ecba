package balance

// AssetCategory identifies one line of the asset side.
type AssetCategory string

const (
	Cash            AssetCategory = "cash"
	HQLAL1          AssetCategory = "hqla_l1"
	HQLAL2A         AssetCategory = "hqla_l2a"
	HQLAL2B         AssetCategory = "hqla_l2b"
	OtherSecurities AssetCategory = "other_securities"
	LoansPerforming AssetCategory = "loans_performing"
	LoansNPL        AssetCategory = "loans_npl"
	RealEstate      AssetCategory = "real_estate"
	OtherAssets     AssetCategory = "other_assets"
)

// LiabilityCategory identifies one funding line.
type LiabilityCategory string

const (
	RetailStable            LiabilityCategory = "retail_stable"
	RetailUnstable          LiabilityCategory = "retail_unstable"
	CorporateOperational    LiabilityCategory = "corporate_operational"
	CorporateNonOperational LiabilityCategory = "corporate_nonoperational"
	Wholesale               LiabilityCategory = "wholesale"
	Secured                 LiabilityCategory = "secured"
	OtherLiabilities        LiabilityCategory = "other"
)

// EquityComponent identifies a capital tier.
type EquityComponent string

const (
	CET1  EquityComponent = "cet1"
	AT1   EquityComponent = "at1"
	Tier2 EquityComponent = "tier2"
)

// AssetCategories lists every asset category in canonical order.
// Iteration over a Sheet must always go through these slices so results
// are reproducible; map iteration order is not.
var AssetCategories = []AssetCategory{
	Cash,
	HQLAL1,
	HQLAL2A,
	HQLAL2B,
	OtherSecurities,
	LoansPerforming,
	LoansNPL,
	RealEstate,
	OtherAssets,
}

// LiabilityCategories lists every liability category in canonical order.
var LiabilityCategories = []LiabilityCategory{
	RetailStable,
	RetailUnstable,
	CorporateOperational,
	CorporateNonOperational,
	Wholesale,
	Secured,
	OtherLiabilities,
}

// EquityComponents lists the capital tiers in seniority order.
var EquityComponents = []EquityComponent{CET1, AT1, Tier2}

// ValidAssetCategory reports whether s names a known asset category.
func ValidAssetCategory(s AssetCategory) bool {
	for _, c := range AssetCategories {
		if c == s {
			return true
		}
	}
	return false
}

// ValidLiabilityCategory reports whether s names a known liability category.
func ValidLiabilityCategory(s LiabilityCategory) bool {
	for _, c := range LiabilityCategories {
		if c == s {
			return true
		}
	}
	return false
}

// riskWeights are the stylized standardized-approach weights used for RWA.
var riskWeights = map[AssetCategory]float64{
	Cash:            0.0,
	HQLAL1:          0.0,
	HQLAL2A:         0.20,
	HQLAL2B:         0.50,
	OtherSecurities: 1.00,
	LoansPerforming: 1.00,
	LoansNPL:        1.50,
	RealEstate:      1.00,
	OtherAssets:     1.00,
}
