package engine

import "math"

// volumeStep is the sale fraction that adds one full fire-sale
// increment: selling 10% of a category's balance in one period raises
// the haircut by exactly the scenario increment, scaling linearly and
// continuously with the fraction sold.
const volumeStep = 0.10

// DefaultMaxHaircut caps the all-in haircut when the scenario leaves
// its own cap unset.
const DefaultMaxHaircut = 0.50

func resolveCap(maxHaircut float64) float64 {
	if maxHaircut <= 0 {
		return DefaultMaxHaircut
	}
	return maxHaircut
}

// effectiveHaircut returns the all-in haircut for selling gross out of
// bal: fixed (base haircut + fire-sale base) plus the volume penalty,
// capped.
func effectiveHaircut(gross, bal, fixed, increment, maxHaircut float64) float64 {
	cap := resolveCap(maxHaircut)
	h := fixed
	if increment > 0 && bal > 0 {
		h += gross / bal / volumeStep * increment
	}
	if h > cap {
		h = cap
	}
	return h
}

// grossToRaise returns the smallest gross sale from a category with
// balance bal whose net proceeds reach need, under the volume-dependent
// haircut h(g) = min(fixed + (g/bal)/0.10·increment, cap). Net proceeds
// are g·(1−h(g)): quadratic in g below the cap, linear above it, so the
// sale size solves in closed form and the haircut booked always matches
// the fraction actually sold. Returns at most bal; the caller detects
// the remaining shortfall from the proceeds.
func grossToRaise(need, bal, fixed, increment, maxHaircut float64) float64 {
	if need <= 0 || bal <= 0 {
		return 0
	}
	cap := resolveCap(maxHaircut)
	if fixed > cap {
		fixed = cap
	}

	if increment <= 0 {
		return math.Min(need/(1-fixed), bal)
	}

	k := increment / (volumeStep * bal)

	// gCap is the sale size where the cap starts binding; gPeak is where
	// marginal net proceeds hit zero. Below both, net proceeds increase
	// in g and the quadratic has the answer.
	gCap := (cap - fixed) / k
	gPeak := (1 - fixed) / (2 * k)
	rise := math.Min(gCap, gPeak)
	maxMonotone := (1-fixed)*rise - k*rise*rise

	var g float64
	if need <= maxMonotone {
		disc := (1-fixed)*(1-fixed) - 4*k*need
		if disc < 0 {
			disc = 0
		}
		g = 2 * need / ((1 - fixed) + math.Sqrt(disc))
	} else {
		netAtCap := (1-fixed)*gCap - k*gCap*gCap
		g = gCap + (need-netAtCap)/(1-cap)
	}

	return math.Min(g, bal)
}
