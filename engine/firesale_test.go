package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveHaircutVolumePenalty(t *testing.T) {
	t.Parallel()

	// Selling exactly 10% of the balance adds exactly one increment;
	// 25% adds 2.5 increments. The law is linear and continuous.
	assert.InDelta(t, 0.07, effectiveHaircut(100, 1000, 0.05, 0.02, 0.50), 1e-12)
	assert.InDelta(t, 0.10, effectiveHaircut(250, 1000, 0.05, 0.02, 0.50), 1e-12)
	assert.InDelta(t, 0.05+1.7*0.02, effectiveHaircut(170, 1000, 0.05, 0.02, 0.50), 1e-12)
}

func TestEffectiveHaircutCap(t *testing.T) {
	t.Parallel()

	// all-in haircut is capped
	assert.InDelta(t, 0.50, effectiveHaircut(1000, 1000, 0.40, 0.05, 0.50), 1e-12)

	// zero cap means the default cap, not "no cap"
	assert.InDelta(t, DefaultMaxHaircut, effectiveHaircut(1000, 1000, 0.40, 0.05, 0), 1e-12)

	// no volume increment, haircut is just the fixed part
	assert.InDelta(t, 0.25, effectiveHaircut(900, 1000, 0.25, 0, 0.50), 1e-12)
}

func TestGrossToRaiseNoIncrement(t *testing.T) {
	t.Parallel()

	// flat haircut: need / (1 - h)
	assert.InDelta(t, 125.0, grossToRaise(100, 1000, 0.20, 0, 0.50), 1e-9)

	// clamped at the category balance
	assert.InDelta(t, 50.0, grossToRaise(100, 50, 0.20, 0, 0.50), 1e-9)

	assert.Zero(t, grossToRaise(0, 1000, 0.20, 0, 0.50))
	assert.Zero(t, grossToRaise(100, 0, 0.20, 0, 0.50))
}

func TestGrossToRaiseNetsExactlyTheNeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		need      float64
		bal       float64
		fixed     float64
		increment float64
		cap       float64
	}{
		{"small_sale", 50, 1000, 0.10, 0.02, 0.50},
		{"mid_sale", 300, 1000, 0.05, 0.03, 0.50},
		{"near_cap", 100, 1000, 0.45, 0.05, 0.50},
		{"zero_fixed", 200, 2000, 0, 0.02, 0.50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := grossToRaise(tt.need, tt.bal, tt.fixed, tt.increment, tt.cap)
			assert.Less(t, g, tt.bal)

			h := effectiveHaircut(g, tt.bal, tt.fixed, tt.increment, tt.cap)
			net := g * (1 - h)
			assert.InDelta(t, tt.need, net, 1e-6)
		})
	}
}

func TestGrossToRaiseCappedRegion(t *testing.T) {
	t.Parallel()

	// fixed 0.45, cap 0.50, increment 0.05 on a 1000 balance: the cap
	// binds at a gross of 100 netting 50; raising 100 needs a gross of
	// 200, all of it at the capped haircut.
	g := grossToRaise(100, 1000, 0.45, 0.05, 0.50)
	assert.InDelta(t, 200.0, g, 1e-6)

	h := effectiveHaircut(g, 1000, 0.45, 0.05, 0.50)
	assert.InDelta(t, 0.50, h, 1e-12)
	assert.InDelta(t, 100.0, g*(1-h), 1e-6)
}

func TestGrossToRaiseExhaustsBalance(t *testing.T) {
	t.Parallel()

	// the need exceeds anything the category can net
	g := grossToRaise(10_000, 500, 0.10, 0.02, 0.50)
	assert.InDelta(t, 500.0, g, 1e-9)
}
