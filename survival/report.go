package survival

import (
	"fmt"
	"io"
	"sort"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/engine"
)

// PrintSummary writes a human-readable survival report.
func PrintSummary(w io.Writer, run *engine.SimulationRun, sum Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Stress Test Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Scenario:        %s\n", sum.Scenario)
	fmt.Fprintf(w, "Granularity:     %s\n", run.Granularity)
	fmt.Fprintf(w, "Periods Run:     %d of %d\n", sum.PeriodsRun, run.TotalPeriods)
	if !run.Completed {
		fmt.Fprintln(w, "Status:          CANCELLED (partial run)")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Survival")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Survival Horizon: %d periods\n", sum.SurvivalHorizon)
	if sum.Breached {
		fmt.Fprintf(w, "Breached:        yes (%s)\n", joinBreaches(sum.BreachTypes))
		fmt.Fprintf(w, "Primary Driver:  %s\n", sum.PrimaryDriver)
	} else {
		fmt.Fprintln(w, "Breached:        no - bank survives the full scenario")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flows")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Withdrawals Paid: %.2f\n", sum.TotalWithdrawn)
	fmt.Fprintf(w, "Realized Losses:  %.2f\n", sum.TotalRealizedLoss)
	if sum.TotalUnmetOutflow > 0 {
		fmt.Fprintf(w, "Unmet Outflows:   %.2f\n", sum.TotalUnmetOutflow)
	}
	fmt.Fprintf(w, "Capital Erosion:  %.2f%%\n", sum.CapitalErosionPct)

	if len(sum.AssetDepletion) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Asset Depletion")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, cat := range sortedCategories(sum.AssetDepletion) {
			d := sum.AssetDepletion[cat]
			fmt.Fprintf(w, "%-18s sold %10.2f  loss %10.2f  avg haircut %5.1f%%\n",
				cat, d.TotalSold, d.TotalLoss, d.AvgHaircut*100)
		}
	}

	if len(sum.CriticalPeriods) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Critical Periods")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, cp := range sum.CriticalPeriods {
			fmt.Fprintf(w, "Period %-4d %-11s dropped %.2f\n", cp.Period, cp.Metric, cp.Drop)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Final Position")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Final LCR:       %.1f%%\n", sum.FinalLCR)
	fmt.Fprintf(w, "Final CET1:      %.2f%%\n", sum.FinalCET1)
	if final := run.Final(); final != nil {
		fmt.Fprintf(w, "Total Assets:    %.2f\n", final.Sheet.TotalAssets())
		fmt.Fprintf(w, "Cash:            %.2f\n", final.Sheet.Assets[balance.Cash])
	}

	fmt.Fprintln(w)
}

func joinBreaches(bs []engine.Breach) string {
	out := ""
	for i, b := range bs {
		if i > 0 {
			out += ", "
		}
		out += string(b)
	}
	return out
}

func sortedCategories(m map[balance.AssetCategory]Depletion) []balance.AssetCategory {
	cats := make([]balance.AssetCategory, 0, len(m))
	for cat := range m {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
