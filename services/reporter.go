package services

import (
	"fmt"
	"strconv"
	"strings"

	"airbnb-fee-simulator/models"
)

// PrintSimulationReport formats and prints the outcome of a simulation
// (and, when present, the grid search that produced its schedule) to the
// terminal. Fees are converted to percentages here, at the display
// boundary only.
func PrintSimulationReport(summary *models.RevenueSummary, schedule models.FeeSchedule,
	tierSales map[models.Tier]float64, search *models.SearchResult) {

	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("FEE-TIER REVENUE SIMULATION", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n FEE SCHEDULE (%% of booking revenue)\n%s\n", thin)
	fmt.Printf("  High-volume tier (>240 days)   : %.2f%%\n", schedule.High*100)
	fmt.Printf("  Mid-volume tier  (120-240 days): %.2f%%\n", schedule.Mid*100)
	fmt.Printf("  Low-volume tier  (<=120 days)  : %.2f%%\n", schedule.Low*100)

	fmt.Printf("\n PLATFORM REVENUE\n%s\n", thin)
	fmt.Printf("  Original (flat 3.3%%)    : $%s\n", formatMoney(summary.OriginalTotal))
	fmt.Printf("  Simulated (tiered)      : $%s\n", formatMoney(summary.SimulatedTotal))
	fmt.Printf("  Change                  : %+.2f%%\n", summary.RevenueChangePct)

	if len(tierSales) > 0 {
		fmt.Printf("\n SIMULATED FEE REVENUE BY TIER\n%s\n", thin)
		for _, t := range []models.Tier{models.TierHigh, models.TierMid, models.TierLow} {
			fmt.Printf("  %-6s : $%s\n", t, formatMoney(tierSales[t]))
		}
	}

	if search != nil {
		fmt.Printf("\n GRID SEARCH\n%s\n", thin)
		fmt.Printf("  Cells evaluated  : %d\n", search.Evaluated)
		fmt.Printf("  Feasible cells   : %d\n", search.Feasible)
		fmt.Printf("  Host revenue     : $%s (%+.2f%%)\n", formatMoney(search.HostRevenue), search.HostRevenueDeltaPct)
	}

	fmt.Printf("\n%s\n\n", border)
}

// formatMoney renders a rounded amount with thousands separators.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}
