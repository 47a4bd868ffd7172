package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *GameReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Capacity Market Report: %s\n\n", r.SessionName))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Session: %s | State: %s | Years: %d-%d (current %d)\n\n",
		r.SessionID, r.State, r.StartYear, r.EndYear, r.CurrentYear))

	// Clearing results
	sb.WriteString("## Clearing Results\n\n")
	if len(r.Clearings) == 0 {
		sb.WriteString("No markets cleared yet.\n\n")
	} else {
		sb.WriteString("| Year | Period | Demand MW | Cleared MW | Price $/MWh | Energy MWh | Offers | Shortfall |\n")
		sb.WriteString("|------|--------|-----------|------------|-------------|------------|--------|-----------|\n")
		for _, row := range r.Clearings {
			shortfall := ""
			if row.Shortfall {
				shortfall = "YES"
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %.0f | %.0f | %.2f | %.0f | %d | %s |\n",
				row.Year, row.Period, row.DemandMW, row.ClearedMW,
				row.ClearingPrice, row.TotalEnergyMWh, row.OffersAccepted, shortfall))
		}
		sb.WriteString("\n")
	}

	// Utility standings
	sb.WriteString("## Utility Standings\n\n")
	if len(r.Standings) == 0 {
		sb.WriteString("No utilities registered.\n\n")
	} else {
		sb.WriteString("| Utility | Budget $ | Debt $ | Equity $ | Plants | Capacity MW |\n")
		sb.WriteString("|---------|----------|--------|----------|--------|-------------|\n")
		for _, row := range r.Standings {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f | %d | %.0f |\n",
				row.Username, row.Budget, row.Debt, row.Equity, row.PlantCount, row.CapacityMW))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
