package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the clearing rows as a CSV string.
func RenderCSV(rows []ClearingRow) string {
	var sb strings.Builder

	sb.WriteString("year,period,demand_mw,cleared_mw,clearing_price,total_energy_mwh,offers_accepted,shortfall\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%.2f,%.2f,%.2f,%.2f,%d,%t\n",
			r.Year,
			r.Period,
			r.DemandMW,
			r.ClearedMW,
			r.ClearingPrice,
			r.TotalEnergyMWh,
			r.OffersAccepted,
			r.Shortfall,
		))
	}

	return sb.String()
}
