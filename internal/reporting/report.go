package reporting

import "time"

// GameReport summarizes one session: clearing outcomes per year and period,
// plus final utility standings.
type GameReport struct {
	GeneratedAt time.Time
	SessionID   string
	SessionName string
	State       string
	StartYear   int
	EndYear     int
	CurrentYear int

	// Clearing rows, ordered year ASC then canonical period order.
	Clearings []ClearingRow

	// Utility standings, ordered by username ASC.
	Standings []StandingRow
}

// ClearingRow is one cleared (year, period) in the report.
type ClearingRow struct {
	Year           int
	Period         string
	DemandMW       float64
	ClearedMW      float64
	ClearingPrice  float64
	TotalEnergyMWh float64
	OffersAccepted int
	Shortfall      bool
}

// StandingRow is one utility's balance sheet and fleet position.
type StandingRow struct {
	Username   string
	Budget     float64
	Debt       float64
	Equity     float64
	PlantCount int
	CapacityMW float64
}
