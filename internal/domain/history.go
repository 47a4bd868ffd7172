package domain

import "time"

// ClearingRecord is an append-only analytic row written for every clearing
// run, including re-clears. Unlike MarketResult it is never replaced, so
// the history preserves every run in order.
type ClearingRecord struct {
	GameSessionID string
	Year          int
	Period        LoadPeriod

	DemandMW      float64
	ClearedMW     float64
	ClearingPrice float64
	OffersTotal   int
	OffersCleared int
	Shortfall     bool

	ClearedAt time.Time
}
