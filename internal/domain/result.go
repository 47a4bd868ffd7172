package domain

import (
	"github.com/google/uuid"
)

// AcceptedOffer records how much of one bid cleared in one period, in
// acceptance (merit) order. The marginal offer may be partially accepted.
type AcceptedOffer struct {
	BidID       string
	PlantID     string
	QuantityMW  float64 // accepted, possibly less than offered
	PricePerMWh float64
}

// MarketResult is the outcome of clearing one (session, year, period).
// Immutable once created; re-clearing the same key replaces the prior row.
type MarketResult struct {
	ID            string
	GameSessionID string
	Year          int
	Period        LoadPeriod

	ClearingPrice   float64
	ClearedMW       float64
	TotalEnergyMWh  float64
	AcceptedOffers  []AcceptedOffer
	MarginalPlantID *string // nil when no offers were accepted
	SupplyShortfall bool
}

// NewMarketResult creates a result row with a fresh identifier.
func NewMarketResult(sessionID string, year int, period LoadPeriod) *MarketResult {
	return &MarketResult{
		ID:            uuid.NewString(),
		GameSessionID: sessionID,
		Year:          year,
		Period:        period,
	}
}

// AcceptedBidIDs returns the accepted bid identifiers in acceptance order.
func (r *MarketResult) AcceptedBidIDs() []string {
	ids := make([]string, len(r.AcceptedOffers))
	for i, a := range r.AcceptedOffers {
		ids[i] = a.BidID
	}
	return ids
}
