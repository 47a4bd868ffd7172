// Package clearing implements the uniform-price merit-order auction that
// turns per-period supply offers into a clearing price and accepted
// quantities.
package clearing

import (
	"fmt"
	"sort"

	"capacity-market-sim/internal/domain"
)

// Offer is a single plant's supply offer for one load period.
type Offer struct {
	BidID       string
	PlantID     string
	QuantityMW  float64
	PricePerMWh float64
}

// Result is the outcome of clearing one period.
type Result struct {
	Period          domain.LoadPeriod
	DemandMW        float64
	ClearingPrice   float64
	ClearedMW       float64
	TotalEnergyMWh  float64
	Accepted        []domain.AcceptedOffer // acceptance order
	MarginalPlantID *string
	Shortfall       bool
}

// Clear runs the merit-order auction for one period.
//
// Offers are sorted by ascending price, ties broken by ascending plant ID
// so the outcome never depends on submission order. Quantity accumulates
// in sorted order until demand is met; the last accepted offer is marginal
// and sets the uniform clearing price, possibly with only part of its
// quantity accepted. When total supply falls short of demand every offer
// is accepted, the result is flagged as a shortfall, and the price is the
// most expensive accepted offer. An empty offer set clears zero quantity
// at an undefined (zero) price; neither case is an error.
func Clear(period domain.LoadPeriod, demandMW float64, periodHours float64, offers []Offer) (*Result, error) {
	if demandMW < 0 {
		return nil, fmt.Errorf("negative demand %.1f MW for %s", demandMW, period)
	}

	result := &Result{Period: period, DemandMW: demandMW}
	if len(offers) == 0 {
		result.Shortfall = demandMW > 0
		return result, nil
	}

	sorted := make([]Offer, len(offers))
	copy(sorted, offers)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PricePerMWh != sorted[j].PricePerMWh {
			return sorted[i].PricePerMWh < sorted[j].PricePerMWh
		}
		return sorted[i].PlantID < sorted[j].PlantID
	})

	cumulative := 0.0
	for _, offer := range sorted {
		if offer.QuantityMW <= 0 {
			continue
		}
		if cumulative >= demandMW {
			break
		}

		accepted := offer.QuantityMW
		if cumulative+accepted > demandMW {
			// Marginal offer: take only the portion needed to reach demand.
			accepted = demandMW - cumulative
		}
		cumulative += accepted

		result.Accepted = append(result.Accepted, domain.AcceptedOffer{
			BidID:       offer.BidID,
			PlantID:     offer.PlantID,
			QuantityMW:  accepted,
			PricePerMWh: offer.PricePerMWh,
		})
		plantID := offer.PlantID
		result.MarginalPlantID = &plantID
		result.ClearingPrice = offer.PricePerMWh
	}

	result.ClearedMW = cumulative
	result.Shortfall = cumulative < demandMW
	result.TotalEnergyMWh = cumulative * periodHours

	return result, nil
}

// OffersFromBids expands the period slice of a bid book into auction
// offers. Zero-quantity offers are kept out of the book here rather than
// in Clear so callers see the same offer set the auction saw.
func OffersFromBids(period domain.LoadPeriod, bids []*domain.YearlyBid) []Offer {
	offers := make([]Offer, 0, len(bids))
	for _, bid := range bids {
		qty := bid.Quantities.For(period)
		if qty <= 0 {
			continue
		}
		offers = append(offers, Offer{
			BidID:       bid.ID,
			PlantID:     bid.PlantID,
			QuantityMW:  qty,
			PricePerMWh: bid.Prices.For(period),
		})
	}
	return offers
}
