package clearing

import (
	"math"
	"testing"

	"capacity-market-sim/internal/domain"
)

// Three-offer book used across the merit-order tests:
// plant A 400 MW @ $45, plant B 200 MW @ $85, plant C 150 MW @ $0.
func threeOffers() []Offer {
	return []Offer{
		{BidID: "bid-a", PlantID: "plant-a", QuantityMW: 400, PricePerMWh: 45},
		{BidID: "bid-b", PlantID: "plant-b", QuantityMW: 200, PricePerMWh: 85},
		{BidID: "bid-c", PlantID: "plant-c", QuantityMW: 150, PricePerMWh: 0},
	}
}

func TestClear_SufficientSupply(t *testing.T) {
	result, err := Clear(domain.PeriodPeak, 500, 1260, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	// Acceptance order C(150) then A(350 of 400); A is marginal at $45.
	if len(result.Accepted) != 2 {
		t.Fatalf("expected 2 accepted offers, got %d", len(result.Accepted))
	}
	if result.Accepted[0].PlantID != "plant-c" || result.Accepted[0].QuantityMW != 150 {
		t.Errorf("first accepted offer: got %+v", result.Accepted[0])
	}
	if result.Accepted[1].PlantID != "plant-a" || result.Accepted[1].QuantityMW != 350 {
		t.Errorf("marginal offer partial acceptance: got %+v", result.Accepted[1])
	}
	if result.ClearingPrice != 45 {
		t.Errorf("clearing price: got %f, want 45", result.ClearingPrice)
	}
	if result.ClearedMW != 500 {
		t.Errorf("cleared quantity: got %f, want 500", result.ClearedMW)
	}
	if result.Shortfall {
		t.Error("unexpected shortfall flag")
	}
	if result.MarginalPlantID == nil || *result.MarginalPlantID != "plant-a" {
		t.Errorf("marginal plant: got %v", result.MarginalPlantID)
	}
	if result.TotalEnergyMWh != 500*1260 {
		t.Errorf("total energy: got %f, want %f", result.TotalEnergyMWh, 500*1260.0)
	}
}

func TestClear_MarginalOfferFullStack(t *testing.T) {
	result, err := Clear(domain.PeriodPeak, 700, 1260, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	// C(150) + A(400) + B(150 of 200), price set by B at $85.
	if len(result.Accepted) != 3 {
		t.Fatalf("expected 3 accepted offers, got %d", len(result.Accepted))
	}
	if result.Accepted[2].PlantID != "plant-b" || result.Accepted[2].QuantityMW != 150 {
		t.Errorf("marginal offer: got %+v", result.Accepted[2])
	}
	if result.ClearingPrice != 85 {
		t.Errorf("clearing price: got %f, want 85", result.ClearingPrice)
	}
	if result.ClearedMW != 700 {
		t.Errorf("cleared quantity: got %f, want 700", result.ClearedMW)
	}
	if result.Shortfall {
		t.Error("unexpected shortfall flag")
	}
}

func TestClear_SupplyShortfall(t *testing.T) {
	result, err := Clear(domain.PeriodPeak, 1000, 1260, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	// All 750 MW accepted, shortfall flagged, price is the most expensive
	// accepted offer.
	if !result.Shortfall {
		t.Error("expected shortfall flag")
	}
	if result.ClearedMW != 750 {
		t.Errorf("cleared quantity: got %f, want 750", result.ClearedMW)
	}
	if result.ClearingPrice != 85 {
		t.Errorf("clearing price: got %f, want 85", result.ClearingPrice)
	}
	for _, accepted := range result.Accepted {
		if accepted.PlantID == "plant-b" && accepted.QuantityMW != 200 {
			t.Errorf("plant B should be fully accepted, got %f MW", accepted.QuantityMW)
		}
	}
}

func TestClear_NoOffers(t *testing.T) {
	result, err := Clear(domain.PeriodOffPeak, 500, 5000, nil)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if result.ClearedMW != 0 || result.ClearingPrice != 0 {
		t.Errorf("empty book must clear zero: %+v", result)
	}
	if result.MarginalPlantID != nil {
		t.Errorf("marginal plant must be nil, got %v", *result.MarginalPlantID)
	}
	if !result.Shortfall {
		t.Error("unmet demand with no offers is a shortfall")
	}
}

func TestClear_TieBreakByPlantID(t *testing.T) {
	offers := []Offer{
		{BidID: "bid-2", PlantID: "plant-z", QuantityMW: 100, PricePerMWh: 30},
		{BidID: "bid-1", PlantID: "plant-a", QuantityMW: 100, PricePerMWh: 30},
	}

	result, err := Clear(domain.PeriodShoulder, 150, 2500, offers)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if result.Accepted[0].PlantID != "plant-a" {
		t.Errorf("tie must break by plant ID: first accepted %s", result.Accepted[0].PlantID)
	}
	if result.Accepted[1].PlantID != "plant-z" || result.Accepted[1].QuantityMW != 50 {
		t.Errorf("second accepted offer: got %+v", result.Accepted[1])
	}

	// Reversed submission order must produce the identical result.
	reversed := []Offer{offers[1], offers[0]}
	again, err := Clear(domain.PeriodShoulder, 150, 2500, reversed)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if again.Accepted[0].PlantID != result.Accepted[0].PlantID ||
		again.Accepted[1].QuantityMW != result.Accepted[1].QuantityMW {
		t.Error("acceptance order depends on submission order")
	}
}

func TestClear_AcceptancePricesMonotonic(t *testing.T) {
	result, err := Clear(domain.PeriodPeak, 700, 1260, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	prev := math.Inf(-1)
	for _, accepted := range result.Accepted {
		if accepted.PricePerMWh < prev {
			t.Errorf("acceptance prices not monotonic: %f after %f", accepted.PricePerMWh, prev)
		}
		prev = accepted.PricePerMWh
	}
	// Clearing price equals the highest-priced accepted offer.
	if result.ClearingPrice != prev {
		t.Errorf("clearing price %f is not the highest accepted price %f", result.ClearingPrice, prev)
	}
}

func TestClear_ZeroDemand(t *testing.T) {
	result, err := Clear(domain.PeriodOffPeak, 0, 5000, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if result.ClearedMW != 0 || len(result.Accepted) != 0 || result.Shortfall {
		t.Errorf("zero demand must clear nothing: %+v", result)
	}
}

func TestClear_NegativeDemandFails(t *testing.T) {
	if _, err := Clear(domain.PeriodPeak, -1, 1260, threeOffers()); err == nil {
		t.Error("expected error for negative demand")
	}
}

func TestClear_Idempotent(t *testing.T) {
	first, err := Clear(domain.PeriodPeak, 700, 1260, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	second, err := Clear(domain.PeriodPeak, 700, 1260, threeOffers())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if first.ClearingPrice != second.ClearingPrice || first.ClearedMW != second.ClearedMW {
		t.Error("identical inputs produced different results")
	}
	for i := range first.Accepted {
		if first.Accepted[i] != second.Accepted[i] {
			t.Errorf("accepted offer %d differs between runs", i)
		}
	}
}

func TestOffersFromBids_SkipsZeroQuantity(t *testing.T) {
	bids := []*domain.YearlyBid{
		{
			ID: "bid-1", PlantID: "plant-1",
			Quantities: domain.PeriodValues{OffPeak: 100, Shoulder: 100, Peak: 0},
			Prices:     domain.PeriodValues{OffPeak: 20, Shoulder: 25, Peak: 90},
		},
	}

	if got := OffersFromBids(domain.PeriodPeak, bids); len(got) != 0 {
		t.Errorf("zero-quantity period produced offers: %+v", got)
	}
	got := OffersFromBids(domain.PeriodShoulder, bids)
	if len(got) != 1 || got[0].PricePerMWh != 25 {
		t.Errorf("shoulder offer mismatch: %+v", got)
	}
}
