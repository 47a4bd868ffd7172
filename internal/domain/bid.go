package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidBid is returned for malformed bids (negative quantity or price,
// quantity above nameplate, wrong owner, plant not dispatchable).
var ErrInvalidBid = errors.New("invalid bid")

// YearlyBid is a utility's supply offer for one plant and one year, with a
// quantity/price pair per load period. There is at most one bid per
// (plant, year); resubmission replaces the prior bid.
type YearlyBid struct {
	ID            string
	UtilityID     string
	GameSessionID string
	PlantID       string
	Year          int

	Quantities PeriodValues // MW offered per period
	Prices     PeriodValues // $/MWh per period
}

// NewYearlyBid creates a bid with a fresh identifier.
func NewYearlyBid(utilityID, sessionID, plantID string, year int, quantities, prices PeriodValues) *YearlyBid {
	return &YearlyBid{
		ID:            uuid.NewString(),
		UtilityID:     utilityID,
		GameSessionID: sessionID,
		PlantID:       plantID,
		Year:          year,
		Quantities:    quantities,
		Prices:        prices,
	}
}

// Validate checks bid quantities and prices against the offering plant.
// The plant must belong to the submitting utility and be dispatchable in
// the bid year.
func (b *YearlyBid) Validate(plant *Plant) error {
	if plant == nil {
		return fmt.Errorf("%w: no plant", ErrInvalidBid)
	}
	if plant.UtilityID != b.UtilityID {
		return fmt.Errorf("%w: plant %s not owned by utility %s", ErrInvalidBid, b.PlantID, b.UtilityID)
	}
	if !plant.DispatchableInYear(b.Year) {
		return fmt.Errorf("%w: plant %s is %s in %d", ErrInvalidBid, b.PlantID, plant.StatusForYear(b.Year), b.Year)
	}
	for _, p := range AllPeriods {
		qty := b.Quantities.For(p)
		price := b.Prices.For(p)
		if qty < 0 {
			return fmt.Errorf("%w: negative %s quantity %.1f MW", ErrInvalidBid, p, qty)
		}
		if qty > plant.CapacityMW {
			return fmt.Errorf("%w: %s quantity %.1f MW exceeds capacity %.1f MW", ErrInvalidBid, p, qty, plant.CapacityMW)
		}
		if price < 0 {
			return fmt.Errorf("%w: negative %s price %.2f", ErrInvalidBid, p, price)
		}
	}
	return nil
}
