package economics

import (
	"errors"
	"fmt"

	"capacity-market-sim/internal/domain"
)

// DefaultFuelGrowthRate is the compounding annual growth applied when a
// requested year is beyond the scheduled fuel prices.
const DefaultFuelGrowthRate = 0.02

// ErrEmptyFuelSchedule is returned when a schedule has no priced years.
var ErrEmptyFuelSchedule = errors.New("empty fuel schedule")

// FuelPricesForYear resolves the per-fuel prices for a year. Years present
// in the schedule are returned as-is. Years beyond the latest scheduled
// year are extrapolated from it with growthRate compounded over the gap,
// which makes the lookup deterministic for any (schedule, year) pair.
// Years before the earliest scheduled year resolve to the earliest entry.
func FuelPricesForYear(schedule domain.FuelSchedule, year int, growthRate float64) (map[domain.FuelType]float64, error) {
	if len(schedule) == 0 {
		return nil, ErrEmptyFuelSchedule
	}

	if prices, ok := schedule[year]; ok {
		return copyPrices(prices), nil
	}

	earliest, latest := 0, 0
	for y := range schedule {
		if earliest == 0 || y < earliest {
			earliest = y
		}
		if y > latest {
			latest = y
		}
	}

	if year < earliest {
		return copyPrices(schedule[earliest]), nil
	}

	factor := pow1p(growthRate, year-latest)
	out := make(map[domain.FuelType]float64, len(schedule[latest]))
	for fuelType, price := range schedule[latest] {
		out[fuelType] = price * factor
	}
	return out, nil
}

// FuelPriceForYear resolves a single fuel's price for a year.
func FuelPriceForYear(schedule domain.FuelSchedule, year int, fuelType domain.FuelType, growthRate float64) (float64, error) {
	prices, err := FuelPricesForYear(schedule, year, growthRate)
	if err != nil {
		return 0, err
	}
	price, ok := prices[fuelType]
	if !ok {
		return 0, fmt.Errorf("fuel %s not in schedule", fuelType)
	}
	return price, nil
}

// pow1p computes (1+rate)^n for non-negative integer n without math.Pow,
// keeping the compounding exactly reproducible across platforms.
func pow1p(rate float64, n int) float64 {
	factor := 1.0
	for i := 0; i < n; i++ {
		factor *= 1 + rate
	}
	return factor
}

func copyPrices(in map[domain.FuelType]float64) map[domain.FuelType]float64 {
	out := make(map[domain.FuelType]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
