// Package demand derives per-period demand for any simulation year from a
// base profile and a compounding growth rate. There is no mutable
// accumulator: demand for a year is a pure function of (profile, year).
package demand

import (
	"capacity-market-sim/internal/domain"
)

// ForYear returns per-period demand in MW for the given year.
// Each period's demand is base demand * (1+growth)^(year - base_year).
// Growth compounds from the profile's base year, so the result is
// reproducible for any year regardless of call order.
func ForYear(profile domain.DemandProfile, year int) domain.PeriodValues {
	factor := growthFactor(profile.GrowthRate, year-profile.BaseYear)
	return domain.PeriodValues{
		OffPeak:  profile.BaseDemand.OffPeak * factor,
		Shoulder: profile.BaseDemand.Shoulder * factor,
		Peak:     profile.BaseDemand.Peak * factor,
	}
}

// EnergyForYear converts the year's MW demand into MWh per period using the
// profile's fixed annual hour counts. Hour counts do not grow.
func EnergyForYear(profile domain.DemandProfile, year int) domain.PeriodValues {
	mw := ForYear(profile, year)
	return domain.PeriodValues{
		OffPeak:  mw.OffPeak * profile.Hours.OffPeak,
		Shoulder: mw.Shoulder * profile.Hours.Shoulder,
		Peak:     mw.Peak * profile.Hours.Peak,
	}
}

// growthFactor computes (1+rate)^n by iterated multiplication so equal
// inputs always produce bit-identical factors. Years before the base year
// divide the factor back down.
func growthFactor(rate float64, n int) float64 {
	factor := 1.0
	if n >= 0 {
		for i := 0; i < n; i++ {
			factor *= 1 + rate
		}
		return factor
	}
	for i := 0; i < -n; i++ {
		factor /= 1 + rate
	}
	return factor
}
