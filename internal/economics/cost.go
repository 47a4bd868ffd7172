// Package economics derives per-plant cost figures: marginal cost from fuel
// and carbon prices, and annual generation/cost totals from capacity factor.
package economics

import (
	"fmt"

	"capacity-market-sim/internal/domain"
)

// MarginalCost computes the short-run marginal cost of a plant in $/MWh.
// Plants without a fuel type (renewables, storage, fuel-free hydro) cost
// their variable O&M only. Fuel-bearing plants add heat_rate * fuel_price
// and emission_rate * carbon_price. A fuel-bearing plant without a heat
// rate is a template defect, never silently priced at zero.
func MarginalCost(plant *domain.Plant, fuelPrices map[domain.FuelType]float64, carbonPricePerTon float64) (float64, error) {
	if plant.FuelType == nil {
		return plant.VariableOMPerMWh, nil
	}
	if plant.HeatRate == nil {
		return 0, fmt.Errorf("%w: plant %s (%s) has fuel type %s but no heat rate",
			domain.ErrInvalidTemplate, plant.ID, plant.Technology, *plant.FuelType)
	}

	fuelPrice := fuelPrices[*plant.FuelType]
	fuelCost := *plant.HeatRate * fuelPrice

	tmpl, err := domain.TemplateFor(plant.Technology)
	if err != nil {
		return 0, err
	}
	carbonCost := tmpl.CO2TonsPerMWh * carbonPricePerTon

	return plant.VariableOMPerMWh + fuelCost + carbonCost, nil
}

// AnnualFigures holds the yearly generation and cost totals for one plant.
type AnnualFigures struct {
	GenerationMWh float64
	MarginalCost  float64
	VariableCost  float64
	FixedCost     float64
	TotalCost     float64
}

// AnnualEconomics computes capacity-factor-driven annual generation and the
// resulting variable/fixed/total cost split for a plant in one year.
func AnnualEconomics(plant *domain.Plant, fuelPrices map[domain.FuelType]float64, carbonPricePerTon float64) (AnnualFigures, error) {
	mc, err := MarginalCost(plant, fuelPrices, carbonPricePerTon)
	if err != nil {
		return AnnualFigures{}, err
	}

	generation := plant.CapacityMW * plant.CapacityFactor * domain.HoursPerYear
	variable := generation * mc

	return AnnualFigures{
		GenerationMWh: generation,
		MarginalCost:  mc,
		VariableCost:  variable,
		FixedCost:     plant.FixedOMAnnual,
		TotalCost:     plant.FixedOMAnnual + variable,
	}, nil
}
