package domain

import (
	"errors"
	"fmt"
)

// Technology identifies a generation technology with a fixed template.
type Technology string

const (
	TechCoal         Technology = "coal"
	TechGasCC        Technology = "natural_gas_cc"
	TechGasCT        Technology = "natural_gas_ct"
	TechNuclear      Technology = "nuclear"
	TechSolar        Technology = "solar"
	TechWindOnshore  Technology = "wind_onshore"
	TechWindOffshore Technology = "wind_offshore"
	TechBattery      Technology = "battery"
	TechHydro        Technology = "hydro"
	TechBiomass      Technology = "biomass"
)

// FuelType identifies a priced fuel in the session fuel schedule.
type FuelType string

const (
	FuelCoal    FuelType = "coal"
	FuelGas     FuelType = "natural_gas"
	FuelUranium FuelType = "uranium"
	FuelBiomass FuelType = "biomass"
)

// Template errors.
var (
	// ErrInvalidTemplate is returned when a template is internally
	// inconsistent, e.g. a fuel-bearing technology without a heat rate.
	ErrInvalidTemplate = errors.New("invalid plant template")

	// ErrUnknownTechnology is returned for a technology with no template.
	ErrUnknownTechnology = errors.New("unknown technology")
)

// PlantTemplate holds the static per-technology cost and performance
// parameters. Templates are immutable reference data.
type PlantTemplate struct {
	Technology            Technology
	Name                  string
	OvernightCostPerKW    float64
	ConstructionYears     int
	EconomicLifeYears     int
	CapacityFactorBase    float64
	HeatRate              *float64  // MMBtu/MWh; nil for non-fuel technologies
	FuelType              *FuelType // nil for renewables and storage
	FixedOMPerKWYear      float64
	VariableOMPerMWh      float64
	CO2TonsPerMWh         float64
	MinGenerationFraction float64
}

// HasFuel reports whether the technology burns a priced fuel.
func (t *PlantTemplate) HasFuel() bool {
	return t.FuelType != nil
}

// Validate checks internal consistency of a template.
func (t *PlantTemplate) Validate() error {
	if t.HasFuel() && t.HeatRate == nil {
		return fmt.Errorf("%w: %s requires a heat rate", ErrInvalidTemplate, t.Technology)
	}
	if t.CapacityFactorBase <= 0 || t.CapacityFactorBase > 1 {
		return fmt.Errorf("%w: %s capacity factor %.3f out of (0,1]", ErrInvalidTemplate, t.Technology, t.CapacityFactorBase)
	}
	if t.MinGenerationFraction < 0 || t.MinGenerationFraction > 1 {
		return fmt.Errorf("%w: %s min generation fraction %.3f out of [0,1]", ErrInvalidTemplate, t.Technology, t.MinGenerationFraction)
	}
	return nil
}

func heatRate(v float64) *float64 { return &v }
func fuel(f FuelType) *FuelType   { return &f }

// templates is the immutable per-technology catalog, constructed once at
// process start. Costs are overnight $/kW, O&M in $/kW-yr and $/MWh,
// emissions in tons CO2/MWh.
var templates = map[Technology]PlantTemplate{
	TechCoal: {
		Technology:            TechCoal,
		Name:                  "Supercritical Coal",
		OvernightCostPerKW:    4500,
		ConstructionYears:     4,
		EconomicLifeYears:     40,
		CapacityFactorBase:    0.85,
		HeatRate:              heatRate(9.5),
		FuelType:              fuel(FuelCoal),
		FixedOMPerKWYear:      45,
		VariableOMPerMWh:      4.5,
		CO2TonsPerMWh:         0.95,
		MinGenerationFraction: 0.40,
	},
	TechGasCC: {
		Technology:            TechGasCC,
		Name:                  "Natural Gas Combined Cycle",
		OvernightCostPerKW:    1200,
		ConstructionYears:     3,
		EconomicLifeYears:     30,
		CapacityFactorBase:    0.87,
		HeatRate:              heatRate(6.4),
		FuelType:              fuel(FuelGas),
		FixedOMPerKWYear:      15,
		VariableOMPerMWh:      2.0,
		CO2TonsPerMWh:         0.35,
		MinGenerationFraction: 0.30,
	},
	TechGasCT: {
		Technology:            TechGasCT,
		Name:                  "Natural Gas Combustion Turbine",
		OvernightCostPerKW:    800,
		ConstructionYears:     2,
		EconomicLifeYears:     25,
		CapacityFactorBase:    0.15,
		HeatRate:              heatRate(10.5),
		FuelType:              fuel(FuelGas),
		FixedOMPerKWYear:      12,
		VariableOMPerMWh:      3.5,
		CO2TonsPerMWh:         0.55,
		MinGenerationFraction: 0,
	},
	TechNuclear: {
		Technology:            TechNuclear,
		Name:                  "Nuclear",
		OvernightCostPerKW:    8500,
		ConstructionYears:     7,
		EconomicLifeYears:     60,
		CapacityFactorBase:    0.92,
		HeatRate:              heatRate(10.5),
		FuelType:              fuel(FuelUranium),
		FixedOMPerKWYear:      120,
		VariableOMPerMWh:      2.5,
		CO2TonsPerMWh:         0,
		MinGenerationFraction: 0.70,
	},
	TechSolar: {
		Technology:            TechSolar,
		Name:                  "Utility-Scale Solar PV",
		OvernightCostPerKW:    1100,
		ConstructionYears:     1,
		EconomicLifeYears:     25,
		CapacityFactorBase:    0.26,
		FixedOMPerKWYear:      18,
		VariableOMPerMWh:      0,
		CO2TonsPerMWh:         0,
		MinGenerationFraction: 0,
	},
	TechWindOnshore: {
		Technology:            TechWindOnshore,
		Name:                  "Onshore Wind",
		OvernightCostPerKW:    1400,
		ConstructionYears:     2,
		EconomicLifeYears:     25,
		CapacityFactorBase:    0.37,
		FixedOMPerKWYear:      28,
		VariableOMPerMWh:      0,
		CO2TonsPerMWh:         0,
		MinGenerationFraction: 0,
	},
	TechWindOffshore: {
		Technology:            TechWindOffshore,
		Name:                  "Offshore Wind",
		OvernightCostPerKW:    4200,
		ConstructionYears:     3,
		EconomicLifeYears:     25,
		CapacityFactorBase:    0.45,
		FixedOMPerKWYear:      80,
		VariableOMPerMWh:      0,
		CO2TonsPerMWh:         0,
		MinGenerationFraction: 0,
	},
	TechBattery: {
		Technology:            TechBattery,
		Name:                  "Grid Battery Storage",
		OvernightCostPerKW:    1300,
		ConstructionYears:     1,
		EconomicLifeYears:     15,
		CapacityFactorBase:    0.12,
		FixedOMPerKWYear:      25,
		VariableOMPerMWh:      1.0,
		CO2TonsPerMWh:         0,
		MinGenerationFraction: 0,
	},
	TechHydro: {
		Technology:            TechHydro,
		Name:                  "Conventional Hydro",
		OvernightCostPerKW:    3500,
		ConstructionYears:     5,
		EconomicLifeYears:     80,
		CapacityFactorBase:    0.42,
		FixedOMPerKWYear:      40,
		VariableOMPerMWh:      1.5,
		CO2TonsPerMWh:         0,
		MinGenerationFraction: 0.10,
	},
	TechBiomass: {
		Technology:            TechBiomass,
		Name:                  "Biomass",
		OvernightCostPerKW:    4000,
		ConstructionYears:     3,
		EconomicLifeYears:     30,
		CapacityFactorBase:    0.80,
		HeatRate:              heatRate(13.5),
		FuelType:              fuel(FuelBiomass),
		FixedOMPerKWYear:      110,
		VariableOMPerMWh:      5.0,
		CO2TonsPerMWh:         0.10,
		MinGenerationFraction: 0.30,
	},
}

// Templates returns a copy of the full template catalog.
func Templates() map[Technology]PlantTemplate {
	out := make(map[Technology]PlantTemplate, len(templates))
	for k, v := range templates {
		out[k] = v
	}
	return out
}

// TemplateFor returns the template for a technology.
// Returns ErrUnknownTechnology if no template exists.
func TemplateFor(tech Technology) (PlantTemplate, error) {
	t, ok := templates[tech]
	if !ok {
		return PlantTemplate{}, fmt.Errorf("%w: %s", ErrUnknownTechnology, tech)
	}
	return t, nil
}
