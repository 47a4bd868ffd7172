package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PlantStatus is the lifecycle status of a plant, always derived from the
// construction timeline and the session's current year.
type PlantStatus string

const (
	StatusPlanned           PlantStatus = "planned"
	StatusUnderConstruction PlantStatus = "under_construction"
	StatusOperating         PlantStatus = "operating"
	StatusMaintenance       PlantStatus = "maintenance"
	StatusRetired           PlantStatus = "retired"
)

// ErrInvalidPlant is returned when a plant violates its timeline invariant.
var ErrInvalidPlant = errors.New("invalid plant")

// Plant is a generating unit owned by one utility within one game session.
type Plant struct {
	ID            string
	UtilityID     string
	GameSessionID string
	Name          string
	Technology    Technology

	CapacityMW float64

	ConstructionStartYear int
	CommissioningYear     int
	RetirementYear        int

	CapitalCostTotal float64
	FixedOMAnnual    float64
	VariableOMPerMWh float64

	CapacityFactor  float64
	HeatRate        *float64
	FuelType        *FuelType
	MinGenerationMW float64

	// MaintenanceYears marks years the plant is offline for maintenance.
	MaintenanceYears map[int]bool
}

// NewPlantFromTemplate builds a plant from the technology catalog, deriving
// capital cost, fixed O&M and minimum generation from nameplate capacity.
func NewPlantFromTemplate(utilityID, sessionID, name string, tech Technology, capacityMW float64, constructionStart, commissioning, retirement int) (*Plant, error) {
	tmpl, err := TemplateFor(tech)
	if err != nil {
		return nil, err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	if capacityMW <= 0 {
		return nil, fmt.Errorf("%w: capacity %.1f MW must be positive", ErrInvalidPlant, capacityMW)
	}

	capacityKW := capacityMW * 1000
	p := &Plant{
		ID:                    uuid.NewString(),
		UtilityID:             utilityID,
		GameSessionID:         sessionID,
		Name:                  name,
		Technology:            tech,
		CapacityMW:            capacityMW,
		ConstructionStartYear: constructionStart,
		CommissioningYear:     commissioning,
		RetirementYear:        retirement,
		CapitalCostTotal:      capacityKW * tmpl.OvernightCostPerKW,
		FixedOMAnnual:         capacityKW * tmpl.FixedOMPerKWYear,
		VariableOMPerMWh:      tmpl.VariableOMPerMWh,
		CapacityFactor:        tmpl.CapacityFactorBase,
		HeatRate:              tmpl.HeatRate,
		FuelType:              tmpl.FuelType,
		MinGenerationMW:       capacityMW * tmpl.MinGenerationFraction,
		MaintenanceYears:      map[int]bool{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the construction timeline invariant:
// construction_start_year < commissioning_year < retirement_year.
func (p *Plant) Validate() error {
	if p.ConstructionStartYear >= p.CommissioningYear {
		return fmt.Errorf("%w: construction start %d must precede commissioning %d",
			ErrInvalidPlant, p.ConstructionStartYear, p.CommissioningYear)
	}
	if p.CommissioningYear >= p.RetirementYear {
		return fmt.Errorf("%w: commissioning %d must precede retirement %d",
			ErrInvalidPlant, p.CommissioningYear, p.RetirementYear)
	}
	if p.CapacityMW <= 0 {
		return fmt.Errorf("%w: capacity %.1f MW must be positive", ErrInvalidPlant, p.CapacityMW)
	}
	return nil
}

// StatusForYear derives the lifecycle status from the plant timeline and the
// given simulation year. Status is never stored independently: it is always
// a pure function of (timeline, year).
func (p *Plant) StatusForYear(year int) PlantStatus {
	switch {
	case year >= p.RetirementYear:
		return StatusRetired
	case year < p.ConstructionStartYear:
		return StatusPlanned
	case year < p.CommissioningYear:
		return StatusUnderConstruction
	case p.MaintenanceYears[year]:
		return StatusMaintenance
	default:
		return StatusOperating
	}
}

// DispatchableInYear reports whether the plant can be offered into the
// market for the given year.
func (p *Plant) DispatchableInYear(year int) bool {
	return p.StatusForYear(year) == StatusOperating
}
