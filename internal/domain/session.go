package domain

import (
	"github.com/google/uuid"
)

// GameState is the lifecycle state of a game session. Transitions are
// operator-triggered and validated by the game orchestrator.
type GameState string

const (
	StateSetup          GameState = "setup"
	StateYearPlanning   GameState = "year_planning"
	StateBiddingOpen    GameState = "bidding_open"
	StateMarketClearing GameState = "market_clearing"
	StateYearComplete   GameState = "year_complete"
	StateGameComplete   GameState = "game_complete"
)

// DemandProfile describes per-period base demand and its compounding growth.
// Demand for any year is a pure function of (profile, year).
type DemandProfile struct {
	BaseYear   int
	BaseDemand PeriodValues // MW in the base year
	GrowthRate float64      // compounding annual fraction
	Hours      PeriodHours
}

// FuelSchedule maps year -> fuel type -> price per MMBtu.
type FuelSchedule map[int]map[FuelType]float64

// GameSession is the root aggregate for one multi-year simulation.
type GameSession struct {
	ID         string
	Name       string
	OperatorID string

	StartYear   int
	EndYear     int
	CurrentYear int

	State GameState

	CarbonPricePerTon float64
	DiscountRate      float64
	InflationRate     float64

	DemandProfile DemandProfile
	FuelPrices    FuelSchedule
}

// Session parameter defaults.
const (
	DefaultCarbonPricePerTon = 50.0
	DefaultDiscountRate      = 0.08
	DefaultInflationRate     = 0.025
	DefaultDemandGrowthRate  = 0.02
)

// DefaultDemandProfile returns the standard three-period demand profile for
// a session starting in baseYear.
func DefaultDemandProfile(baseYear int) DemandProfile {
	return DemandProfile{
		BaseYear:   baseYear,
		BaseDemand: PeriodValues{OffPeak: 1200, Shoulder: 1800, Peak: 2400},
		GrowthRate: DefaultDemandGrowthRate,
		Hours:      DefaultPeriodHours(),
	}
}

// DefaultFuelSchedule returns the seed fuel price schedule for startYear.
// Later years without an entry are extrapolated by the economics package.
func DefaultFuelSchedule(startYear int) FuelSchedule {
	return FuelSchedule{
		startYear: {
			FuelCoal:    2.50,
			FuelGas:     3.50,
			FuelUranium: 0.75,
			FuelBiomass: 3.00,
		},
	}
}

// NewGameSession creates a session in the setup state with default market
// parameters.
func NewGameSession(name, operatorID string, startYear, endYear int) *GameSession {
	return &GameSession{
		ID:                uuid.NewString(),
		Name:              name,
		OperatorID:        operatorID,
		StartYear:         startYear,
		EndYear:           endYear,
		CurrentYear:       startYear,
		State:             StateSetup,
		CarbonPricePerTon: DefaultCarbonPricePerTon,
		DiscountRate:      DefaultDiscountRate,
		InflationRate:     DefaultInflationRate,
		DemandProfile:     DefaultDemandProfile(startYear),
		FuelPrices:        DefaultFuelSchedule(startYear),
	}
}
