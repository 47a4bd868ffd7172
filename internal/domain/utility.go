package domain

import (
	"github.com/google/uuid"
)

// UserType distinguishes the operator from bidding utilities.
type UserType string

const (
	UserTypeOperator UserType = "operator"
	UserTypeUtility  UserType = "utility"
)

// DefaultStartingBudget is the initial cash and equity position of a utility.
const DefaultStartingBudget = 1_000_000_000.0

// Utility is a financial actor: an operator or a bidding utility with a
// budget, debt and equity position. All figures are whole currency units.
type Utility struct {
	ID       string
	Username string
	Type     UserType

	Budget float64
	Debt   float64
	Equity float64
}

// NewUtility creates a utility with the given starting budget fully backed
// by equity.
func NewUtility(username string, userType UserType, budget float64) *Utility {
	return &Utility{
		ID:       uuid.NewString(),
		Username: username,
		Type:     userType,
		Budget:   budget,
		Debt:     0,
		Equity:   budget,
	}
}
