// Package finance maintains utility balance sheets: capital commitments for
// plant construction and yearly market settlements.
package finance

import (
	"errors"
	"fmt"

	"capacity-market-sim/internal/domain"
)

// Capital structure for plant financing. The equity share is paid from the
// utility's budget; the remainder is carried as debt.
const (
	DebtShare   = 0.70
	EquityShare = 0.30
)

// Ledger errors.
var (
	// ErrInvalidAmount is returned for non-positive commitment amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBudget is returned when the equity share of a
	// commitment exceeds the utility's budget.
	ErrInsufficientBudget = errors.New("insufficient budget")
)

// CommitCapital finances a capital expenditure against the utility's balance
// sheet: 30% is paid from budget and equity, 70% is taken on as debt. The
// utility is mutated only after all checks pass, so a failed commitment
// leaves it untouched.
func CommitCapital(u *domain.Utility, amount float64) error {
	if u == nil {
		return fmt.Errorf("%w: no utility", ErrInvalidAmount)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %.2f must be positive", ErrInvalidAmount, amount)
	}

	equityPortion := amount * EquityShare
	if equityPortion > u.Budget {
		return fmt.Errorf("%w: equity share %.2f exceeds budget %.2f",
			ErrInsufficientBudget, equityPortion, u.Budget)
	}

	u.Budget -= equityPortion
	u.Equity -= equityPortion
	u.Debt += amount * DebtShare
	return nil
}

// PostSettlement posts a year's market outcome to the balance sheet. Net
// revenue minus cost flows to both budget and equity; a losing year may
// drive either negative.
func PostSettlement(u *domain.Utility, revenue, cost float64) error {
	if u == nil {
		return fmt.Errorf("%w: no utility", ErrInvalidAmount)
	}
	if revenue < 0 || cost < 0 {
		return fmt.Errorf("%w: revenue %.2f and cost %.2f must be non-negative",
			ErrInvalidAmount, revenue, cost)
	}

	net := revenue - cost
	u.Budget += net
	u.Equity += net
	return nil
}
