package finance

import (
	"errors"
	"math"
	"testing"

	"capacity-market-sim/internal/domain"
)

const tolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestCommitCapital_Split(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 1_000_000_000)

	err := CommitCapital(u, 480_000_000)
	if err != nil {
		t.Fatalf("CommitCapital failed: %v", err)
	}

	// 30% of 480M = 144M from budget and equity, 70% = 336M as debt.
	if !almostEqual(u.Budget, 856_000_000) {
		t.Errorf("Budget: got %v, want 856000000", u.Budget)
	}
	if !almostEqual(u.Equity, 856_000_000) {
		t.Errorf("Equity: got %v, want 856000000", u.Equity)
	}
	if !almostEqual(u.Debt, 336_000_000) {
		t.Errorf("Debt: got %v, want 336000000", u.Debt)
	}
}

func TestCommitCapital_InsufficientBudget(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 100_000_000)

	// Equity share 30% of 400M = 120M > 100M budget.
	err := CommitCapital(u, 400_000_000)
	if !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("Expected ErrInsufficientBudget, got %v", err)
	}

	// Failed commitment must leave the balance sheet untouched.
	if u.Budget != 100_000_000 || u.Equity != 100_000_000 || u.Debt != 0 {
		t.Errorf("Balance sheet mutated on failure: budget %v, equity %v, debt %v",
			u.Budget, u.Equity, u.Debt)
	}
}

func TestCommitCapital_InvalidAmount(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 1_000_000_000)

	for _, amount := range []float64{0, -1} {
		err := CommitCapital(u, amount)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if err := CommitCapital(nil, 100); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Nil utility: expected ErrInvalidAmount, got %v", err)
	}
}

func TestCommitCapital_ExactBudget(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 300)

	// Equity share exactly equals budget.
	if err := CommitCapital(u, 1000); err != nil {
		t.Fatalf("CommitCapital failed: %v", err)
	}
	if !almostEqual(u.Budget, 0) {
		t.Errorf("Budget: got %v, want 0", u.Budget)
	}
	if !almostEqual(u.Debt, 700) {
		t.Errorf("Debt: got %v, want 700", u.Debt)
	}
}

func TestPostSettlement_Profit(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 1_000_000)

	if err := PostSettlement(u, 500_000, 300_000); err != nil {
		t.Fatalf("PostSettlement failed: %v", err)
	}
	if !almostEqual(u.Budget, 1_200_000) {
		t.Errorf("Budget: got %v, want 1200000", u.Budget)
	}
	if !almostEqual(u.Equity, 1_200_000) {
		t.Errorf("Equity: got %v, want 1200000", u.Equity)
	}
}

func TestPostSettlement_LossCanGoNegative(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 100_000)

	if err := PostSettlement(u, 0, 250_000); err != nil {
		t.Fatalf("PostSettlement failed: %v", err)
	}
	if !almostEqual(u.Budget, -150_000) {
		t.Errorf("Budget: got %v, want -150000", u.Budget)
	}
}

func TestPostSettlement_InvalidInput(t *testing.T) {
	u := domain.NewUtility("alice", domain.UserTypeUtility, 100_000)

	if err := PostSettlement(u, -1, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Negative revenue: expected ErrInvalidAmount, got %v", err)
	}
	if err := PostSettlement(u, 0, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Negative cost: expected ErrInvalidAmount, got %v", err)
	}
	if err := PostSettlement(nil, 1, 1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Nil utility: expected ErrInvalidAmount, got %v", err)
	}
}
