package memory

import (
	"context"
	"errors"
	"testing"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

func TestSessionStore_InsertAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := domain.NewGameSession("spring-league", "operator-1", 2025, 2035)

	// Insert
	err := store.Insert(ctx, sess)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Get
	got, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Name != sess.Name {
		t.Errorf("Name mismatch: got %s, want %s", got.Name, sess.Name)
	}
	if got.State != domain.StateSetup {
		t.Errorf("State mismatch: got %s, want %s", got.State, domain.StateSetup)
	}
	if got.CurrentYear != 2025 {
		t.Errorf("CurrentYear mismatch: got %d, want 2025", got.CurrentYear)
	}
}

func TestSessionStore_DuplicateKey(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := domain.NewGameSession("spring-league", "operator-1", 2025, 2035)

	if err := store.Insert(ctx, sess); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, sess)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestSessionStore_NotFound(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	err = store.Update(ctx, domain.NewGameSession("x", "op", 2025, 2030))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on update, got %v", err)
	}
}

func TestSessionStore_Update(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := domain.NewGameSession("spring-league", "operator-1", 2025, 2035)
	if err := store.Insert(ctx, sess); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	sess.State = domain.StateYearPlanning
	sess.CurrentYear = 2026
	if err := store.Update(ctx, sess); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.State != domain.StateYearPlanning {
		t.Errorf("State not updated: got %s", got.State)
	}
	if got.CurrentYear != 2026 {
		t.Errorf("CurrentYear not updated: got %d", got.CurrentYear)
	}
}

func TestSessionStore_CopyIsolation(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := domain.NewGameSession("spring-league", "operator-1", 2025, 2035)
	if err := store.Insert(ctx, sess); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the returned fuel schedule must not affect stored state.
	got, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	got.FuelPrices[2025][domain.FuelGas] = 999.0

	again, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Second GetByID failed: %v", err)
	}
	if again.FuelPrices[2025][domain.FuelGas] != 3.50 {
		t.Errorf("Stored fuel schedule mutated through returned copy: got %v",
			again.FuelPrices[2025][domain.FuelGas])
	}
}

func TestSessionStore_InvalidInput(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	err := store.Insert(ctx, nil)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}

	err = store.Insert(ctx, &domain.GameSession{ID: ""})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty ID, got %v", err)
	}
}
