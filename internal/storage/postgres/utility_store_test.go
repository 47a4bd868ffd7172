package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

func TestUtilityStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUtilityStore(pool)

	u := domain.NewUtility("alice", domain.UserTypeUtility, domain.DefaultStartingBudget)
	require.NoError(t, store.Insert(ctx, u))

	got, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, domain.UserTypeUtility, got.Type)
	assert.InDelta(t, domain.DefaultStartingBudget, got.Budget, 1e-3)
	assert.InDelta(t, got.Budget, got.Equity, 1e-3)

	assert.ErrorIs(t, store.Insert(ctx, u), storage.ErrDuplicateKey)

	// Balance sheet update after a capital commitment.
	u.Budget -= 144_000_000
	u.Equity -= 144_000_000
	u.Debt += 336_000_000
	require.NoError(t, store.Update(ctx, u))

	got, err = store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.InDelta(t, u.Budget, got.Budget, 1e-3)
	assert.InDelta(t, 336_000_000, got.Debt, 1e-3)
}

func TestUtilityStore_ListOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUtilityStore(pool)

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, store.Insert(ctx,
			domain.NewUtility(name, domain.UserTypeUtility, domain.DefaultStartingBudget)))
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "bob", all[1].Username)
	assert.Equal(t, "carol", all[2].Username)
}

func TestUtilityStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUtilityStore(pool)

	_, err := store.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
