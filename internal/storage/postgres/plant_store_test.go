package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

func createTestPlant(t *testing.T, utilityID, sessionID, name string, tech domain.Technology) *domain.Plant {
	t.Helper()
	p, err := domain.NewPlantFromTemplate(utilityID, sessionID, name, tech, 400, 2025, 2028, 2058)
	require.NoError(t, err)
	return p
}

func TestPlantStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlantStore(pool)

	p := createTestPlant(t, "util-1", "sess-1", "riverside cc", domain.TechGasCC)
	p.MaintenanceYears[2031] = true

	require.NoError(t, store.Insert(ctx, p))

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, domain.TechGasCC, got.Technology)
	assert.InDelta(t, 480_000_000, got.CapitalCostTotal, 1e-3)
	require.NotNil(t, got.HeatRate)
	assert.InDelta(t, 6.4, *got.HeatRate, 1e-9)
	require.NotNil(t, got.FuelType)
	assert.Equal(t, domain.FuelGas, *got.FuelType)
	assert.True(t, got.MaintenanceYears[2031])

	// Nullable columns stay nil for fuel-free technology.
	solar := createTestPlant(t, "util-1", "sess-1", "desert pv", domain.TechSolar)
	require.NoError(t, store.Insert(ctx, solar))
	gotSolar, err := store.GetByID(ctx, solar.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSolar.HeatRate)
	assert.Nil(t, gotSolar.FuelType)
}

func TestPlantStore_DuplicateAndNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlantStore(pool)

	p := createTestPlant(t, "util-1", "sess-1", "riverside cc", domain.TechGasCC)
	require.NoError(t, store.Insert(ctx, p))

	assert.ErrorIs(t, store.Insert(ctx, p), storage.ErrDuplicateKey)

	_, err := store.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ghost := createTestPlant(t, "util-1", "sess-1", "ghost", domain.TechCoal)
	assert.ErrorIs(t, store.Update(ctx, ghost), storage.ErrNotFound)
}

func TestPlantStore_Listing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlantStore(pool)

	p1 := createTestPlant(t, "util-1", "sess-1", "a", domain.TechGasCC)
	p2 := createTestPlant(t, "util-2", "sess-1", "b", domain.TechCoal)
	p3 := createTestPlant(t, "util-1", "sess-2", "c", domain.TechSolar)
	p1.ID, p2.ID, p3.ID = "plant-b", "plant-a", "plant-c"

	for _, p := range []*domain.Plant{p1, p2, p3} {
		require.NoError(t, store.Insert(ctx, p))
	}

	bySession, err := store.ListBySession(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, bySession, 2)
	assert.Equal(t, "plant-a", bySession[0].ID)
	assert.Equal(t, "plant-b", bySession[1].ID)

	byUtility, err := store.ListByUtility(ctx, "sess-1", "util-1")
	require.NoError(t, err)
	require.Len(t, byUtility, 1)
	assert.Equal(t, "plant-b", byUtility[0].ID)
}
