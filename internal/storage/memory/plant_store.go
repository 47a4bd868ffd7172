package memory

import (
	"context"
	"sort"
	"sync"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// PlantStore is an in-memory implementation of storage.PlantStore.
type PlantStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Plant // keyed by plant ID
}

// NewPlantStore creates a new in-memory plant store.
func NewPlantStore() *PlantStore {
	return &PlantStore{data: make(map[string]*domain.Plant)}
}

// Insert adds a new plant. Returns ErrDuplicateKey if the ID exists.
func (s *PlantStore) Insert(_ context.Context, p *domain.Plant) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[p.ID] = copyPlant(p)
	return nil
}

// GetByID retrieves a plant. Returns ErrNotFound if not exists.
func (s *PlantStore) GetByID(_ context.Context, plantID string) (*domain.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[plantID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyPlant(p), nil
}

// Update overwrites an existing plant. Returns ErrNotFound if not exists.
func (s *PlantStore) Update(_ context.Context, p *domain.Plant) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; !exists {
		return storage.ErrNotFound
	}
	s.data[p.ID] = copyPlant(p)
	return nil
}

// ListBySession retrieves all plants in a session, ordered by ID ASC.
func (s *PlantStore) ListBySession(_ context.Context, sessionID string) ([]*domain.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Plant
	for _, p := range s.data {
		if p.GameSessionID == sessionID {
			result = append(result, copyPlant(p))
		}
	}
	sortPlants(result)
	return result, nil
}

// ListByUtility retrieves a utility's plants in a session, ordered by ID ASC.
func (s *PlantStore) ListByUtility(_ context.Context, sessionID, utilityID string) ([]*domain.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Plant
	for _, p := range s.data {
		if p.GameSessionID == sessionID && p.UtilityID == utilityID {
			result = append(result, copyPlant(p))
		}
	}
	sortPlants(result)
	return result, nil
}

func sortPlants(plants []*domain.Plant) {
	sort.Slice(plants, func(i, j int) bool {
		return plants[i].ID < plants[j].ID
	})
}

// copyPlant deep-copies a plant including its maintenance year set.
func copyPlant(in *domain.Plant) *domain.Plant {
	out := *in
	out.MaintenanceYears = make(map[int]bool, len(in.MaintenanceYears))
	for year, v := range in.MaintenanceYears {
		out.MaintenanceYears[year] = v
	}
	return &out
}

// Verify interface compliance at compile time.
var _ storage.PlantStore = (*PlantStore)(nil)
