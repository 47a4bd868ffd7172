package memory

import (
	"context"
	"sort"
	"sync"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// UtilityStore is an in-memory implementation of storage.UtilityStore.
type UtilityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Utility // keyed by utility ID
}

// NewUtilityStore creates a new in-memory utility store.
func NewUtilityStore() *UtilityStore {
	return &UtilityStore{data: make(map[string]*domain.Utility)}
}

// Insert adds a new utility. Returns ErrDuplicateKey if the ID exists.
func (s *UtilityStore) Insert(_ context.Context, u *domain.Utility) error {
	if u == nil || u.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[u.ID]; exists {
		return storage.ErrDuplicateKey
	}
	utilityCopy := *u
	s.data[u.ID] = &utilityCopy
	return nil
}

// GetByID retrieves a utility. Returns ErrNotFound if not exists.
func (s *UtilityStore) GetByID(_ context.Context, utilityID string) (*domain.Utility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.data[utilityID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	utilityCopy := *u
	return &utilityCopy, nil
}

// Update overwrites an existing utility. Returns ErrNotFound if not exists.
func (s *UtilityStore) Update(_ context.Context, u *domain.Utility) error {
	if u == nil || u.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[u.ID]; !exists {
		return storage.ErrNotFound
	}
	utilityCopy := *u
	s.data[u.ID] = &utilityCopy
	return nil
}

// List retrieves all utilities, ordered by username ASC.
func (s *UtilityStore) List(_ context.Context) ([]*domain.Utility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Utility, 0, len(s.data))
	for _, u := range s.data {
		utilityCopy := *u
		result = append(result, &utilityCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.UtilityStore = (*UtilityStore)(nil)
