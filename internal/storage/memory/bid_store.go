package memory

import (
	"context"
	"sort"
	"sync"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// bidKey identifies the single bid allowed per (session, plant, year).
type bidKey struct {
	sessionID string
	plantID   string
	year      int
}

// BidStore is an in-memory implementation of storage.BidStore.
// Upsert is last-write-wins per (session, plant, year).
type BidStore struct {
	mu   sync.RWMutex
	data map[bidKey]*domain.YearlyBid
}

// NewBidStore creates a new in-memory bid store.
func NewBidStore() *BidStore {
	return &BidStore{data: make(map[bidKey]*domain.YearlyBid)}
}

// Upsert inserts or replaces the bid for (session, plant, year).
func (s *BidStore) Upsert(_ context.Context, b *domain.YearlyBid) error {
	if b == nil || b.ID == "" || b.PlantID == "" || b.GameSessionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bidCopy := *b
	s.data[bidKey{b.GameSessionID, b.PlantID, b.Year}] = &bidCopy
	return nil
}

// GetByPlantYear retrieves the bid for (session, plant, year).
// Returns ErrNotFound if not exists.
func (s *BidStore) GetByPlantYear(_ context.Context, sessionID, plantID string, year int) (*domain.YearlyBid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.data[bidKey{sessionID, plantID, year}]
	if !exists {
		return nil, storage.ErrNotFound
	}
	bidCopy := *b
	return &bidCopy, nil
}

// ListBySessionYear retrieves all bids for (session, year), ordered by plant ID ASC.
func (s *BidStore) ListBySessionYear(_ context.Context, sessionID string, year int) ([]*domain.YearlyBid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.YearlyBid
	for key, b := range s.data {
		if key.sessionID == sessionID && key.year == year {
			bidCopy := *b
			result = append(result, &bidCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PlantID < result[j].PlantID
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.BidStore = (*BidStore)(nil)
