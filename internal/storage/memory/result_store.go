package memory

import (
	"context"
	"sort"
	"sync"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// resultKey identifies the single result allowed per (session, year, period).
type resultKey struct {
	sessionID string
	year      int
	period    domain.LoadPeriod
}

// ResultStore is an in-memory implementation of storage.ResultStore.
// Replace overwrites any prior result for (session, year, period).
type ResultStore struct {
	mu   sync.RWMutex
	data map[resultKey]*domain.MarketResult
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{data: make(map[resultKey]*domain.MarketResult)}
}

// Replace inserts or replaces the result for (session, year, period).
func (s *ResultStore) Replace(_ context.Context, r *domain.MarketResult) error {
	if r == nil || r.ID == "" || r.GameSessionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[resultKey{r.GameSessionID, r.Year, r.Period}] = copyResult(r)
	return nil
}

// GetByPeriod retrieves the result for (session, year, period).
// Returns ErrNotFound if not exists.
func (s *ResultStore) GetByPeriod(_ context.Context, sessionID string, year int, period domain.LoadPeriod) (*domain.MarketResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[resultKey{sessionID, year, period}]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyResult(r), nil
}

// ListBySession retrieves all results for a session, ordered by year ASC
// then period in canonical order.
func (s *ResultStore) ListBySession(_ context.Context, sessionID string) ([]*domain.MarketResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MarketResult
	for key, r := range s.data {
		if key.sessionID == sessionID {
			result = append(result, copyResult(r))
		}
	}
	sortResults(result)
	return result, nil
}

// ListByYear retrieves the results for (session, year) in canonical period order.
func (s *ResultStore) ListByYear(_ context.Context, sessionID string, year int) ([]*domain.MarketResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MarketResult
	for key, r := range s.data {
		if key.sessionID == sessionID && key.year == year {
			result = append(result, copyResult(r))
		}
	}
	sortResults(result)
	return result, nil
}

func sortResults(results []*domain.MarketResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Year != results[j].Year {
			return results[i].Year < results[j].Year
		}
		return periodRank(results[i].Period) < periodRank(results[j].Period)
	})
}

func periodRank(p domain.LoadPeriod) int {
	for i, candidate := range domain.AllPeriods {
		if candidate == p {
			return i
		}
	}
	return len(domain.AllPeriods)
}

// copyResult deep-copies a result including accepted offers and the
// marginal plant pointer.
func copyResult(in *domain.MarketResult) *domain.MarketResult {
	out := *in
	out.AcceptedOffers = make([]domain.AcceptedOffer, len(in.AcceptedOffers))
	copy(out.AcceptedOffers, in.AcceptedOffers)
	if in.MarginalPlantID != nil {
		id := *in.MarginalPlantID
		out.MarginalPlantID = &id
	}
	return &out
}

// Verify interface compliance at compile time.
var _ storage.ResultStore = (*ResultStore)(nil)
