package memory

import (
	"context"
	"sync"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.GameSession // keyed by session ID
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]*domain.GameSession)}
}

// Insert adds a new session. Returns ErrDuplicateKey if the ID exists.
func (s *SessionStore) Insert(_ context.Context, sess *domain.GameSession) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sess.ID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[sess.ID] = copySession(sess)
	return nil
}

// GetByID retrieves a session. Returns ErrNotFound if not exists.
func (s *SessionStore) GetByID(_ context.Context, sessionID string) (*domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.data[sessionID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copySession(sess), nil
}

// Update overwrites an existing session. Returns ErrNotFound if not exists.
func (s *SessionStore) Update(_ context.Context, sess *domain.GameSession) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sess.ID]; !exists {
		return storage.ErrNotFound
	}
	s.data[sess.ID] = copySession(sess)
	return nil
}

// copySession deep-copies a session so callers cannot mutate stored state
// through the fuel schedule map.
func copySession(in *domain.GameSession) *domain.GameSession {
	out := *in
	out.FuelPrices = make(domain.FuelSchedule, len(in.FuelPrices))
	for year, prices := range in.FuelPrices {
		yearCopy := make(map[domain.FuelType]float64, len(prices))
		for fuelType, price := range prices {
			yearCopy[fuelType] = price
		}
		out.FuelPrices[year] = yearCopy
	}
	return &out
}

// Verify interface compliance at compile time.
var _ storage.SessionStore = (*SessionStore)(nil)
