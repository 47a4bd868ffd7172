// Package storage defines the repository interfaces the market engine
// persists through, plus the sentinel errors every backend maps onto.
package storage

import (
	"context"

	"capacity-market-sim/internal/domain"
)

// SessionStore provides access to game session storage.
type SessionStore interface {
	// Insert adds a new session. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, s *domain.GameSession) error

	// GetByID retrieves a session. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, sessionID string) (*domain.GameSession, error)

	// Update overwrites an existing session. Returns ErrNotFound if not exists.
	Update(ctx context.Context, s *domain.GameSession) error
}

// UtilityStore provides access to utility (financial actor) storage.
type UtilityStore interface {
	// Insert adds a new utility. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, u *domain.Utility) error

	// GetByID retrieves a utility. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, utilityID string) (*domain.Utility, error)

	// Update overwrites an existing utility. Returns ErrNotFound if not exists.
	Update(ctx context.Context, u *domain.Utility) error

	// List retrieves all utilities, ordered by username ASC.
	List(ctx context.Context) ([]*domain.Utility, error)
}

// PlantStore provides access to power plant storage.
type PlantStore interface {
	// Insert adds a new plant. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, p *domain.Plant) error

	// GetByID retrieves a plant. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, plantID string) (*domain.Plant, error)

	// Update overwrites an existing plant. Returns ErrNotFound if not exists.
	Update(ctx context.Context, p *domain.Plant) error

	// ListBySession retrieves all plants in a session, ordered by ID ASC.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Plant, error)

	// ListByUtility retrieves a utility's plants in a session, ordered by ID ASC.
	ListByUtility(ctx context.Context, sessionID, utilityID string) ([]*domain.Plant, error)
}

// BidStore provides access to yearly bid storage. Bids are last-write-wins
// per (session, plant, year): Upsert replaces any prior bid for the key.
type BidStore interface {
	// Upsert inserts or replaces the bid for (session, plant, year).
	Upsert(ctx context.Context, b *domain.YearlyBid) error

	// GetByPlantYear retrieves the bid for (session, plant, year).
	// Returns ErrNotFound if not exists.
	GetByPlantYear(ctx context.Context, sessionID, plantID string, year int) (*domain.YearlyBid, error)

	// ListBySessionYear retrieves all bids for (session, year), ordered by plant ID ASC.
	ListBySessionYear(ctx context.Context, sessionID string, year int) ([]*domain.YearlyBid, error)
}

// ResultStore provides access to market result storage. Results are
// replace-on-reclear per (session, year, period).
type ResultStore interface {
	// Replace inserts or replaces the result for (session, year, period).
	Replace(ctx context.Context, r *domain.MarketResult) error

	// GetByPeriod retrieves the result for (session, year, period).
	// Returns ErrNotFound if not exists.
	GetByPeriod(ctx context.Context, sessionID string, year int, period domain.LoadPeriod) (*domain.MarketResult, error)

	// ListBySession retrieves all results for a session, ordered by
	// year ASC then period in canonical order.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.MarketResult, error)

	// ListByYear retrieves the results for (session, year) in canonical
	// period order.
	ListByYear(ctx context.Context, sessionID string, year int) ([]*domain.MarketResult, error)
}

// ClearingHistoryStore records every clearing run append-only for analytics.
// Re-clears add rows instead of replacing them.
type ClearingHistoryStore interface {
	// Insert appends a clearing record.
	Insert(ctx context.Context, rec *domain.ClearingRecord) error

	// PriceSeries retrieves the records for (session, period), ordered by
	// year ASC then insertion time ASC.
	PriceSeries(ctx context.Context, sessionID string, period domain.LoadPeriod) ([]*domain.ClearingRecord, error)

	// ListBySession retrieves all records for a session, ordered by year
	// ASC, period, then insertion time ASC.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.ClearingRecord, error)
}
