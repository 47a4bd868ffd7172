package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// BidStore implements storage.BidStore using PostgreSQL. The unique key on
// (session_id, plant_id, year) plus ON CONFLICT DO UPDATE gives the
// last-write-wins resubmission semantics.
type BidStore struct {
	pool *Pool
}

// NewBidStore creates a new BidStore.
func NewBidStore(pool *Pool) *BidStore {
	return &BidStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BidStore = (*BidStore)(nil)

const bidColumns = `
	bid_id, utility_id, session_id, plant_id, year,
	qty_off_peak, qty_shoulder, qty_peak,
	price_off_peak, price_shoulder, price_peak
`

// Upsert inserts or replaces the bid for (session, plant, year).
func (s *BidStore) Upsert(ctx context.Context, b *domain.YearlyBid) error {
	if b == nil || b.ID == "" || b.PlantID == "" || b.GameSessionID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO yearly_bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id, plant_id, year) DO UPDATE SET
			bid_id = EXCLUDED.bid_id,
			utility_id = EXCLUDED.utility_id,
			qty_off_peak = EXCLUDED.qty_off_peak,
			qty_shoulder = EXCLUDED.qty_shoulder,
			qty_peak = EXCLUDED.qty_peak,
			price_off_peak = EXCLUDED.price_off_peak,
			price_shoulder = EXCLUDED.price_shoulder,
			price_peak = EXCLUDED.price_peak
	`

	_, err := s.pool.Exec(ctx, query,
		b.ID, b.UtilityID, b.GameSessionID, b.PlantID, b.Year,
		b.Quantities.OffPeak, b.Quantities.Shoulder, b.Quantities.Peak,
		b.Prices.OffPeak, b.Prices.Shoulder, b.Prices.Peak,
	)
	if err != nil {
		return fmt.Errorf("upsert bid: %w", err)
	}
	return nil
}

// GetByPlantYear retrieves the bid for (session, plant, year).
// Returns ErrNotFound if not exists.
func (s *BidStore) GetByPlantYear(ctx context.Context, sessionID, plantID string, year int) (*domain.YearlyBid, error) {
	query := `
		SELECT ` + bidColumns + ` FROM yearly_bids
		WHERE session_id = $1 AND plant_id = $2 AND year = $3
	`

	b, err := scanBid(s.pool.QueryRow(ctx, query, sessionID, plantID, year))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get bid by plant year: %w", err)
	}
	return b, nil
}

// ListBySessionYear retrieves all bids for (session, year), ordered by plant ID ASC.
func (s *BidStore) ListBySessionYear(ctx context.Context, sessionID string, year int) ([]*domain.YearlyBid, error) {
	query := `
		SELECT ` + bidColumns + ` FROM yearly_bids
		WHERE session_id = $1 AND year = $2
		ORDER BY plant_id ASC
	`

	rows, err := s.pool.Query(ctx, query, sessionID, year)
	if err != nil {
		return nil, fmt.Errorf("list bids by session year: %w", err)
	}
	defer rows.Close()

	var bids []*domain.YearlyBid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid row: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func scanBid(row pgx.Row) (*domain.YearlyBid, error) {
	var b domain.YearlyBid
	err := row.Scan(
		&b.ID, &b.UtilityID, &b.GameSessionID, &b.PlantID, &b.Year,
		&b.Quantities.OffPeak, &b.Quantities.Shoulder, &b.Quantities.Peak,
		&b.Prices.OffPeak, &b.Prices.Shoulder, &b.Prices.Peak,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
