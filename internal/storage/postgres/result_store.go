package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// ResultStore implements storage.ResultStore using PostgreSQL. The unique
// key on (session_id, year, period) plus ON CONFLICT DO UPDATE makes
// re-clearing replace the prior row. Accepted offers are a JSONB column
// since they are only ever read back whole, in acceptance order.
type ResultStore struct {
	pool *Pool
}

// NewResultStore creates a new ResultStore.
func NewResultStore(pool *Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

const resultColumns = `
	result_id, session_id, year, period,
	clearing_price, cleared_mw, total_energy_mwh,
	accepted_offers, marginal_plant_id, supply_shortfall
`

// periodOrder yields the canonical off_peak < shoulder < peak ordering in SQL.
const periodOrder = `
	CASE period WHEN 'off_peak' THEN 0 WHEN 'shoulder' THEN 1 ELSE 2 END
`

// Replace inserts or replaces the result for (session, year, period).
func (s *ResultStore) Replace(ctx context.Context, r *domain.MarketResult) error {
	if r == nil || r.ID == "" || r.GameSessionID == "" {
		return storage.ErrInvalidInput
	}

	offers, err := json.Marshal(r.AcceptedOffers)
	if err != nil {
		return fmt.Errorf("marshal accepted offers: %w", err)
	}

	query := `
		INSERT INTO market_results (` + resultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id, year, period) DO UPDATE SET
			result_id = EXCLUDED.result_id,
			clearing_price = EXCLUDED.clearing_price,
			cleared_mw = EXCLUDED.cleared_mw,
			total_energy_mwh = EXCLUDED.total_energy_mwh,
			accepted_offers = EXCLUDED.accepted_offers,
			marginal_plant_id = EXCLUDED.marginal_plant_id,
			supply_shortfall = EXCLUDED.supply_shortfall
	`

	_, err = s.pool.Exec(ctx, query,
		r.ID, r.GameSessionID, r.Year, string(r.Period),
		r.ClearingPrice, r.ClearedMW, r.TotalEnergyMWh,
		offers, r.MarginalPlantID, r.SupplyShortfall,
	)
	if err != nil {
		return fmt.Errorf("replace result: %w", err)
	}
	return nil
}

// GetByPeriod retrieves the result for (session, year, period).
// Returns ErrNotFound if not exists.
func (s *ResultStore) GetByPeriod(ctx context.Context, sessionID string, year int, period domain.LoadPeriod) (*domain.MarketResult, error) {
	query := `
		SELECT ` + resultColumns + ` FROM market_results
		WHERE session_id = $1 AND year = $2 AND period = $3
	`

	r, err := scanResult(s.pool.QueryRow(ctx, query, sessionID, year, string(period)))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get result by period: %w", err)
	}
	return r, nil
}

// ListBySession retrieves all results for a session, ordered by year ASC
// then period in canonical order.
func (s *ResultStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.MarketResult, error) {
	query := `
		SELECT ` + resultColumns + ` FROM market_results
		WHERE session_id = $1
		ORDER BY year ASC, ` + periodOrder

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list results by session: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// ListByYear retrieves the results for (session, year) in canonical period order.
func (s *ResultStore) ListByYear(ctx context.Context, sessionID string, year int) ([]*domain.MarketResult, error) {
	query := `
		SELECT ` + resultColumns + ` FROM market_results
		WHERE session_id = $1 AND year = $2
		ORDER BY ` + periodOrder

	rows, err := s.pool.Query(ctx, query, sessionID, year)
	if err != nil {
		return nil, fmt.Errorf("list results by year: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResult(row pgx.Row) (*domain.MarketResult, error) {
	var r domain.MarketResult
	var period string
	var offers []byte

	err := row.Scan(
		&r.ID, &r.GameSessionID, &r.Year, &period,
		&r.ClearingPrice, &r.ClearedMW, &r.TotalEnergyMWh,
		&offers, &r.MarginalPlantID, &r.SupplyShortfall,
	)
	if err != nil {
		return nil, err
	}

	r.Period = domain.LoadPeriod(period)
	if err := json.Unmarshal(offers, &r.AcceptedOffers); err != nil {
		return nil, fmt.Errorf("unmarshal accepted offers: %w", err)
	}
	return &r, nil
}

func scanResults(rows pgx.Rows) ([]*domain.MarketResult, error) {
	var results []*domain.MarketResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
