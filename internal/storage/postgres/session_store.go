package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// SessionStore implements storage.SessionStore using PostgreSQL.
// The fuel schedule travels as a JSONB column.
type SessionStore struct {
	pool *Pool
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SessionStore = (*SessionStore)(nil)

const sessionColumns = `
	session_id, name, operator_id, start_year, end_year, current_year, state,
	carbon_price_per_ton, discount_rate, inflation_rate,
	base_year, base_demand_off_peak, base_demand_shoulder, base_demand_peak,
	demand_growth_rate, hours_off_peak, hours_shoulder, hours_peak, fuel_prices
`

// Insert adds a new session. Returns ErrDuplicateKey if the ID exists.
func (s *SessionStore) Insert(ctx context.Context, sess *domain.GameSession) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}

	fuelPrices, err := json.Marshal(sess.FuelPrices)
	if err != nil {
		return fmt.Errorf("marshal fuel schedule: %w", err)
	}

	query := `
		INSERT INTO game_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = s.pool.Exec(ctx, query,
		sess.ID, sess.Name, sess.OperatorID,
		sess.StartYear, sess.EndYear, sess.CurrentYear, string(sess.State),
		sess.CarbonPricePerTon, sess.DiscountRate, sess.InflationRate,
		sess.DemandProfile.BaseYear,
		sess.DemandProfile.BaseDemand.OffPeak,
		sess.DemandProfile.BaseDemand.Shoulder,
		sess.DemandProfile.BaseDemand.Peak,
		sess.DemandProfile.GrowthRate,
		sess.DemandProfile.Hours.OffPeak,
		sess.DemandProfile.Hours.Shoulder,
		sess.DemandProfile.Hours.Peak,
		fuelPrices,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID retrieves a session. Returns ErrNotFound if not exists.
func (s *SessionStore) GetByID(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE session_id = $1`

	var sess domain.GameSession
	var state string
	var fuelPrices []byte

	err := s.pool.QueryRow(ctx, query, sessionID).Scan(
		&sess.ID, &sess.Name, &sess.OperatorID,
		&sess.StartYear, &sess.EndYear, &sess.CurrentYear, &state,
		&sess.CarbonPricePerTon, &sess.DiscountRate, &sess.InflationRate,
		&sess.DemandProfile.BaseYear,
		&sess.DemandProfile.BaseDemand.OffPeak,
		&sess.DemandProfile.BaseDemand.Shoulder,
		&sess.DemandProfile.BaseDemand.Peak,
		&sess.DemandProfile.GrowthRate,
		&sess.DemandProfile.Hours.OffPeak,
		&sess.DemandProfile.Hours.Shoulder,
		&sess.DemandProfile.Hours.Peak,
		&fuelPrices,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	sess.State = domain.GameState(state)
	if err := json.Unmarshal(fuelPrices, &sess.FuelPrices); err != nil {
		return nil, fmt.Errorf("unmarshal fuel schedule: %w", err)
	}
	return &sess, nil
}

// Update overwrites an existing session. Returns ErrNotFound if not exists.
func (s *SessionStore) Update(ctx context.Context, sess *domain.GameSession) error {
	if sess == nil || sess.ID == "" {
		return storage.ErrInvalidInput
	}

	fuelPrices, err := json.Marshal(sess.FuelPrices)
	if err != nil {
		return fmt.Errorf("marshal fuel schedule: %w", err)
	}

	query := `
		UPDATE game_sessions SET
			name = $2, operator_id = $3, start_year = $4, end_year = $5,
			current_year = $6, state = $7, carbon_price_per_ton = $8,
			discount_rate = $9, inflation_rate = $10, base_year = $11,
			base_demand_off_peak = $12, base_demand_shoulder = $13, base_demand_peak = $14,
			demand_growth_rate = $15, hours_off_peak = $16, hours_shoulder = $17,
			hours_peak = $18, fuel_prices = $19
		WHERE session_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		sess.ID, sess.Name, sess.OperatorID,
		sess.StartYear, sess.EndYear, sess.CurrentYear, string(sess.State),
		sess.CarbonPricePerTon, sess.DiscountRate, sess.InflationRate,
		sess.DemandProfile.BaseYear,
		sess.DemandProfile.BaseDemand.OffPeak,
		sess.DemandProfile.BaseDemand.Shoulder,
		sess.DemandProfile.BaseDemand.Peak,
		sess.DemandProfile.GrowthRate,
		sess.DemandProfile.Hours.OffPeak,
		sess.DemandProfile.Hours.Shoulder,
		sess.DemandProfile.Hours.Peak,
		fuelPrices,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
