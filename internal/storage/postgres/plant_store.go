package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// PlantStore implements storage.PlantStore using PostgreSQL.
// Heat rate and fuel type are nullable columns mirroring the domain
// pointers; the maintenance year set is a JSONB column.
type PlantStore struct {
	pool *Pool
}

// NewPlantStore creates a new PlantStore.
func NewPlantStore(pool *Pool) *PlantStore {
	return &PlantStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlantStore = (*PlantStore)(nil)

const plantColumns = `
	plant_id, utility_id, session_id, name, technology, capacity_mw,
	construction_start_year, commissioning_year, retirement_year,
	capital_cost_total, fixed_om_annual, variable_om_per_mwh,
	capacity_factor, heat_rate, fuel_type, min_generation_mw, maintenance_years
`

// Insert adds a new plant. Returns ErrDuplicateKey if the ID exists.
func (s *PlantStore) Insert(ctx context.Context, p *domain.Plant) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	maintenance, err := json.Marshal(p.MaintenanceYears)
	if err != nil {
		return fmt.Errorf("marshal maintenance years: %w", err)
	}

	query := `
		INSERT INTO plants (` + plantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = s.pool.Exec(ctx, query,
		p.ID, p.UtilityID, p.GameSessionID, p.Name, string(p.Technology), p.CapacityMW,
		p.ConstructionStartYear, p.CommissioningYear, p.RetirementYear,
		p.CapitalCostTotal, p.FixedOMAnnual, p.VariableOMPerMWh,
		p.CapacityFactor, p.HeatRate, fuelTypeArg(p.FuelType), p.MinGenerationMW, maintenance,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert plant: %w", err)
	}
	return nil
}

// GetByID retrieves a plant. Returns ErrNotFound if not exists.
func (s *PlantStore) GetByID(ctx context.Context, plantID string) (*domain.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE plant_id = $1`

	p, err := scanPlant(s.pool.QueryRow(ctx, query, plantID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get plant by id: %w", err)
	}
	return p, nil
}

// Update overwrites an existing plant. Returns ErrNotFound if not exists.
func (s *PlantStore) Update(ctx context.Context, p *domain.Plant) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	maintenance, err := json.Marshal(p.MaintenanceYears)
	if err != nil {
		return fmt.Errorf("marshal maintenance years: %w", err)
	}

	query := `
		UPDATE plants SET
			utility_id = $2, session_id = $3, name = $4, technology = $5,
			capacity_mw = $6, construction_start_year = $7, commissioning_year = $8,
			retirement_year = $9, capital_cost_total = $10, fixed_om_annual = $11,
			variable_om_per_mwh = $12, capacity_factor = $13, heat_rate = $14,
			fuel_type = $15, min_generation_mw = $16, maintenance_years = $17
		WHERE plant_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.UtilityID, p.GameSessionID, p.Name, string(p.Technology), p.CapacityMW,
		p.ConstructionStartYear, p.CommissioningYear, p.RetirementYear,
		p.CapitalCostTotal, p.FixedOMAnnual, p.VariableOMPerMWh,
		p.CapacityFactor, p.HeatRate, fuelTypeArg(p.FuelType), p.MinGenerationMW, maintenance,
	)
	if err != nil {
		return fmt.Errorf("update plant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListBySession retrieves all plants in a session, ordered by ID ASC.
func (s *PlantStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE session_id = $1 ORDER BY plant_id ASC`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list plants by session: %w", err)
	}
	defer rows.Close()

	return scanPlants(rows)
}

// ListByUtility retrieves a utility's plants in a session, ordered by ID ASC.
func (s *PlantStore) ListByUtility(ctx context.Context, sessionID, utilityID string) ([]*domain.Plant, error) {
	query := `
		SELECT ` + plantColumns + ` FROM plants
		WHERE session_id = $1 AND utility_id = $2
		ORDER BY plant_id ASC
	`

	rows, err := s.pool.Query(ctx, query, sessionID, utilityID)
	if err != nil {
		return nil, fmt.Errorf("list plants by utility: %w", err)
	}
	defer rows.Close()

	return scanPlants(rows)
}

func scanPlant(row pgx.Row) (*domain.Plant, error) {
	var p domain.Plant
	var technology string
	var fuelType *string
	var maintenance []byte

	err := row.Scan(
		&p.ID, &p.UtilityID, &p.GameSessionID, &p.Name, &technology, &p.CapacityMW,
		&p.ConstructionStartYear, &p.CommissioningYear, &p.RetirementYear,
		&p.CapitalCostTotal, &p.FixedOMAnnual, &p.VariableOMPerMWh,
		&p.CapacityFactor, &p.HeatRate, &fuelType, &p.MinGenerationMW, &maintenance,
	)
	if err != nil {
		return nil, err
	}

	p.Technology = domain.Technology(technology)
	if fuelType != nil {
		ft := domain.FuelType(*fuelType)
		p.FuelType = &ft
	}
	if err := json.Unmarshal(maintenance, &p.MaintenanceYears); err != nil {
		return nil, fmt.Errorf("unmarshal maintenance years: %w", err)
	}
	if p.MaintenanceYears == nil {
		p.MaintenanceYears = map[int]bool{}
	}
	return &p, nil
}

func scanPlants(rows pgx.Rows) ([]*domain.Plant, error) {
	var plants []*domain.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plant row: %w", err)
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func fuelTypeArg(ft *domain.FuelType) *string {
	if ft == nil {
		return nil
	}
	s := string(*ft)
	return &s
}
