package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// UtilityStore implements storage.UtilityStore using PostgreSQL.
type UtilityStore struct {
	pool *Pool
}

// NewUtilityStore creates a new UtilityStore.
func NewUtilityStore(pool *Pool) *UtilityStore {
	return &UtilityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UtilityStore = (*UtilityStore)(nil)

// Insert adds a new utility. Returns ErrDuplicateKey if the ID exists.
func (s *UtilityStore) Insert(ctx context.Context, u *domain.Utility) error {
	if u == nil || u.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO utilities (utility_id, username, user_type, budget, debt, equity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		u.ID, u.Username, string(u.Type), u.Budget, u.Debt, u.Equity)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert utility: %w", err)
	}
	return nil
}

// GetByID retrieves a utility. Returns ErrNotFound if not exists.
func (s *UtilityStore) GetByID(ctx context.Context, utilityID string) (*domain.Utility, error) {
	query := `
		SELECT utility_id, username, user_type, budget, debt, equity
		FROM utilities
		WHERE utility_id = $1
	`

	u, err := scanUtility(s.pool.QueryRow(ctx, query, utilityID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get utility by id: %w", err)
	}
	return u, nil
}

// Update overwrites an existing utility. Returns ErrNotFound if not exists.
func (s *UtilityStore) Update(ctx context.Context, u *domain.Utility) error {
	if u == nil || u.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE utilities
		SET username = $2, user_type = $3, budget = $4, debt = $5, equity = $6
		WHERE utility_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		u.ID, u.Username, string(u.Type), u.Budget, u.Debt, u.Equity)
	if err != nil {
		return fmt.Errorf("update utility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List retrieves all utilities, ordered by username ASC.
func (s *UtilityStore) List(ctx context.Context) ([]*domain.Utility, error) {
	query := `
		SELECT utility_id, username, user_type, budget, debt, equity
		FROM utilities
		ORDER BY username ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list utilities: %w", err)
	}
	defer rows.Close()

	var utilities []*domain.Utility
	for rows.Next() {
		u, err := scanUtility(rows)
		if err != nil {
			return nil, fmt.Errorf("scan utility row: %w", err)
		}
		utilities = append(utilities, u)
	}
	return utilities, rows.Err()
}

func scanUtility(row pgx.Row) (*domain.Utility, error) {
	var u domain.Utility
	var userType string
	if err := row.Scan(&u.ID, &u.Username, &userType, &u.Budget, &u.Debt, &u.Equity); err != nil {
		return nil, err
	}
	u.Type = domain.UserType(userType)
	return &u, nil
}
