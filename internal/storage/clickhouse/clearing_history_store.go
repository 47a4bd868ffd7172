package clickhouse

import (
	"context"
	"fmt"
	"time"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/storage"
)

// ClearingHistoryStore implements storage.ClearingHistoryStore using
// ClickHouse. MergeTree enforces no uniqueness: every Insert lands a row,
// which is exactly the append-only contract.
type ClearingHistoryStore struct {
	conn *Conn
}

// NewClearingHistoryStore creates a new ClearingHistoryStore.
func NewClearingHistoryStore(conn *Conn) *ClearingHistoryStore {
	return &ClearingHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ClearingHistoryStore = (*ClearingHistoryStore)(nil)

// Insert appends a clearing record.
func (s *ClearingHistoryStore) Insert(ctx context.Context, rec *domain.ClearingRecord) error {
	if rec == nil || rec.GameSessionID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO clearing_history (
			session_id, year, period, demand_mw, cleared_mw, clearing_price,
			offers_total, offers_cleared, shortfall, cleared_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.GameSessionID, int32(rec.Year), string(rec.Period),
		rec.DemandMW, rec.ClearedMW, rec.ClearingPrice,
		uint32(rec.OffersTotal), uint32(rec.OffersCleared),
		boolToUInt8(rec.Shortfall), rec.ClearedAt,
	)
	if err != nil {
		return fmt.Errorf("insert clearing record: %w", err)
	}
	return nil
}

// PriceSeries retrieves the records for (session, period), ordered by year
// ASC then insertion time ASC.
func (s *ClearingHistoryStore) PriceSeries(ctx context.Context, sessionID string, period domain.LoadPeriod) ([]*domain.ClearingRecord, error) {
	query := `
		SELECT session_id, year, period, demand_mw, cleared_mw, clearing_price,
		       offers_total, offers_cleared, shortfall, cleared_at
		FROM clearing_history
		WHERE session_id = ? AND period = ?
		ORDER BY year ASC, cleared_at ASC
	`

	rows, err := s.conn.Query(ctx, query, sessionID, string(period))
	if err != nil {
		return nil, fmt.Errorf("query price series: %w", err)
	}
	defer rows.Close()

	return scanClearingRecords(rows)
}

// ListBySession retrieves all records for a session, ordered by year ASC,
// period, then insertion time ASC.
func (s *ClearingHistoryStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.ClearingRecord, error) {
	query := `
		SELECT session_id, year, period, demand_mw, cleared_mw, clearing_price,
		       offers_total, offers_cleared, shortfall, cleared_at
		FROM clearing_history
		WHERE session_id = ?
		ORDER BY year ASC,
		         multiIf(period = 'off_peak', 0, period = 'shoulder', 1, 2) ASC,
		         cleared_at ASC
	`

	rows, err := s.conn.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query clearing history: %w", err)
	}
	defer rows.Close()

	return scanClearingRecords(rows)
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanClearingRecords(rows chRows) ([]*domain.ClearingRecord, error) {
	var records []*domain.ClearingRecord

	for rows.Next() {
		var rec domain.ClearingRecord
		var year int32
		var period string
		var offersTotal, offersCleared uint32
		var shortfall uint8
		var clearedAt time.Time

		err := rows.Scan(
			&rec.GameSessionID, &year, &period,
			&rec.DemandMW, &rec.ClearedMW, &rec.ClearingPrice,
			&offersTotal, &offersCleared, &shortfall, &clearedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan clearing record row: %w", err)
		}

		rec.Year = int(year)
		rec.Period = domain.LoadPeriod(period)
		rec.OffersTotal = int(offersTotal)
		rec.OffersCleared = int(offersCleared)
		rec.Shortfall = shortfall != 0
		rec.ClearedAt = clearedAt

		records = append(records, &rec)
	}

	return records, rows.Err()
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
