package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const insertTradeQuery = `
	INSERT INTO trade_records (
		trade_id, run_id, trade_date, action, signal_type, shares
	) VALUES ($1, $2, $3, $4, $5, $6)
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.RunID, t.Date, string(t.Action), t.SignalType, t.Shares,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.RunID, t.Date, string(t.Action), t.SignalType, t.Shares,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	query := `
		SELECT trade_id, run_id, trade_date, action, signal_type, shares
		FROM trade_records
		WHERE trade_id = $1
	`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTradeRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record by id: %w", err)
	}
	return t, nil
}

// GetByRunID retrieves all trades for a run, ordered by date ASC.
func (s *TradeRecordStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT trade_id, run_id, trade_date, action, signal_type, shares
		FROM trade_records
		WHERE run_id = $1
		ORDER BY trade_date ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get trade records by run id: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// GetByDateRange retrieves trades for a run within [start, end] (inclusive).
func (s *TradeRecordStore) GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.TradeRecord, error) {
	query := `
		SELECT trade_id, run_id, trade_date, action, signal_type, shares
		FROM trade_records
		WHERE run_id = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trade records by date range: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// scanTradeRecord scans a single row into a TradeRecord.
func scanTradeRecord(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var action string

	err := row.Scan(&t.TradeID, &t.RunID, &t.Date, &action, &t.SignalType, &t.Shares)
	if err != nil {
		return nil, err
	}

	t.Action = domain.Action(action)
	t.Date = t.Date.UTC()
	return &t, nil
}

// scanTradeRecords scans multiple rows into a slice of TradeRecord.
func scanTradeRecords(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		t, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
