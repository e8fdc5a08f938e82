package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// AssetRecordStore implements storage.AssetRecordStore using PostgreSQL.
type AssetRecordStore struct {
	pool *Pool
}

// NewAssetRecordStore creates a new AssetRecordStore.
func NewAssetRecordStore(pool *Pool) *AssetRecordStore {
	return &AssetRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AssetRecordStore = (*AssetRecordStore)(nil)

const insertAssetQuery = `
	INSERT INTO asset_records (run_id, record_date, total_assets)
	VALUES ($1, $2, $3)
`

// Insert adds a new snapshot. Returns ErrDuplicateKey if (run_id, date) exists.
func (s *AssetRecordStore) Insert(ctx context.Context, a *domain.AssetRecord) error {
	_, err := s.pool.Exec(ctx, insertAssetQuery, a.RunID, a.Date, a.TotalAssets)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert asset record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *AssetRecordStore) InsertBulk(ctx context.Context, records []*domain.AssetRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range records {
		_, err := tx.Exec(ctx, insertAssetQuery, a.RunID, a.Date, a.TotalAssets)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert asset record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
func (s *AssetRecordStore) GetByRunID(ctx context.Context, runID string) ([]*domain.AssetRecord, error) {
	query := `
		SELECT run_id, record_date, total_assets
		FROM asset_records
		WHERE run_id = $1
		ORDER BY record_date ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get asset records by run id: %w", err)
	}
	defer rows.Close()

	return scanAssetRecords(rows)
}

// GetByDateRange retrieves snapshots for a run within [start, end] (inclusive).
func (s *AssetRecordStore) GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.AssetRecord, error) {
	query := `
		SELECT run_id, record_date, total_assets
		FROM asset_records
		WHERE run_id = $1 AND record_date >= $2 AND record_date <= $3
		ORDER BY record_date ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get asset records by date range: %w", err)
	}
	defer rows.Close()

	return scanAssetRecords(rows)
}

// scanAssetRecords scans multiple rows into a slice of AssetRecord.
func scanAssetRecords(rows pgx.Rows) ([]*domain.AssetRecord, error) {
	var records []*domain.AssetRecord

	for rows.Next() {
		var a domain.AssetRecord
		if err := rows.Scan(&a.RunID, &a.Date, &a.TotalAssets); err != nil {
			return nil, fmt.Errorf("scan asset record row: %w", err)
		}
		a.Date = a.Date.UTC()
		records = append(records, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset record rows: %w", err)
	}

	return records, nil
}
