package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// AssetTimeseriesStore implements storage.AssetRecordStore using ClickHouse.
// Suited for long equity curves that Postgres row-at-a-time storage handles poorly.
type AssetTimeseriesStore struct {
	conn *Conn
}

// NewAssetTimeseriesStore creates a new AssetTimeseriesStore.
func NewAssetTimeseriesStore(conn *Conn) *AssetTimeseriesStore {
	return &AssetTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AssetRecordStore = (*AssetTimeseriesStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if (run_id, date) exists.
func (s *AssetTimeseriesStore) Insert(ctx context.Context, a *domain.AssetRecord) error {
	if a == nil || a.RunID == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.AssetRecord{a})
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *AssetTimeseriesStore) InsertBulk(ctx context.Context, records []*domain.AssetRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID string
		date  int64
	}
	seen := make(map[key]struct{}, len(records))
	for _, a := range records {
		if a == nil || a.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{a.RunID, a.Date.UTC().UnixNano()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness at insert time, so check
	// against existing rows explicitly.
	for _, a := range records {
		exists, err := s.exists(ctx, a.RunID, a.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO asset_timeseries (run_id, record_date, total_assets)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, a := range records {
		if err := batch.Append(a.RunID, a.Date.UTC(), a.TotalAssets); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
func (s *AssetTimeseriesStore) GetByRunID(ctx context.Context, runID string) ([]*domain.AssetRecord, error) {
	query := `
		SELECT run_id, record_date, total_assets
		FROM asset_timeseries
		WHERE run_id = ?
		ORDER BY record_date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanAssetTimeseries(rows)
}

// GetByDateRange retrieves snapshots for a run within [start, end] (inclusive).
func (s *AssetTimeseriesStore) GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.AssetRecord, error) {
	query := `
		SELECT run_id, record_date, total_assets
		FROM asset_timeseries
		WHERE run_id = ? AND record_date >= ? AND record_date <= ?
		ORDER BY record_date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanAssetTimeseries(rows)
}

// exists checks if a snapshot with the given key exists.
func (s *AssetTimeseriesStore) exists(ctx context.Context, runID string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM asset_timeseries
		WHERE run_id = ? AND record_date = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID, date.UTC()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanAssetTimeseries scans rows into a slice of AssetRecord.
func scanAssetTimeseries(rows driver.Rows) ([]*domain.AssetRecord, error) {
	var records []*domain.AssetRecord

	for rows.Next() {
		var a domain.AssetRecord
		if err := rows.Scan(&a.RunID, &a.Date, &a.TotalAssets); err != nil {
			return nil, fmt.Errorf("scan asset timeseries row: %w", err)
		}
		a.Date = a.Date.UTC()
		records = append(records, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset timeseries rows: %w", err)
	}

	return records, nil
}
