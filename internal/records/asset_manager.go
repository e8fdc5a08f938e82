package records

import "github.com/wearetvxq/stock-quant/internal/domain"

// AssetRecordManager accumulates total-asset valuation snapshots, one
// per valuation tick. Same append-only, single-writer contract as
// TradeRecordManager.
type AssetRecordManager struct {
	runID   string
	records []domain.AssetRecord
}

// NewAssetRecordManager creates an empty manager for a run.
func NewAssetRecordManager(runID string) *AssetRecordManager {
	return &AssetRecordManager{runID: runID}
}

// Record validates the date and appends one snapshot. date must be a
// time.Time or a parseable date string; anything else returns
// ErrInvalidDate.
func (m *AssetRecordManager) Record(date any, totalAssets float64) error {
	ts, err := NormalizeDate(date)
	if err != nil {
		return err
	}

	m.records = append(m.records, domain.AssetRecord{
		RunID:       m.runID,
		Date:        ts,
		TotalAssets: totalAssets,
	})
	return nil
}

// Len returns the number of accumulated snapshots.
func (m *AssetRecordManager) Len() int {
	return len(m.records)
}

// Export returns a copy of the snapshots in insertion order.
func (m *AssetRecordManager) Export() []domain.AssetRecord {
	out := make([]domain.AssetRecord, len(m.records))
	copy(out, m.records)
	return out
}
