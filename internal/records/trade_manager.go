package records

import (
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/idhash"
)

// TradeRecordManager accumulates executed-fill records in insertion
// order. Records are immutable once appended. A manager belongs to a
// single backtest run and is driven by one logical thread of control,
// so no locking is needed.
type TradeRecordManager struct {
	runID   string
	records []domain.TradeRecord
}

// NewTradeRecordManager creates an empty manager for a run.
func NewTradeRecordManager(runID string) *TradeRecordManager {
	return &TradeRecordManager{runID: runID}
}

// Record validates the date and appends a new immutable trade record.
// date must be a time.Time or a parseable date string; anything else
// returns ErrInvalidDate.
func (m *TradeRecordManager) Record(date any, action domain.Action, signalType string, shares int64) error {
	ts, err := NormalizeDate(date)
	if err != nil {
		return err
	}

	seq := len(m.records)
	m.records = append(m.records, domain.TradeRecord{
		TradeID:    idhash.ComputeTradeID(m.runID, seq, ts, string(action), shares),
		RunID:      m.runID,
		Date:       ts,
		Action:     action,
		SignalType: signalType,
		Shares:     shares,
	})
	return nil
}

// Len returns the number of accumulated records.
func (m *TradeRecordManager) Len() int {
	return len(m.records)
}

// Export returns a tabular snapshot of the records in insertion order.
// The returned slice is a copy; downstream consumers (CSV writers,
// charting) cannot mutate the log.
func (m *TradeRecordManager) Export() []domain.TradeRecord {
	out := make([]domain.TradeRecord, len(m.records))
	copy(out, m.records)
	return out
}
