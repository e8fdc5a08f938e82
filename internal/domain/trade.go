package domain

import "time"

// TradeRecord is one executed fill. Records are immutable once created
// and accumulate in insertion order for the duration of a backtest run.
type TradeRecord struct {
	TradeID    string // deterministic hash, see internal/idhash
	RunID      string // owning backtest run
	Date       time.Time
	Action     Action
	SignalType string // strategy-assigned reason code for the fill
	Shares     int64  // always > 0; direction carried by Action
}

// AssetRecord is one total-asset valuation snapshot, typically taken
// once per trading period. Immutable once created.
type AssetRecord struct {
	RunID       string
	Date        time.Time
	TotalAssets float64
}
