package domain

// RunStats summarizes one backtest run: trade counts, round-trip outcomes,
// and equity-curve metrics. Closure-derived fields (Wins, Losses, WinRate,
// PnL totals) are zero when stats are rebuilt from storage alone, since
// close events are not persisted.
type RunStats struct {
	RunID      string
	Symbol     string
	StrategyID string

	// Counts
	TotalTrades int
	BuyTrades   int
	SellTrades  int
	RoundTrips  int
	Wins        int
	Losses      int
	WinRate     float64

	// Round-trip P&L
	PnLGrossTotal   float64
	PnLNetTotal     float64
	CommissionTotal float64

	// Equity curve
	InitialCash float64
	FinalAssets float64
	TotalReturn float64 // (final - initial) / initial
	PeakAssets  float64
	MaxDrawdown float64 // worst peak-to-trough decline as a fraction of the peak
}
