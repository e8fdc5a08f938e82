package domain

import "time"

// BacktestRun describes one completed backtest: the instrument, the
// market whose fee schedule applied, and the starting/ending equity.
type BacktestRun struct {
	RunID       string
	Symbol      string
	Market      Market
	StrategyID  string
	StartedAt   time.Time
	InitialCash float64
	FinalAssets float64
}
