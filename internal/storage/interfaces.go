package storage

import (
	"context"
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// BacktestRunStore provides access to backtest_runs storage.
type BacktestRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.BacktestRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error)

	// GetBySymbol retrieves all runs for a symbol, ordered by started_at ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.BacktestRun, error)

	// GetByStrategy retrieves all runs for a strategy, ordered by started_at ASC.
	GetByStrategy(ctx context.Context, strategyID string) ([]*domain.BacktestRun, error)
}

// TradeRecordStore provides access to trade_records storage.
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByRunID retrieves all trades for a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TradeRecord, error)

	// GetByDateRange retrieves trades for a run within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.TradeRecord, error)
}

// AssetRecordStore provides access to asset_records storage.
type AssetRecordStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if (run_id, date) exists.
	Insert(ctx context.Context, a *domain.AssetRecord) error

	// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.AssetRecord) error

	// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.AssetRecord, error)

	// GetByDateRange retrieves snapshots for a run within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.AssetRecord, error)
}
