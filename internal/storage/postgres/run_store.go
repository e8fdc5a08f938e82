package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// BacktestRunStore implements storage.BacktestRunStore using PostgreSQL.
type BacktestRunStore struct {
	pool *Pool
}

// NewBacktestRunStore creates a new BacktestRunStore.
func NewBacktestRunStore(pool *Pool) *BacktestRunStore {
	return &BacktestRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BacktestRunStore = (*BacktestRunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestRunStore) Insert(ctx context.Context, r *domain.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (
			run_id, symbol, market, strategy_id, started_at, initial_cash, final_assets
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Symbol, string(r.Market), r.StrategyID,
		r.StartedAt, r.InitialCash, r.FinalAssets,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *BacktestRunStore) GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error) {
	query := `
		SELECT run_id, symbol, market, strategy_id, started_at, initial_cash, final_assets
		FROM backtest_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanBacktestRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest run by id: %w", err)
	}
	return r, nil
}

// GetBySymbol retrieves all runs for a symbol, ordered by started_at ASC.
func (s *BacktestRunStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.BacktestRun, error) {
	query := `
		SELECT run_id, symbol, market, strategy_id, started_at, initial_cash, final_assets
		FROM backtest_runs
		WHERE symbol = $1
		ORDER BY started_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get backtest runs by symbol: %w", err)
	}
	defer rows.Close()

	return scanBacktestRuns(rows)
}

// GetByStrategy retrieves all runs for a strategy, ordered by started_at ASC.
func (s *BacktestRunStore) GetByStrategy(ctx context.Context, strategyID string) ([]*domain.BacktestRun, error) {
	query := `
		SELECT run_id, symbol, market, strategy_id, started_at, initial_cash, final_assets
		FROM backtest_runs
		WHERE strategy_id = $1
		ORDER BY started_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("get backtest runs by strategy: %w", err)
	}
	defer rows.Close()

	return scanBacktestRuns(rows)
}

// scanBacktestRun scans a single row into a BacktestRun.
func scanBacktestRun(row pgx.Row) (*domain.BacktestRun, error) {
	var r domain.BacktestRun
	var market string

	err := row.Scan(
		&r.RunID, &r.Symbol, &market, &r.StrategyID,
		&r.StartedAt, &r.InitialCash, &r.FinalAssets,
	)
	if err != nil {
		return nil, err
	}

	r.Market = domain.Market(market)
	return &r, nil
}

// scanBacktestRuns scans multiple rows into a slice of BacktestRun.
func scanBacktestRuns(rows pgx.Rows) ([]*domain.BacktestRun, error) {
	var runs []*domain.BacktestRun

	for rows.Next() {
		r, err := scanBacktestRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest run rows: %w", err)
	}

	return runs, nil
}
