package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// ErrNoRun is returned when the requested run does not exist.
var ErrNoRun = errors.New("run not found for stats computation")

// Aggregator computes run statistics from persisted records.
type Aggregator struct {
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeRecordStore
	assetStore storage.AssetRecordStore
}

// NewAggregator creates a new stats aggregator.
func NewAggregator(runStore storage.BacktestRunStore, tradeStore storage.TradeRecordStore, assetStore storage.AssetRecordStore) *Aggregator {
	return &Aggregator{
		runStore:   runStore,
		tradeStore: tradeStore,
		assetStore: assetStore,
	}
}

// ComputeStats loads a run with its trades and asset snapshots and computes
// statistics. Win/loss and P&L fields stay zero here because close events
// are not persisted; use ComputeStatsWithClosures for in-process results.
func (a *Aggregator) ComputeStats(ctx context.Context, runID string) (*domain.RunStats, error) {
	return a.compute(ctx, runID, nil)
}

// ComputeStatsWithClosures is ComputeStats plus the round-trip close events
// captured while the run executed.
func (a *Aggregator) ComputeStatsWithClosures(ctx context.Context, runID string, closures []domain.TradeCloseEvent) (*domain.RunStats, error) {
	return a.compute(ctx, runID, closures)
}

func (a *Aggregator) compute(ctx context.Context, runID string, closures []domain.TradeCloseEvent) (*domain.RunStats, error) {
	run, err := a.runStore.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoRun
		}
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	trades, err := a.tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load trades for run %s: %w", runID, err)
	}

	assets, err := a.assetStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load asset snapshots for run %s: %w", runID, err)
	}

	return computeFromRun(run, trades, assets, closures), nil
}

// StatsFromResultPieces computes statistics directly from in-memory run
// output without touching storage.
func StatsFromResultPieces(run *domain.BacktestRun, trades []*domain.TradeRecord, assets []*domain.AssetRecord, closures []domain.TradeCloseEvent) *domain.RunStats {
	return computeFromRun(run, trades, assets, closures)
}
