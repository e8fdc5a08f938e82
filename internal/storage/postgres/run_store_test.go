package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

func TestBacktestRunStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBacktestRunStore(pool)

	run := &domain.BacktestRun{
		RunID:       "run-1",
		Symbol:      "AAPL",
		Market:      domain.MarketUS,
		StrategyID:  "buy_hold",
		StartedAt:   utcDay(0),
		InitialCash: 100000,
		FinalAssets: 112500.75,
	}

	require.NoError(t, store.Insert(ctx, run))

	retrieved, err := store.GetByID(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, run.RunID, retrieved.RunID)
	assert.Equal(t, run.Symbol, retrieved.Symbol)
	assert.Equal(t, domain.MarketUS, retrieved.Market)
	assert.Equal(t, run.StrategyID, retrieved.StrategyID)
	assert.InDelta(t, run.InitialCash, retrieved.InitialCash, 1e-9)
	assert.InDelta(t, run.FinalAssets, retrieved.FinalAssets, 1e-9)
}

func TestBacktestRunStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBacktestRunStore(pool)

	run := &domain.BacktestRun{RunID: "run-1", Symbol: "AAPL", Market: domain.MarketUS, StartedAt: utcDay(0)}
	require.NoError(t, store.Insert(ctx, run))

	err := store.Insert(ctx, run)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestBacktestRunStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBacktestRunStore(pool)

	_, err := store.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBacktestRunStore_GetBySymbolAndStrategy(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBacktestRunStore(pool)

	runs := []*domain.BacktestRun{
		{RunID: "r1", Symbol: "0700.HK", Market: domain.MarketHK, StrategyID: "sma_cross_5_20", StartedAt: utcDay(2)},
		{RunID: "r2", Symbol: "0700.HK", Market: domain.MarketHK, StrategyID: "buy_hold", StartedAt: utcDay(0)},
		{RunID: "r3", Symbol: "AAPL", Market: domain.MarketUS, StrategyID: "sma_cross_5_20", StartedAt: utcDay(1)},
	}
	for _, r := range runs {
		require.NoError(t, store.Insert(ctx, r))
	}

	bySymbol, err := store.GetBySymbol(ctx, "0700.HK")
	require.NoError(t, err)
	require.Len(t, bySymbol, 2)
	assert.Equal(t, "r2", bySymbol[0].RunID, "expected started_at ordering")

	byStrategy, err := store.GetByStrategy(ctx, "sma_cross_5_20")
	require.NoError(t, err)
	require.Len(t, byStrategy, 2)
	assert.Equal(t, "r3", byStrategy[0].RunID)
}
