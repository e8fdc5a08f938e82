package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/backtest"
	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage/memory"
	"github.com/wearetvxq/stock-quant/internal/strategy"
)

func makeBars(closes []float64) []*domain.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestPipelineRunEndToEnd(t *testing.T) {
	runStore := memory.NewBacktestRunStore()
	tradeStore := memory.NewTradeRecordStore()
	assetStore := memory.NewAssetRecordStore()

	logger := zap.NewNop()
	runner := backtest.NewRunner(logger, commission.NewFactory(logger, commission.DefaultSchedules()))
	outDir := t.TempDir()

	p := New(logger, runner, runStore, tradeStore, assetStore, outDir).
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) })

	bars := makeBars([]float64{100, 101, 102})
	report, err := p.Run(context.Background(), strategy.NewBuyHoldStrategy(200), bars, backtest.Options{
		Symbol:      "00700",
		Market:      domain.MarketHK,
		InitialCash: 100_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
	if report.Run == nil || report.Run.Symbol != "00700" {
		t.Fatalf("report run = %+v", report.Run)
	}
	if len(report.Trades) != 1 {
		t.Fatalf("expected 1 trade in report, got %d", len(report.Trades))
	}
	if len(report.IntegrityErrors) != 0 {
		t.Fatalf("unexpected integrity errors: %v", report.IntegrityErrors)
	}

	// Everything the run produced must be readable back from the stores.
	runID := report.Run.RunID
	ctx := context.Background()
	if _, err := runStore.GetByID(ctx, runID); err != nil {
		t.Fatalf("run not persisted: %v", err)
	}
	trades, err := tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		t.Fatalf("GetByRunID trades: %v", err)
	}
	if len(trades) != 1 || trades[0].Action != domain.ActionBuy {
		t.Fatalf("persisted trades = %+v", trades)
	}
	assets, err := assetStore.GetByRunID(ctx, runID)
	if err != nil {
		t.Fatalf("GetByRunID assets: %v", err)
	}
	if len(assets) != len(bars) {
		t.Fatalf("expected %d asset snapshots, got %d", len(bars), len(assets))
	}

	for _, name := range []string{ReportFile, TradesCSVFile, AssetsCSVFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected output file %s: %v", name, err)
		}
	}
	md, err := os.ReadFile(filepath.Join(outDir, ReportFile))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "# Backtest Report: 00700") {
		t.Fatalf("report markdown missing title:\n%s", md)
	}
}

func TestPipelineRunNoOutputDir(t *testing.T) {
	logger := zap.NewNop()
	runner := backtest.NewRunner(logger, commission.NewFactory(logger, commission.DefaultSchedules()))
	p := New(logger, runner, memory.NewBacktestRunStore(), memory.NewTradeRecordStore(), memory.NewAssetRecordStore(), "")

	report, err := p.Run(context.Background(), strategy.NewBuyHoldStrategy(100), makeBars([]float64{50, 51}), backtest.Options{
		Symbol:      "AAPL",
		Market:      domain.MarketUS,
		InitialCash: 50_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
}

func TestPipelineRunEmptyBarsFails(t *testing.T) {
	logger := zap.NewNop()
	runner := backtest.NewRunner(logger, commission.NewFactory(logger, commission.DefaultSchedules()))
	p := New(logger, runner, memory.NewBacktestRunStore(), memory.NewTradeRecordStore(), memory.NewAssetRecordStore(), "")

	if _, err := p.Run(context.Background(), strategy.NewBuyHoldStrategy(100), nil, backtest.Options{
		Symbol:      "AAPL",
		Market:      domain.MarketUS,
		InitialCash: 50_000,
	}); err == nil {
		t.Fatal("expected error for empty bars")
	}
}
