package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage/memory"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func seedStores(t *testing.T) (*memory.BacktestRunStore, *memory.TradeRecordStore, *memory.AssetRecordStore) {
	t.Helper()
	ctx := context.Background()

	runStore := memory.NewBacktestRunStore()
	tradeStore := memory.NewTradeRecordStore()
	assetStore := memory.NewAssetRecordStore()

	run := &domain.BacktestRun{
		RunID:       "r1",
		Symbol:      "0700.HK",
		Market:      domain.MarketHK,
		StrategyID:  "sma_cross_5_20",
		StartedAt:   day(0),
		InitialCash: 100000,
		FinalAssets: 102000,
	}
	if err := runStore.Insert(ctx, run); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	trades := []*domain.TradeRecord{
		{TradeID: "t1", RunID: "r1", Date: day(0), Action: domain.ActionBuy, SignalType: "SMA_CROSS_UP", Shares: 100},
		{TradeID: "t2", RunID: "r1", Date: day(4), Action: domain.ActionSell, SignalType: "SMA_CROSS_DOWN", Shares: 100},
	}
	if err := tradeStore.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("seed trades: %v", err)
	}

	assets := []*domain.AssetRecord{
		{RunID: "r1", Date: day(0), TotalAssets: 100000},
		{RunID: "r1", Date: day(2), TotalAssets: 101499.996},
		{RunID: "r1", Date: day(4), TotalAssets: 102000},
	}
	if err := assetStore.InsertBulk(ctx, assets); err != nil {
		t.Fatalf("seed assets: %v", err)
	}

	return runStore, tradeStore, assetStore
}

func TestGenerator_Generate(t *testing.T) {
	runStore, tradeStore, assetStore := seedStores(t)

	fixed := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(runStore, tradeStore, assetStore).
		WithClock(func() time.Time { return fixed })

	closures := []domain.TradeCloseEvent{
		{IsClosed: true, PnLGross: 2100, PnLNet: 2000},
	}

	report, err := gen.Generate(context.Background(), "r1", closures)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("clock not used: %v", report.GeneratedAt)
	}
	if report.Run.Symbol != "0700.HK" {
		t.Errorf("run not loaded: %+v", report.Run)
	}
	if len(report.Trades) != 2 || len(report.Assets) != 3 {
		t.Errorf("records not loaded: %d trades, %d assets", len(report.Trades), len(report.Assets))
	}
	if report.Stats.Wins != 1 || report.Stats.RoundTrips != 1 {
		t.Errorf("stats wrong: %+v", report.Stats)
	}
	if len(report.IntegrityErrors) != 0 {
		t.Errorf("expected clean run, got %v", report.IntegrityErrors)
	}
}

func TestGenerator_RunNotFound(t *testing.T) {
	gen := NewGenerator(memory.NewBacktestRunStore(), memory.NewTradeRecordStore(), memory.NewAssetRecordStore())

	_, err := gen.Generate(context.Background(), "missing", nil)
	if err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestRenderTradesCSV(t *testing.T) {
	trades := []*domain.TradeRecord{
		{TradeID: "t1", RunID: "r1", Date: day(0), Action: domain.ActionBuy, SignalType: "INITIAL_BUY", Shares: 200},
	}

	csv := RenderTradesCSV(trades)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "trade_id,run_id,date,action,signal_type,shares" {
		t.Errorf("header mismatch: %s", lines[0])
	}
	if lines[1] != "t1,r1,2024-01-01,BUY,INITIAL_BUY,200" {
		t.Errorf("row mismatch: %s", lines[1])
	}
}

func TestRenderAssetsCSV_RoundsMoney(t *testing.T) {
	assets := []*domain.AssetRecord{
		{RunID: "r1", Date: day(0), TotalAssets: 99955.029999999},
	}

	csv := RenderAssetsCSV(assets)

	if !strings.Contains(csv, "r1,2024-01-01,99955.03") {
		t.Errorf("expected rounded amount in output:\n%s", csv)
	}
}

func TestRenderMarkdown(t *testing.T) {
	runStore, tradeStore, assetStore := seedStores(t)

	gen := NewGenerator(runStore, tradeStore, assetStore)
	report, err := gen.Generate(context.Background(), "r1", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Backtest Report: 0700.HK",
		"| Initial Cash | 100000.00 |",
		"| Total Return | 2.00% |",
		"| 2024-01-01 | BUY | SMA_CROSS_UP | 100 |",
		"## Equity Curve",
		"| 2024-01-03 | 101500.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Integrity Errors") {
		t.Error("unexpected integrity section for clean run")
	}
}
