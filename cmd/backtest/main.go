// Command backtest runs one strategy over a bar file, persists the
// results, and writes a report.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/backtest"
	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/config"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/ingestion"
	"github.com/wearetvxq/stock-quant/internal/observability"
	"github.com/wearetvxq/stock-quant/internal/pipeline"
	"github.com/wearetvxq/stock-quant/internal/storage"
	chstore "github.com/wearetvxq/stock-quant/internal/storage/clickhouse"
	"github.com/wearetvxq/stock-quant/internal/storage/memory"
	"github.com/wearetvxq/stock-quant/internal/storage/migrations"
	pgstore "github.com/wearetvxq/stock-quant/internal/storage/postgres"
	"github.com/wearetvxq/stock-quant/internal/strategy"
)

func main() {
	config.LoadEnv()

	configPath := flag.String("config", "", "Path to YAML config (required)")
	barsFile := flag.String("bars", "", "Bars CSV file (overrides config)")
	outputDir := flag.String("output", "output", "Directory for report files, empty to skip")
	useMemory := flag.Bool("use-memory", false, "Force in-memory storage even when DSNs are configured")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint, empty to disable")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *configPath == "" {
		logger.Fatal("--config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if *barsFile != "" {
		cfg.Run.BarsFile = *barsFile
	}
	if cfg.Run.BarsFile == "" {
		logger.Fatal("no bars file: set run.bars_file in config or pass --bars")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	bars, err := ingestion.LoadBars(ctx, ingestion.NewCSVBarSource(cfg.Run.BarsFile), cfg.Run.Symbol)
	if err != nil {
		logger.Fatal("load bars", zap.Error(err))
	}

	var runStore storage.BacktestRunStore = memory.NewBacktestRunStore()
	var tradeStore storage.TradeRecordStore = memory.NewTradeRecordStore()
	var assetStore storage.AssetRecordStore = memory.NewAssetRecordStore()

	if !*useMemory && cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			logger.Fatal("connect to postgres", zap.Error(err))
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal("run postgres migrations", zap.Error(err))
		}
		runStore = pgstore.NewBacktestRunStore(pool)
		tradeStore = pgstore.NewTradeRecordStore(pool)
		assetStore = pgstore.NewAssetRecordStore(pool)
	}

	if !*useMemory && cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			logger.Fatal("run clickhouse migrations", zap.Error(err))
		}
		defer conn.Close()
		assetStore = chstore.NewAssetTimeseriesStore(conn)
	}

	strat, err := strategy.FromConfig(cfg.Strategy)
	if err != nil {
		logger.Fatal("build strategy", zap.Error(err))
	}

	schedules := cfg.Schedules()
	runner := backtest.NewRunner(logger, commission.NewFactory(logger, schedules))
	market := domain.Market(cfg.Run.Market)

	p := pipeline.New(logger, runner, runStore, tradeStore, assetStore, *outputDir)
	report, err := p.Run(ctx, strat, bars, backtest.Options{
		Symbol:      cfg.Run.Symbol,
		Market:      market,
		InitialCash: cfg.Run.InitialCash,
		Slippage:    schedules.Slippage(market),
	})
	if err != nil {
		logger.Fatal("run pipeline", zap.Error(err))
	}

	fmt.Printf("run %s: %d trades, final assets %.2f (return %.2f%%)\n",
		report.Run.RunID, len(report.Trades), report.Stats.FinalAssets, report.Stats.TotalReturn*100)
	if len(report.IntegrityErrors) > 0 {
		fmt.Printf("integrity errors: %d (see report)\n", len(report.IntegrityErrors))
		os.Exit(1)
	}
}
