// Command report regenerates the report files for a persisted run.
// Statistics that depend on in-process close events (win rate, net
// P&L) are omitted when rebuilding from storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/config"
	"github.com/wearetvxq/stock-quant/internal/reporting"
	pgstore "github.com/wearetvxq/stock-quant/internal/storage/postgres"
)

func main() {
	config.LoadEnv()

	runID := flag.String("run-id", "", "Run ID to report on (required)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	outputDir := flag.String("output", "", "Directory for report files; empty prints markdown to stdout")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *runID == "" {
		logger.Fatal("--run-id is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("no storage: pass --postgres-dsn or set POSTGRES_DSN")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	gen := reporting.NewGenerator(
		pgstore.NewBacktestRunStore(pool),
		pgstore.NewTradeRecordStore(pool),
		pgstore.NewAssetRecordStore(pool),
	)
	report, err := gen.Generate(ctx, *runID, nil)
	if err != nil {
		logger.Fatal("generate report", zap.Error(err))
	}

	if *outputDir == "" {
		fmt.Print(reporting.RenderMarkdown(report))
		return
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatal("create output dir", zap.Error(err))
	}
	files := map[string]string{
		"report.md":         reporting.RenderMarkdown(report),
		"trade_records.csv": reporting.RenderTradesCSV(report.Trades),
		"asset_records.csv": reporting.RenderAssetsCSV(report.Assets),
	}
	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			logger.Fatal("write report file", zap.String("file", name), zap.Error(err))
		}
	}
	fmt.Printf("wrote %d files to %s\n", len(files), *outputDir)
}
