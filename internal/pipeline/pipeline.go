// Package pipeline runs a backtest end to end: execute the strategy,
// persist the run with its records, compute statistics, verify
// integrity, and render report files.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/backtest"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/reporting"
	"github.com/wearetvxq/stock-quant/internal/storage"
	"github.com/wearetvxq/stock-quant/internal/strategy"
	"github.com/wearetvxq/stock-quant/internal/verification"
)

// Output file names written into the output directory.
const (
	ReportFile    = "report.md"
	TradesCSVFile = "trade_records.csv"
	AssetsCSVFile = "asset_records.csv"
)

// Pipeline wires the runner to storage and reporting.
type Pipeline struct {
	logger     *zap.Logger
	runner     *backtest.Runner
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeRecordStore
	assetStore storage.AssetRecordStore
	outputDir  string
	clock      func() time.Time
}

// New creates a pipeline. outputDir may be empty to skip file rendering.
func New(logger *zap.Logger, runner *backtest.Runner, runStore storage.BacktestRunStore, tradeStore storage.TradeRecordStore, assetStore storage.AssetRecordStore, outputDir string) *Pipeline {
	return &Pipeline{
		logger:     logger,
		runner:     runner,
		runStore:   runStore,
		tradeStore: tradeStore,
		assetStore: assetStore,
		outputDir:  outputDir,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Run executes the full pipeline and returns the rendered report.
func (p *Pipeline) Run(ctx context.Context, strat strategy.Strategy, bars []*domain.Bar, opts backtest.Options) (*reporting.Report, error) {
	started := p.clock()

	result, err := p.runner.Run(ctx, strat, bars, opts)
	if err != nil {
		return nil, fmt.Errorf("run backtest: %w", err)
	}

	if err := p.persist(ctx, result); err != nil {
		return nil, err
	}

	gen := reporting.NewGenerator(p.runStore, p.tradeStore, p.assetStore).WithClock(p.clock)
	report, err := gen.Generate(ctx, result.Run.RunID, result.Closures)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	// Signal/execution counters only exist in-process, so the stored-run
	// verifier cannot see them.
	for _, issue := range verification.CheckCounters(result.BuySignals, result.BuysExecuted, result.SellSignals, result.SellsExecuted) {
		report.IntegrityErrors = append(report.IntegrityErrors, fmt.Sprintf("%s: %s", issue.Check, issue.Detail))
	}

	if p.outputDir != "" {
		if err := p.render(report); err != nil {
			return nil, err
		}
	}

	p.logger.Info("pipeline complete",
		zap.Duration("elapsed", p.clock().Sub(started)),
		zap.String("run_id", result.Run.RunID),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("final_assets", result.Run.FinalAssets))

	return report, nil
}

// persist writes the run and its records. The run row goes first so the
// trade and asset inserts satisfy referential integrity.
func (p *Pipeline) persist(ctx context.Context, result *backtest.Result) error {
	if err := p.runStore.Insert(ctx, &result.Run); err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	trades := make([]*domain.TradeRecord, len(result.Trades))
	for i := range result.Trades {
		trades[i] = &result.Trades[i]
	}
	if err := p.tradeStore.InsertBulk(ctx, trades); err != nil {
		return fmt.Errorf("persist trades: %w", err)
	}

	assets := make([]*domain.AssetRecord, len(result.Assets))
	for i := range result.Assets {
		assets[i] = &result.Assets[i]
	}
	if err := p.assetStore.InsertBulk(ctx, assets); err != nil {
		return fmt.Errorf("persist asset snapshots: %w", err)
	}
	return nil
}

// render writes the markdown report and CSV exports.
func (p *Pipeline) render(report *reporting.Report) error {
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]string{
		ReportFile:    reporting.RenderMarkdown(report),
		TradesCSVFile: reporting.RenderTradesCSV(report.Trades),
		AssetsCSVFile: reporting.RenderAssetsCSV(report.Assets),
	}

	for name, content := range files {
		path := filepath.Join(p.outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
