package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/metrics"
	"github.com/wearetvxq/stock-quant/internal/storage"
	"github.com/wearetvxq/stock-quant/internal/verification"
)

// Generator produces run reports from stored data.
type Generator struct {
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeRecordStore
	assetStore storage.AssetRecordStore
	aggregator *metrics.Aggregator
	verifier   *verification.RunVerifier
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.BacktestRunStore, tradeStore storage.TradeRecordStore, assetStore storage.AssetRecordStore) *Generator {
	return &Generator{
		runStore:   runStore,
		tradeStore: tradeStore,
		assetStore: assetStore,
		aggregator: metrics.NewAggregator(runStore, tradeStore, assetStore),
		verifier:   verification.NewRunVerifier(runStore, tradeStore, assetStore),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report for one run. Closures are the
// round-trip close events from an in-process run; pass nil when reporting
// on a run loaded purely from storage.
func (g *Generator) Generate(ctx context.Context, runID string, closures []domain.TradeCloseEvent) (*Report, error) {
	run, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	trades, err := g.tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load trades for run %s: %w", runID, err)
	}

	assets, err := g.assetStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots for run %s: %w", runID, err)
	}

	stats, err := g.aggregator.ComputeStatsWithClosures(ctx, runID, closures)
	if err != nil {
		return nil, fmt.Errorf("compute stats for run %s: %w", runID, err)
	}

	integrity, err := g.verifier.VerifyRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("verify run %s: %w", runID, err)
	}

	var integrityErrors []string
	for _, issue := range integrity.Issues {
		integrityErrors = append(integrityErrors, fmt.Sprintf("%s: %s", issue.Check, issue.Detail))
	}

	return &Report{
		GeneratedAt:     g.now(),
		Run:             run,
		Stats:           stats,
		Trades:          trades,
		Assets:          assets,
		IntegrityErrors: integrityErrors,
	}, nil
}
