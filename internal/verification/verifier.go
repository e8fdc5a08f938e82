// Package verification checks the internal consistency of a completed
// backtest run: record ordering, position accounting, and counter
// invariants that the runner is supposed to uphold.
package verification

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// ErrRunNotFound is returned when the run ID doesn't exist.
var ErrRunNotFound = errors.New("run not found")

// Issue is one failed integrity check.
type Issue struct {
	Check  string // short check name
	Detail string // human-readable description of the violation
}

// RunReport contains the outcome of verifying a single run.
type RunReport struct {
	RunID  string
	Issues []Issue
}

// Clean reports whether every check passed.
func (r *RunReport) Clean() bool {
	return len(r.Issues) == 0
}

// RunVerifier loads a run's records and checks their integrity.
type RunVerifier struct {
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeRecordStore
	assetStore storage.AssetRecordStore
}

// NewRunVerifier creates a new RunVerifier.
func NewRunVerifier(runStore storage.BacktestRunStore, tradeStore storage.TradeRecordStore, assetStore storage.AssetRecordStore) *RunVerifier {
	return &RunVerifier{
		runStore:   runStore,
		tradeStore: tradeStore,
		assetStore: assetStore,
	}
}

// VerifyRun loads and checks one run. Returns ErrRunNotFound if the run
// does not exist.
func (v *RunVerifier) VerifyRun(ctx context.Context, runID string) (*RunReport, error) {
	run, err := v.runStore.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	trades, err := v.tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	assets, err := v.assetStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	report := &RunReport{RunID: runID}
	report.Issues = append(report.Issues, CheckTrades(run, trades)...)
	report.Issues = append(report.Issues, CheckAssets(run, assets)...)
	return report, nil
}

// CheckTrades validates fill records: field sanity, chronological order,
// and long-only position accounting.
func CheckTrades(run *domain.BacktestRun, trades []*domain.TradeRecord) []Issue {
	var issues []Issue

	seen := make(map[string]struct{}, len(trades))
	var position int64

	for i, t := range trades {
		if t.Shares <= 0 {
			issues = append(issues, Issue{
				Check:  "positive_shares",
				Detail: fmt.Sprintf("trade %s has non-positive shares %d", t.TradeID, t.Shares),
			})
		}
		if t.Action != domain.ActionBuy && t.Action != domain.ActionSell {
			issues = append(issues, Issue{
				Check:  "known_action",
				Detail: fmt.Sprintf("trade %s has unknown action %q", t.TradeID, t.Action),
			})
		}
		if t.RunID != run.RunID {
			issues = append(issues, Issue{
				Check:  "run_ownership",
				Detail: fmt.Sprintf("trade %s belongs to run %s, not %s", t.TradeID, t.RunID, run.RunID),
			})
		}
		if _, dup := seen[t.TradeID]; dup {
			issues = append(issues, Issue{
				Check:  "unique_trade_id",
				Detail: fmt.Sprintf("trade id %s appears more than once", t.TradeID),
			})
		}
		seen[t.TradeID] = struct{}{}

		if i > 0 && t.Date.Before(trades[i-1].Date) {
			issues = append(issues, Issue{
				Check:  "trade_order",
				Detail: fmt.Sprintf("trade %s dated %s before preceding trade %s", t.TradeID, t.Date.Format("2006-01-02"), trades[i-1].Date.Format("2006-01-02")),
			})
		}

		switch t.Action {
		case domain.ActionBuy:
			position += t.Shares
		case domain.ActionSell:
			position -= t.Shares
			if position < 0 {
				issues = append(issues, Issue{
					Check:  "long_only",
					Detail: fmt.Sprintf("position goes short (%d) after trade %s", position, t.TradeID),
				})
			}
		}
	}

	return issues
}

// CheckAssets validates equity snapshots: strictly increasing dates and
// finite non-negative values.
func CheckAssets(run *domain.BacktestRun, assets []*domain.AssetRecord) []Issue {
	var issues []Issue

	for i, a := range assets {
		if a.RunID != run.RunID {
			issues = append(issues, Issue{
				Check:  "run_ownership",
				Detail: fmt.Sprintf("snapshot at %s belongs to run %s, not %s", a.Date.Format("2006-01-02"), a.RunID, run.RunID),
			})
		}
		if math.IsNaN(a.TotalAssets) || math.IsInf(a.TotalAssets, 0) || a.TotalAssets < 0 {
			issues = append(issues, Issue{
				Check:  "finite_assets",
				Detail: fmt.Sprintf("snapshot at %s has invalid total %f", a.Date.Format("2006-01-02"), a.TotalAssets),
			})
		}
		if i > 0 && !a.Date.After(assets[i-1].Date) {
			issues = append(issues, Issue{
				Check:  "snapshot_order",
				Detail: fmt.Sprintf("snapshot dates not strictly increasing at %s", a.Date.Format("2006-01-02")),
			})
		}
	}

	return issues
}

// CheckCounters validates the signal-versus-execution invariant: a fill can
// only happen for an order a strategy actually signaled.
func CheckCounters(buySignals, buysExecuted, sellSignals, sellsExecuted int) []Issue {
	var issues []Issue

	if buysExecuted > buySignals {
		issues = append(issues, Issue{
			Check:  "buy_counter",
			Detail: fmt.Sprintf("%d buys executed but only %d signaled", buysExecuted, buySignals),
		})
	}
	if sellsExecuted > sellSignals {
		issues = append(issues, Issue{
			Check:  "sell_counter",
			Detail: fmt.Sprintf("%d sells executed but only %d signaled", sellsExecuted, sellSignals),
		})
	}

	return issues
}
