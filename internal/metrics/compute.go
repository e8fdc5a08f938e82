package metrics

import (
	"sort"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// computeFromRun calculates all statistics for one run. Trades and asset
// snapshots are sorted by date before computing order-dependent metrics
// (RoundTrips, MaxDrawdown). Closures may be nil when stats are rebuilt
// from storage; the closure-derived fields stay zero in that case.
func computeFromRun(run *domain.BacktestRun, trades []*domain.TradeRecord, assets []*domain.AssetRecord, closures []domain.TradeCloseEvent) *domain.RunStats {
	stats := &domain.RunStats{
		RunID:       run.RunID,
		Symbol:      run.Symbol,
		StrategyID:  run.StrategyID,
		InitialCash: run.InitialCash,
		FinalAssets: run.FinalAssets,
	}

	sortedTrades := make([]*domain.TradeRecord, len(trades))
	copy(sortedTrades, trades)
	sort.Slice(sortedTrades, func(i, j int) bool {
		if !sortedTrades[i].Date.Equal(sortedTrades[j].Date) {
			return sortedTrades[i].Date.Before(sortedTrades[j].Date)
		}
		return sortedTrades[i].TradeID < sortedTrades[j].TradeID
	})

	stats.TotalTrades = len(sortedTrades)
	for _, t := range sortedTrades {
		switch t.Action {
		case domain.ActionBuy:
			stats.BuyTrades++
		case domain.ActionSell:
			stats.SellTrades++
		}
	}
	stats.RoundTrips = countRoundTrips(sortedTrades)

	for _, c := range closures {
		if !c.IsClosed {
			continue
		}
		if c.PnLNet > 0 {
			stats.Wins++
		} else {
			stats.Losses++
		}
		stats.PnLGrossTotal += c.PnLGross
		stats.PnLNetTotal += c.PnLNet
		stats.CommissionTotal += c.PnLGross - c.PnLNet
	}
	stats.WinRate = computeWinRate(stats.Wins, stats.Wins+stats.Losses)

	if run.InitialCash > 0 {
		stats.TotalReturn = (run.FinalAssets - run.InitialCash) / run.InitialCash
	}

	sortedAssets := make([]*domain.AssetRecord, len(assets))
	copy(sortedAssets, assets)
	sort.Slice(sortedAssets, func(i, j int) bool {
		return sortedAssets[i].Date.Before(sortedAssets[j].Date)
	})

	stats.PeakAssets, stats.MaxDrawdown = computeMaxDrawdown(sortedAssets)

	return stats
}

// countRoundTrips replays the position for a long-only single-instrument run
// and counts each return to a flat position.
func countRoundTrips(trades []*domain.TradeRecord) int {
	var position int64
	roundTrips := 0
	for _, t := range trades {
		switch t.Action {
		case domain.ActionBuy:
			position += t.Shares
		case domain.ActionSell:
			position -= t.Shares
			if position <= 0 {
				roundTrips++
				position = 0
			}
		}
	}
	return roundTrips
}

// computeWinRate calculates win rate as wins / total.
func computeWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// computeMaxDrawdown finds the worst peak-to-trough decline on the equity
// curve, expressed as a fraction of the peak. Snapshots must be in
// chronological order.
func computeMaxDrawdown(assets []*domain.AssetRecord) (peak, maxDrawdown float64) {
	for _, a := range assets {
		if a.TotalAssets > peak {
			peak = a.TotalAssets
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - a.TotalAssets) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return peak, maxDrawdown
}
