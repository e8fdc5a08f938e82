package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a run report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Backtest Report: %s\n\n", r.Run.Symbol))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run `%s` | Strategy `%s` | Market %s\n\n",
		r.Run.RunID, r.Run.StrategyID, r.Run.Market))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Initial Cash | %s |\n", money(r.Stats.InitialCash)))
	sb.WriteString(fmt.Sprintf("| Final Assets | %s |\n", money(r.Stats.FinalAssets)))
	sb.WriteString(fmt.Sprintf("| Total Return | %.2f%% |\n", r.Stats.TotalReturn*100))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f%% |\n", r.Stats.MaxDrawdown*100))
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Stats.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Round Trips | %d |\n", r.Stats.RoundTrips))
	if r.Stats.Wins+r.Stats.Losses > 0 {
		sb.WriteString(fmt.Sprintf("| Win Rate | %.1f%% (%d/%d) |\n",
			r.Stats.WinRate*100, r.Stats.Wins, r.Stats.Wins+r.Stats.Losses))
		sb.WriteString(fmt.Sprintf("| Net P&L (closed) | %s |\n", money(r.Stats.PnLNetTotal)))
		sb.WriteString(fmt.Sprintf("| Commission (closed) | %s |\n", money(r.Stats.CommissionTotal)))
	}
	sb.WriteString("\n")

	if len(r.IntegrityErrors) > 0 {
		sb.WriteString("## Integrity Errors\n\n")
		for _, err := range r.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Trades\n\n")
	if len(r.Trades) == 0 {
		sb.WriteString("No trades executed.\n\n")
	} else {
		sb.WriteString("| Date | Action | Signal | Shares |\n")
		sb.WriteString("|------|--------|--------|--------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
				t.Date.Format("2006-01-02"), t.Action, t.SignalType, t.Shares))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Equity Curve\n\n")
	if len(r.Assets) == 0 {
		sb.WriteString("No snapshots recorded.\n")
	} else {
		sb.WriteString("| Date | Total Assets |\n")
		sb.WriteString("|------|-------------|\n")
		for _, a := range r.Assets {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n",
				a.Date.Format("2006-01-02"), money(a.TotalAssets)))
		}
	}

	return sb.String()
}
