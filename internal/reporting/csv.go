package reporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// money formats a float as a currency amount with exactly two decimal
// places, using decimal arithmetic so 44.969999... renders as 44.97.
func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

// RenderTradesCSV renders fill records as a CSV string.
func RenderTradesCSV(trades []*domain.TradeRecord) string {
	var sb strings.Builder

	sb.WriteString("trade_id,run_id,date,action,signal_type,shares\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d\n",
			t.TradeID,
			t.RunID,
			t.Date.Format("2006-01-02"),
			t.Action,
			t.SignalType,
			t.Shares,
		))
	}

	return sb.String()
}

// RenderAssetsCSV renders equity snapshots as a CSV string.
func RenderAssetsCSV(assets []*domain.AssetRecord) string {
	var sb strings.Builder

	sb.WriteString("run_id,date,total_assets\n")

	for _, a := range assets {
		sb.WriteString(fmt.Sprintf("%s,%s,%s\n",
			a.RunID,
			a.Date.Format("2006-01-02"),
			money(a.TotalAssets),
		))
	}

	return sb.String()
}
