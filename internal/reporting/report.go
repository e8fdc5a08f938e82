package reporting

import (
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// Report is the rendered output of one backtest run: the run header, its
// computed statistics, the full trade and equity history, and any
// integrity issues found while assembling it.
type Report struct {
	GeneratedAt time.Time

	Run   *domain.BacktestRun
	Stats *domain.RunStats

	// Sorted by date ASC
	Trades []*domain.TradeRecord
	Assets []*domain.AssetRecord

	IntegrityErrors []string
}
