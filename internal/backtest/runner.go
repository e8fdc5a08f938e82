// Package backtest is a thin synchronous wrapper that drives a
// strategy over a bar series: signal evaluation, order submission,
// fill notification and record update all complete within one tick
// before the next bar is processed. It is not a matching engine:
// orders fill at the bar close adjusted by the schedule's slippage.
package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/idhash"
	"github.com/wearetvxq/stock-quant/internal/observability"
	"github.com/wearetvxq/stock-quant/internal/records"
	"github.com/wearetvxq/stock-quant/internal/strategy"
)

// Options configures one backtest run.
type Options struct {
	Symbol      string
	Market      domain.Market
	InitialCash float64
	Slippage    float64 // execution slippage per share, in the market currency
}

// Result holds everything a run produced.
type Result struct {
	Run    domain.BacktestRun
	Trades []domain.TradeRecord
	Assets []domain.AssetRecord

	BuySignals    int
	SellSignals   int
	BuysExecuted  int
	SellsExecuted int

	CommissionPaid float64
	Closures       []domain.TradeCloseEvent
}

// Runner executes backtests.
type Runner struct {
	logger  *zap.Logger
	factory *commission.Factory
}

// NewRunner creates a backtest runner. Commission models come from the
// factory, which falls back to HK for unknown markets.
func NewRunner(logger *zap.Logger, factory *commission.Factory) *Runner {
	return &Runner{
		logger:  logger,
		factory: factory,
	}
}

// Run drives the strategy over the bars in order. Each tick runs to
// completion before the next begins: signal, order submission,
// synthesized engine notifications, record updates, and finally one
// asset snapshot at the bar close.
func (r *Runner) Run(ctx context.Context, strat strategy.Strategy, bars []*domain.Bar, opts Options) (*Result, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s", opts.Symbol)
	}

	started := time.Now()
	runID := idhash.ComputeRunID(opts.Symbol, string(opts.Market), strat.ID(), started)

	trades := records.NewTradeRecordManager(runID)
	assets := records.NewAssetRecordManager(runID)
	model := r.factory.Get(opts.Market)
	tracker := strategy.NewTracker(r.logger, model, trades)

	book := newPositionBook(opts.InitialCash)
	book.slippage = opts.Slippage
	orderSeq := 0

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		observability.RecordBarProcessed()

		sig, err := strat.OnBar(ctx, bar)
		if err != nil {
			return nil, fmt.Errorf("strategy %s on bar %s: %w", strat.ID(), bar.Date.Format("2006-01-02"), err)
		}

		if sig != nil {
			tracker.CountSignal(sig.Action)
			if r.allowOrder(tracker, book, sig) {
				orderSeq++
				orderID := fmt.Sprintf("%s-%d", runID[:8], orderSeq)
				if err := r.executeOrder(tracker, book, bar, sig, orderID); err != nil {
					return nil, err
				}
			}
		}

		if err := assets.Record(bar.Date, book.totalAssets(bar.Close)); err != nil {
			return nil, fmt.Errorf("asset snapshot: %w", err)
		}
		observability.RecordAssetSnapshot()
	}

	lastClose := bars[len(bars)-1].Close
	result := &Result{
		Run: domain.BacktestRun{
			RunID:       runID,
			Symbol:      opts.Symbol,
			Market:      opts.Market,
			StrategyID:  strat.ID(),
			StartedAt:   started.UTC(),
			InitialCash: opts.InitialCash,
			FinalAssets: book.totalAssets(lastClose),
		},
		Trades:         trades.Export(),
		Assets:         assets.Export(),
		BuySignals:     tracker.BuySignals(),
		SellSignals:    tracker.SellSignals(),
		BuysExecuted:   tracker.BuysExecuted(),
		SellsExecuted:  tracker.SellsExecuted(),
		CommissionPaid: tracker.CommissionPaid(),
		Closures:       tracker.Closures(),
	}

	observability.RecordRunCompleted(time.Since(started).Seconds())
	r.logger.Info("backtest run complete",
		zap.String("run_id", runID),
		zap.String("symbol", opts.Symbol),
		zap.String("strategy", strat.ID()),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("final_assets", result.Run.FinalAssets))

	return result, nil
}

// allowOrder enforces the sizing policy: one order in flight at a
// time, long-only, sells never exceed the held position. Suppressed
// signals still count toward the signal totals, which is why the
// signal count can exceed the executed count.
func (r *Runner) allowOrder(tracker *strategy.Tracker, book *positionBook, sig *strategy.Signal) bool {
	if tracker.OrderPending() {
		return false
	}
	if sig.Action == domain.ActionSell && book.position < sig.Shares {
		return false
	}
	return true
}

// executeOrder walks one order through the engine notifications:
// Submitted, Accepted, then Completed — or Margin when the fill would
// overdraw cash.
func (r *Runner) executeOrder(tracker *strategy.Tracker, book *positionBook, bar *domain.Bar, sig *strategy.Signal, orderID string) error {
	tracker.NoteSubmitted(orderID)

	base := &domain.OrderEvent{
		OrderID:    orderID,
		Action:     sig.Action,
		SignalType: sig.Type,
		Date:       bar.Date,
	}

	for _, status := range []domain.OrderStatus{domain.OrderSubmitted, domain.OrderAccepted} {
		ev := *base
		ev.Status = status
		if err := tracker.OnOrderEvent(&ev); err != nil {
			return err
		}
	}

	size := sig.Shares
	fillPrice := bar.Close + r.slippageFor(sig.Action, book)
	if sig.Action == domain.ActionSell {
		size = -size
	}

	if sig.Action == domain.ActionBuy && book.cash < float64(sig.Shares)*fillPrice {
		ev := *base
		ev.Status = domain.OrderMargin
		return tracker.OnOrderEvent(&ev)
	}

	before := tracker.CommissionPaid()
	ev := *base
	ev.Status = domain.OrderCompleted
	ev.Size = size
	ev.FillPrice = fillPrice
	if err := tracker.OnOrderEvent(&ev); err != nil {
		return err
	}
	cost := tracker.CommissionPaid() - before

	if closure := book.apply(sig.Action, sig.Shares, fillPrice, cost); closure != nil {
		tracker.OnTradeClosed(closure)
	}
	return nil
}

func (r *Runner) slippageFor(action domain.Action, book *positionBook) float64 {
	if action == domain.ActionBuy {
		return book.slippage
	}
	return -book.slippage
}

// positionBook is the long-only cash/position ledger of one run.
type positionBook struct {
	cash     float64
	position int64
	slippage float64

	// open round-trip accumulators
	entryValue      float64
	entryCommission float64
	exitValue       float64
	exitCommission  float64
}

func newPositionBook(cash float64) *positionBook {
	return &positionBook{cash: cash}
}

func (b *positionBook) totalAssets(price float64) float64 {
	return b.cash + float64(b.position)*price
}

// apply settles a fill against cash and the open position. It returns
// a closure event for sells: partial closes carry IsClosed false, and
// flattening the position entirely reports the round-trip gross and
// net P&L, net of all commission charged on entry and exit fills.
func (b *positionBook) apply(action domain.Action, shares int64, price, cost float64) *domain.TradeCloseEvent {
	value := float64(shares) * price

	if action == domain.ActionBuy {
		b.cash -= value + cost
		b.position += shares
		b.entryValue += value
		b.entryCommission += cost
		return nil
	}

	b.cash += value - cost
	b.position -= shares
	b.exitValue += value
	b.exitCommission += cost

	if b.position > 0 {
		return &domain.TradeCloseEvent{IsClosed: false}
	}

	gross := b.exitValue - b.entryValue
	net := gross - b.entryCommission - b.exitCommission
	closure := &domain.TradeCloseEvent{
		IsClosed: true,
		PnLGross: gross,
		PnLNet:   net,
	}

	b.entryValue, b.entryCommission = 0, 0
	b.exitValue, b.exitCommission = 0, 0
	return closure
}
