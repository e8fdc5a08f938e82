package strategy

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/observability"
	"github.com/wearetvxq/stock-quant/internal/records"
)

// Tracker follows the order lifecycle of a single strategy run:
// PendingSubmit -> Submitted/Accepted -> Completed | Canceled | Margin | Rejected.
// Completed fills append a trade record, charge commission through the
// market's model, and bump the per-direction executed counters.
// Terminal failures only clear the pending-order reference so the next
// order can be submitted. All bookkeeping is single-threaded: the
// execution engine delivers events synchronously within a tick.
type Tracker struct {
	logger *zap.Logger
	model  commission.Model
	trades *records.TradeRecordManager

	pendingOrderID string

	buySignals    int
	sellSignals   int
	buysExecuted  int
	sellsExecuted int

	commissionPaid float64
	closures       []domain.TradeCloseEvent
}

// NewTracker creates a tracker charging fees through the given model
// and appending fills to the given trade log.
func NewTracker(logger *zap.Logger, model commission.Model, trades *records.TradeRecordManager) *Tracker {
	return &Tracker{
		logger: logger,
		model:  model,
		trades: trades,
	}
}

// CountSignal registers that the strategy emitted a signal, whether or
// not it results in an order. Signal count >= executed count always
// holds.
func (t *Tracker) CountSignal(action domain.Action) {
	switch action {
	case domain.ActionBuy:
		t.buySignals++
	case domain.ActionSell:
		t.sellSignals++
	}
	observability.RecordSignal(string(action))
}

// OrderPending reports whether an order is still in flight. The driver
// submits at most one order at a time.
func (t *Tracker) OrderPending() bool {
	return t.pendingOrderID != ""
}

// NoteSubmitted records a newly submitted order as pending.
func (t *Tracker) NoteSubmitted(orderID string) {
	t.pendingOrderID = orderID
	observability.RecordOrderSubmitted()
}

// OnOrderEvent is the single entry point for order-state
// notifications. Non-terminal states are no-ops. Returns an error only
// when appending the fill record fails (invalid fill date).
func (t *Tracker) OnOrderEvent(ev *domain.OrderEvent) error {
	switch ev.Status {
	case domain.OrderSubmitted, domain.OrderAccepted:
		return nil

	case domain.OrderCompleted:
		return t.onCompleted(ev)

	case domain.OrderCanceled, domain.OrderMargin, domain.OrderRejected:
		t.logger.Info("order did not execute",
			zap.String("order_id", ev.OrderID),
			zap.String("status", string(ev.Status)))
		t.pendingOrderID = ""
		observability.RecordOrderTerminal(string(ev.Status))
		return nil

	default:
		t.logger.Warn("ignoring unrecognized order status",
			zap.String("order_id", ev.OrderID),
			zap.String("status", string(ev.Status)))
		return nil
	}
}

func (t *Tracker) onCompleted(ev *domain.OrderEvent) error {
	shares := ev.Size
	if shares < 0 {
		shares = -shares
	}

	if err := t.trades.Record(ev.Date, ev.Action, ev.SignalType, shares); err != nil {
		return fmt.Errorf("record fill: %w", err)
	}

	cost := t.model.Calculate(ev.Size, ev.FillPrice)
	t.commissionPaid += cost

	t.logger.Info("order filled",
		zap.String("order_id", ev.OrderID),
		zap.String("action", string(ev.Action)),
		zap.Int64("shares", shares),
		zap.Float64("price", ev.FillPrice),
		zap.Float64("commission", cost),
		zap.String("currency", t.model.Currency()))

	// Cross-validate against the engine's own commission figure when
	// one is supplied.
	if ev.BrokerCommission != nil && math.Abs(*ev.BrokerCommission-cost) > 1e-6 {
		t.logger.Warn("commission mismatch against broker figure",
			zap.Float64("computed", cost),
			zap.Float64("broker", *ev.BrokerCommission))
	}

	switch ev.Action {
	case domain.ActionBuy:
		t.buysExecuted++
	case domain.ActionSell:
		t.sellsExecuted++
	}

	t.pendingOrderID = ""
	observability.RecordOrderFilled(string(ev.Action))
	observability.RecordCommission(string(t.model.Market()), cost)
	return nil
}

// OnTradeClosed receives round-trip closure notifications. Partial
// closes (IsClosed false) are ignored; full closures are logged with
// gross and net P&L, where net already includes the commission charged
// on both the entry and exit fills.
func (t *Tracker) OnTradeClosed(ev *domain.TradeCloseEvent) {
	if !ev.IsClosed {
		return
	}

	t.closures = append(t.closures, *ev)
	t.logger.Info("position closed",
		zap.Float64("pnl_gross", ev.PnLGross),
		zap.Float64("pnl_net", ev.PnLNet))
	observability.RecordTradeClosed(ev.PnLNet > 0)
}

// BuySignals returns the number of buy signals seen.
func (t *Tracker) BuySignals() int { return t.buySignals }

// SellSignals returns the number of sell signals seen.
func (t *Tracker) SellSignals() int { return t.sellSignals }

// BuysExecuted returns the number of completed buy orders.
func (t *Tracker) BuysExecuted() int { return t.buysExecuted }

// SellsExecuted returns the number of completed sell orders.
func (t *Tracker) SellsExecuted() int { return t.sellsExecuted }

// CommissionPaid returns the total transaction cost charged so far.
func (t *Tracker) CommissionPaid() float64 { return t.commissionPaid }

// Closures returns the full-closure notifications seen so far.
func (t *Tracker) Closures() []domain.TradeCloseEvent {
	out := make([]domain.TradeCloseEvent, len(t.closures))
	copy(out, t.closures)
	return out
}
