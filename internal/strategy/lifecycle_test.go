package strategy

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/records"
)

func newTestTracker() (*Tracker, *records.TradeRecordManager) {
	trades := records.NewTradeRecordManager("run-1")
	model := commission.NewHKModel(commission.DefaultHKParams)
	return NewTracker(zap.NewNop(), model, trades), trades
}

func fillEvent(action domain.Action, size int64, price float64) *domain.OrderEvent {
	return &domain.OrderEvent{
		OrderID:    "ord-1",
		Status:     domain.OrderCompleted,
		Action:     action,
		SignalType: SignalSMACrossUp,
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Size:       size,
		FillPrice:  price,
	}
}

func TestTracker_CompletedFillRecordsTradeAndCommission(t *testing.T) {
	tracker, trades := newTestTracker()
	tracker.NoteSubmitted("ord-1")

	if err := tracker.OnOrderEvent(fillEvent(domain.ActionBuy, 200, 100.0)); err != nil {
		t.Fatalf("OnOrderEvent failed: %v", err)
	}

	if trades.Len() != 1 {
		t.Fatalf("trade records = %d, want 1", trades.Len())
	}
	rec := trades.Export()[0]
	if rec.Action != domain.ActionBuy || rec.Shares != 200 {
		t.Errorf("record = %+v, want BUY of 200", rec)
	}

	// HK 200 @ 100.00 costs exactly 44.97
	if math.Abs(tracker.CommissionPaid()-44.97) > 1e-9 {
		t.Errorf("commission paid = %v, want 44.97", tracker.CommissionPaid())
	}

	if tracker.BuysExecuted() != 1 || tracker.SellsExecuted() != 0 {
		t.Errorf("executed counters = %d/%d, want 1/0", tracker.BuysExecuted(), tracker.SellsExecuted())
	}
	if tracker.OrderPending() {
		t.Error("pending order not cleared after fill")
	}
}

func TestTracker_SellFillUsesSignedSize(t *testing.T) {
	tracker, trades := newTestTracker()
	tracker.NoteSubmitted("ord-1")

	if err := tracker.OnOrderEvent(fillEvent(domain.ActionSell, -200, 100.0)); err != nil {
		t.Fatalf("OnOrderEvent failed: %v", err)
	}

	rec := trades.Export()[0]
	if rec.Shares != 200 {
		t.Errorf("recorded shares = %d, want 200 (magnitude)", rec.Shares)
	}
	// Fee depends on |size| only
	if math.Abs(tracker.CommissionPaid()-44.97) > 1e-9 {
		t.Errorf("commission paid = %v, want 44.97", tracker.CommissionPaid())
	}
	if tracker.SellsExecuted() != 1 {
		t.Errorf("sells executed = %d, want 1", tracker.SellsExecuted())
	}
}

func TestTracker_NonTerminalStatesAreNoOps(t *testing.T) {
	tracker, trades := newTestTracker()
	tracker.NoteSubmitted("ord-1")

	for _, status := range []domain.OrderStatus{domain.OrderSubmitted, domain.OrderAccepted} {
		ev := &domain.OrderEvent{OrderID: "ord-1", Status: status}
		if err := tracker.OnOrderEvent(ev); err != nil {
			t.Fatalf("OnOrderEvent(%s) failed: %v", status, err)
		}
	}

	if trades.Len() != 0 {
		t.Error("non-terminal states must not append records")
	}
	if !tracker.OrderPending() {
		t.Error("non-terminal states must not clear the pending order")
	}
}

func TestTracker_FailedTerminalStatesClearPendingOnly(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderCanceled, domain.OrderMargin, domain.OrderRejected} {
		tracker, trades := newTestTracker()
		tracker.NoteSubmitted("ord-1")

		ev := &domain.OrderEvent{OrderID: "ord-1", Status: status}
		if err := tracker.OnOrderEvent(ev); err != nil {
			t.Fatalf("OnOrderEvent(%s) failed: %v", status, err)
		}

		if trades.Len() != 0 {
			t.Errorf("%s produced a trade record", status)
		}
		if tracker.OrderPending() {
			t.Errorf("%s did not clear the pending order", status)
		}
		if tracker.BuysExecuted()+tracker.SellsExecuted() != 0 {
			t.Errorf("%s bumped executed counters", status)
		}
	}
}

func TestTracker_SignalCountAtLeastExecutedCount(t *testing.T) {
	tracker, _ := newTestTracker()

	// Three buy signals, but only one becomes an order that fills
	// (e.g. position limits suppressed the others).
	tracker.CountSignal(domain.ActionBuy)
	tracker.CountSignal(domain.ActionBuy)
	tracker.CountSignal(domain.ActionBuy)

	tracker.NoteSubmitted("ord-1")
	if err := tracker.OnOrderEvent(fillEvent(domain.ActionBuy, 100, 50)); err != nil {
		t.Fatalf("OnOrderEvent failed: %v", err)
	}

	if tracker.BuySignals() < tracker.BuysExecuted() {
		t.Errorf("signals %d < executed %d", tracker.BuySignals(), tracker.BuysExecuted())
	}
	if tracker.BuySignals() != 3 || tracker.BuysExecuted() != 1 {
		t.Errorf("counters = %d/%d, want 3/1", tracker.BuySignals(), tracker.BuysExecuted())
	}
}

func TestTracker_TradeClosedOnlyOnFullClosure(t *testing.T) {
	tracker, _ := newTestTracker()

	tracker.OnTradeClosed(&domain.TradeCloseEvent{IsClosed: false, PnLGross: 10, PnLNet: 5})
	if len(tracker.Closures()) != 0 {
		t.Error("partial close must not fire a closure")
	}

	tracker.OnTradeClosed(&domain.TradeCloseEvent{IsClosed: true, PnLGross: 120.5, PnLNet: 30.56})
	closures := tracker.Closures()
	if len(closures) != 1 {
		t.Fatalf("closures = %d, want 1", len(closures))
	}
	if closures[0].PnLGross != 120.5 || closures[0].PnLNet != 30.56 {
		t.Errorf("closure = %+v", closures[0])
	}
}

func TestTracker_BrokerCommissionMismatchLogsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	trades := records.NewTradeRecordManager("run-1")
	model := commission.NewHKModel(commission.DefaultHKParams)
	tracker := NewTracker(zap.New(core), model, trades)

	broker := 40.0 // ours is 44.97
	ev := fillEvent(domain.ActionBuy, 200, 100.0)
	ev.BrokerCommission = &broker

	if err := tracker.OnOrderEvent(ev); err != nil {
		t.Fatalf("OnOrderEvent failed: %v", err)
	}

	found := false
	for _, entry := range logs.All() {
		if entry.Message == "commission mismatch against broker figure" {
			found = true
		}
	}
	if !found {
		t.Error("expected a mismatch warning")
	}
}
