package domain

import "time"

// Action represents a trade direction.
type Action string

// Action constants.
const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// OrderStatus is the state of an order as reported by the execution
// engine. The lifecycle is
// PendingSubmit -> Submitted/Accepted -> Completed | Canceled | Margin | Rejected.
type OrderStatus string

// Order status constants.
const (
	OrderPendingSubmit OrderStatus = "PENDING_SUBMIT"
	OrderSubmitted     OrderStatus = "SUBMITTED"
	OrderAccepted      OrderStatus = "ACCEPTED"
	OrderCompleted     OrderStatus = "COMPLETED"
	OrderCanceled      OrderStatus = "CANCELED"
	OrderMargin        OrderStatus = "MARGIN"
	OrderRejected      OrderStatus = "REJECTED"
)

// Terminal reports whether the status ends an order's lifecycle.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderCompleted, OrderCanceled, OrderMargin, OrderRejected:
		return true
	default:
		return false
	}
}

// OrderEvent is a single order-state notification from the execution
// engine. Size is signed: positive for buys, negative for sells.
// Date, FillPrice and Size are meaningful only for Completed events.
// BrokerCommission, when present, is the engine's own commission figure
// and is used for cross-validation logging only.
type OrderEvent struct {
	OrderID          string
	Status           OrderStatus
	Action           Action
	SignalType       string
	Date             time.Time
	Size             int64
	FillPrice        float64
	BrokerCommission *float64
}

// TradeCloseEvent is a round-trip closure notification. It fires only
// when a position has been fully flattened, never on partial closes.
// PnLNet already reflects every commission component charged across the
// entry and exit fills.
type TradeCloseEvent struct {
	IsClosed bool
	PnLGross float64
	PnLNet   float64
}
