// Package strategy holds trading strategies and the order-lifecycle
// bookkeeping that surrounds their execution.
package strategy

import (
	"context"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// Signal is a strategy's request to trade. Shares is always positive;
// direction is carried by Action. A signal does not necessarily become
// an order: position and cash constraints in the driver may suppress
// it, which is why signal counters and execution counters are tracked
// separately.
type Signal struct {
	Action domain.Action
	Type   string // reason code, recorded on the resulting fill
	Shares int64
}

// Strategy produces trade signals from price bars.
type Strategy interface {
	// OnBar is called once per trading period, in order.
	// Returns a signal or nil if no action.
	OnBar(ctx context.Context, bar *domain.Bar) (*Signal, error)

	// ID returns the strategy identifier (includes parameters).
	ID() string
}
