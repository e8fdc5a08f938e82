package strategy

import (
	"context"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// BuyHoldStrategy buys once on the first bar and holds for the rest of
// the run. Useful as a benchmark against active strategies.
type BuyHoldStrategy struct {
	Shares int64

	bought bool
}

// NewBuyHoldStrategy creates a buy-and-hold benchmark strategy.
func NewBuyHoldStrategy(shares int64) *BuyHoldStrategy {
	return &BuyHoldStrategy{Shares: shares}
}

// ID implements Strategy.
func (s *BuyHoldStrategy) ID() string { return "BUY_HOLD" }

// OnBar implements Strategy.
func (s *BuyHoldStrategy) OnBar(_ context.Context, _ *domain.Bar) (*Signal, error) {
	if s.bought {
		return nil, nil
	}
	s.bought = true
	return &Signal{Action: domain.ActionBuy, Type: SignalInitialBuy, Shares: s.Shares}, nil
}
