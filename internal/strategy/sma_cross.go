package strategy

import (
	"context"
	"fmt"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// Signal reason codes.
const (
	SignalSMACrossUp   = "SMA_CROSS_UP"
	SignalSMACrossDown = "SMA_CROSS_DOWN"
	SignalInitialBuy   = "INITIAL_BUY"
)

// SMACrossStrategy signals a buy when the fast simple moving average
// crosses above the slow one and a sell when it crosses back below.
type SMACrossStrategy struct {
	Fast   int
	Slow   int
	Shares int64

	closes   []float64
	wasAbove bool
	primed   bool
	long     bool
}

// NewSMACrossStrategy creates a crossover strategy trading a fixed
// number of shares per signal.
func NewSMACrossStrategy(fast, slow int, shares int64) *SMACrossStrategy {
	return &SMACrossStrategy{
		Fast:   fast,
		Slow:   slow,
		Shares: shares,
	}
}

// ID implements Strategy.
func (s *SMACrossStrategy) ID() string {
	return fmt.Sprintf("SMA_CROSS_%d_%d", s.Fast, s.Slow)
}

// OnBar implements Strategy.
func (s *SMACrossStrategy) OnBar(_ context.Context, bar *domain.Bar) (*Signal, error) {
	s.closes = append(s.closes, bar.Close)
	if len(s.closes) < s.Slow {
		return nil, nil
	}

	fast := mean(s.closes[len(s.closes)-s.Fast:])
	slow := mean(s.closes[len(s.closes)-s.Slow:])
	above := fast > slow

	// First full window only establishes the relation.
	if !s.primed {
		s.primed = true
		s.wasAbove = above
		return nil, nil
	}

	defer func() { s.wasAbove = above }()

	if above && !s.wasAbove && !s.long {
		s.long = true
		return &Signal{Action: domain.ActionBuy, Type: SignalSMACrossUp, Shares: s.Shares}, nil
	}
	if !above && s.wasAbove && s.long {
		s.long = false
		return &Signal{Action: domain.ActionSell, Type: SignalSMACrossDown, Shares: s.Shares}, nil
	}

	return nil, nil
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
