package commission

import (
	"go.uber.org/zap"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// Schedules bundles the per-market parameter sets a Factory hands out.
type Schedules struct {
	HK HKParams
	CN CNParams
	US USParams
}

// DefaultSchedules returns the standard schedules for all markets.
func DefaultSchedules() Schedules {
	return Schedules{
		HK: DefaultHKParams,
		CN: DefaultCNParams,
		US: DefaultUSParams,
	}
}

// Slippage returns the per-share slippage assumption for a market.
// Unknown markets use the HK figure, matching Factory.Get's fallback.
func (s Schedules) Slippage(market domain.Market) float64 {
	switch market {
	case domain.MarketCN:
		return s.CN.Slippage
	case domain.MarketUS:
		return s.US.Slippage
	default:
		return s.HK.Slippage
	}
}

// Factory hands out commission models by market identifier.
type Factory struct {
	logger    *zap.Logger
	schedules Schedules
}

// NewFactory creates a factory over the given schedules. Pass
// zap.NewNop() when warning logs are not wanted.
func NewFactory(logger *zap.Logger, schedules Schedules) *Factory {
	return &Factory{
		logger:    logger,
		schedules: schedules,
	}
}

// Get returns the commission model for a market. Unknown identifiers
// fall back to the Hong Kong model with a logged warning so an
// unrecognized venue never aborts a run.
func (f *Factory) Get(market domain.Market) Model {
	switch market {
	case domain.MarketHK:
		return NewHKModel(f.schedules.HK)
	case domain.MarketCN:
		return NewCNModel(f.schedules.CN)
	case domain.MarketUS:
		return NewUSModel(f.schedules.US)
	default:
		f.logger.Warn("unsupported market, falling back to HK commission model",
			zap.String("market", string(market)))
		return NewHKModel(f.schedules.HK)
	}
}
