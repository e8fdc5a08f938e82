package commission

import "github.com/wearetvxq/stock-quant/internal/domain"

// USParams holds the US equity fee schedule. US pricing is per-share
// rather than proportional to trade value.
type USParams struct {
	CommissionPerShare  float64 // broker commission per share
	MinCommission       float64 // commission floor per order
	MaxCommissionRate   float64 // commission cap as a fraction of trade value
	PlatformPerShare    float64 // trading system fee per share
	MinPlatformFee      float64 // trading system fee floor per order
	MaxPlatformRate     float64 // trading system fee cap as a fraction of trade value
	ActivityFeePerShare float64 // FINRA trading activity fee per share
	MinActivityFee      float64 // activity fee floor per order
	MaxActivityFee      float64 // activity fee cap per order
	AuditFee            float64 // consolidated audit trail fee, fixed per order
	Slippage            float64 // assumed execution slippage per share, used by the backtest driver
	Currency            string
}

// DefaultUSParams is the standard US schedule: 0.0049 USD/share
// commission floored at 0.99 USD and capped at 0.5% of trade value,
// a 0.005 USD/share platform fee with its own floor and cap, an
// activity fee clamped to [0.005, 8.30] USD, and a fixed audit fee.
var DefaultUSParams = USParams{
	CommissionPerShare:  0.0049,
	MinCommission:       0.99,
	MaxCommissionRate:   0.005,
	PlatformPerShare:    0.005,
	MinPlatformFee:      1,
	MaxPlatformRate:     0.005,
	ActivityFeePerShare: 0.000166,
	MinActivityFee:      0.005,
	MaxActivityFee:      8.30,
	AuditFee:            0.0000265,
	Slippage:            0.3,
	Currency:            "USD",
}

// USModel computes US transaction costs.
type USModel struct {
	params USParams
}

// NewUSModel creates a US commission model.
func NewUSModel(params USParams) *USModel {
	return &USModel{params: params}
}

// Market implements Model.
func (m *USModel) Market() domain.Market { return domain.MarketUS }

// Currency implements Model.
func (m *USModel) Currency() string { return m.params.Currency }

// Calculate implements Model.
func (m *USModel) Calculate(size int64, price float64) float64 {
	return m.Breakdown(size, price).Total
}

// Breakdown implements Model. Four components: per-share commission
// with floor and value cap, per-share platform fee with floor and
// value cap, per-share activity fee clamped to [min, max], and a fixed
// audit fee per order. The floors take precedence when a tiny trade
// would satisfy both a floor and a cap.
func (m *USModel) Breakdown(size int64, price float64) Breakdown {
	shares := abs(size)
	value := tradeValue(size, price)
	p := m.params

	var b Breakdown

	b.Commission = shares * p.CommissionPerShare
	if b.Commission < p.MinCommission {
		b.Commission = p.MinCommission
	} else if b.Commission > value*p.MaxCommissionRate {
		b.Commission = value * p.MaxCommissionRate
	}

	b.TradingSystemFee = shares * p.PlatformPerShare
	if b.TradingSystemFee < p.MinPlatformFee {
		b.TradingSystemFee = p.MinPlatformFee
	} else if b.TradingSystemFee > value*p.MaxPlatformRate {
		b.TradingSystemFee = value * p.MaxPlatformRate
	}

	b.SettlementFee = clamp(shares*p.ActivityFeePerShare, p.MinActivityFee, p.MaxActivityFee)
	b.AuditFee = p.AuditFee

	b.Total = b.Commission + b.TradingSystemFee + b.SettlementFee + b.AuditFee
	return b
}
