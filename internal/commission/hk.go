package commission

import "github.com/wearetvxq/stock-quant/internal/domain"

// HKParams holds the Hong Kong fee schedule. Built once at startup,
// immutable thereafter.
type HKParams struct {
	Rate             float64 // commission rate on trade value
	MinCommission    float64 // commission floor per order
	StampDuty        float64 // stamp duty rate
	TransactionLevy  float64 // SFC transaction levy rate
	TransactionFee   float64 // HKEX trading fee rate
	TradingSystemFee float64 // fixed platform fee per order
	SettlementRate   float64 // CCASS stock settlement rate
	MinSettlementFee float64 // settlement fee floor per order
	MaxSettlementFee float64 // settlement fee cap per order
	Slippage         float64 // assumed execution slippage per share, used by the backtest driver
	Currency         string
}

// DefaultHKParams is the standard Hong Kong schedule: 0.03% commission
// with a 3 HKD floor, 0.1% stamp duty, 0.0042% levy, 0.00565% trading
// fee, 15 HKD per order system fee, and a 0.002% settlement fee clamped
// to [2, 100] HKD.
var DefaultHKParams = HKParams{
	Rate:             0.0003,
	MinCommission:    3,
	StampDuty:        0.001,
	TransactionLevy:  0.000042,
	TransactionFee:   0.0000565,
	TradingSystemFee: 15,
	SettlementRate:   0.00002,
	MinSettlementFee: 2,
	MaxSettlementFee: 100,
	Slippage:         0.3,
	Currency:         "HKD",
}

// HKModel computes Hong Kong transaction costs.
type HKModel struct {
	params HKParams
}

// NewHKModel creates a Hong Kong commission model.
func NewHKModel(params HKParams) *HKModel {
	return &HKModel{params: params}
}

// Market implements Model.
func (m *HKModel) Market() domain.Market { return domain.MarketHK }

// Currency implements Model.
func (m *HKModel) Currency() string { return m.params.Currency }

// Calculate implements Model.
func (m *HKModel) Calculate(size int64, price float64) float64 {
	return m.Breakdown(size, price).Total
}

// Breakdown implements Model. Six components: floored commission,
// stamp duty, transaction levy, transaction fee, fixed trading-system
// fee, and a settlement fee clamped to [min, max].
func (m *HKModel) Breakdown(size int64, price float64) Breakdown {
	value := tradeValue(size, price)
	p := m.params

	b := Breakdown{
		StampDuty:        value * p.StampDuty,
		TransactionLevy:  value * p.TransactionLevy,
		TransactionFee:   value * p.TransactionFee,
		TradingSystemFee: p.TradingSystemFee,
	}

	b.Commission = value * p.Rate
	if b.Commission < p.MinCommission {
		b.Commission = p.MinCommission
	}

	b.SettlementFee = clamp(value*p.SettlementRate, p.MinSettlementFee, p.MaxSettlementFee)

	b.Total = b.Commission + b.StampDuty + b.TransactionLevy + b.TransactionFee +
		b.TradingSystemFee + b.SettlementFee
	return b
}
