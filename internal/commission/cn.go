package commission

import "github.com/wearetvxq/stock-quant/internal/domain"

// CNParams holds the mainland China A-share fee schedule.
type CNParams struct {
	Rate             float64 // commission rate on trade value
	MinCommission    float64 // commission floor per order
	StampDuty        float64 // stamp duty rate, levied on sells only so halved per side
	TransactionLevy  float64 // exchange handling fee rate
	TransactionFee   float64 // CSRC regulatory fee rate
	TradingSystemFee float64 // fixed platform fee per order
	SettlementRate   float64 // transfer fee rate, no floor or cap
	Slippage         float64 // assumed execution slippage per share, used by the backtest driver
	Currency         string
}

// DefaultCNParams is the standard A-share schedule. The settlement fee
// is proportional only: mainland transfer fees carry no floor or cap.
var DefaultCNParams = CNParams{
	Rate:             0.0003,
	MinCommission:    3,
	StampDuty:        0.00025,
	TransactionLevy:  0.0000341,
	TransactionFee:   0.00002,
	TradingSystemFee: 15,
	SettlementRate:   0.00002,
	Slippage:         0.3,
	Currency:         "CNY",
}

// CNModel computes mainland China transaction costs. Same structural
// shape as HKModel but without clamping on the settlement fee.
type CNModel struct {
	params CNParams
}

// NewCNModel creates an A-share commission model.
func NewCNModel(params CNParams) *CNModel {
	return &CNModel{params: params}
}

// Market implements Model.
func (m *CNModel) Market() domain.Market { return domain.MarketCN }

// Currency implements Model.
func (m *CNModel) Currency() string { return m.params.Currency }

// Calculate implements Model.
func (m *CNModel) Calculate(size int64, price float64) float64 {
	return m.Breakdown(size, price).Total
}

// Breakdown implements Model.
func (m *CNModel) Breakdown(size int64, price float64) Breakdown {
	value := tradeValue(size, price)
	p := m.params

	b := Breakdown{
		StampDuty:        value * p.StampDuty,
		TransactionLevy:  value * p.TransactionLevy,
		TransactionFee:   value * p.TransactionFee,
		TradingSystemFee: p.TradingSystemFee,
		SettlementFee:    value * p.SettlementRate,
	}

	b.Commission = value * p.Rate
	if b.Commission < p.MinCommission {
		b.Commission = p.MinCommission
	}

	b.Total = b.Commission + b.StampDuty + b.TransactionLevy + b.TransactionFee +
		b.TradingSystemFee + b.SettlementFee
	return b
}
