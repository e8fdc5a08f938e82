// Package commission implements per-market transaction cost models for
// Hong Kong, mainland China and US equities, with tiered and capped fee
// schedules.
package commission

import "github.com/wearetvxq/stock-quant/internal/domain"

// Model computes the total transaction cost of a filled trade in the
// market's own currency. Size is signed (positive buy, negative sell);
// every component depends on |size| only, so a buy and a sell of the
// same magnitude cost the same. Rates are fractions (0.0003 = 0.03%).
// No rounding is applied inside the model; rounding, if any, happens at
// reporting time.
type Model interface {
	// Market returns the market identifier this schedule belongs to.
	Market() domain.Market

	// Currency returns the ISO code the fees are denominated in.
	Currency() string

	// Calculate returns the sum of all applicable fee components.
	// Always non-negative, and monotonically non-decreasing in
	// |size|*price beyond the minimum-fee floors.
	Calculate(size int64, price float64) float64

	// Breakdown returns the individual fee components of a trade.
	Breakdown(size int64, price float64) Breakdown
}

// Breakdown itemizes the cost of one fill. Components that do not
// apply to a market are zero. Total is always the sum of the others.
type Breakdown struct {
	Commission       float64 `json:"commission"`         // broker commission after floor/cap
	StampDuty        float64 `json:"stamp_duty"`         // government transaction tax (HK/CN)
	TransactionLevy  float64 `json:"transaction_levy"`   // regulator levy (HK/CN)
	TransactionFee   float64 `json:"transaction_fee"`    // exchange transaction fee (HK/CN)
	TradingSystemFee float64 `json:"trading_system_fee"` // platform fee: fixed per order (HK/CN), per-share with floor/cap (US)
	SettlementFee    float64 `json:"settlement_fee"`     // clearing fee; clamped for HK, unclamped for CN, activity fee for US
	AuditFee         float64 `json:"audit_fee"`          // consolidated audit trail fee, US only
	Total            float64 `json:"total"`
}

// tradeValue is the gross consideration of a fill.
func tradeValue(size int64, price float64) float64 {
	return abs(size) * price
}

func abs(size int64) float64 {
	if size < 0 {
		return float64(-size)
	}
	return float64(size)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
