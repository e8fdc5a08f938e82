package domain

// Market identifies the exchange venue a schedule of transaction
// costs applies to. Identifiers are case-sensitive.
type Market string

// Supported markets.
const (
	MarketHK Market = "HK" // Hong Kong Stock Exchange
	MarketCN Market = "CN" // mainland China A-shares
	MarketUS Market = "US" // US equities
)

// Known reports whether m is one of the supported markets.
// Unknown markets are not an error at the commission layer; the
// factory falls back to the HK schedule and logs a warning.
func (m Market) Known() bool {
	switch m {
	case MarketHK, MarketCN, MarketUS:
		return true
	default:
		return false
	}
}
