package domain

import "time"

// Bar is one OHLCV trading period for a single symbol.
type Bar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
