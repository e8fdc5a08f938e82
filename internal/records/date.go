// Package records accumulates append-only trade and asset-valuation
// logs for the duration of one backtest run.
package records

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a record date is neither a time.Time
// nor a string parseable as a timestamp. This fails fast and is not
// recovered.
var ErrInvalidDate = errors.New("date must be a time.Time or a parseable date string")

// Accepted string layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizeDate converts a record date to a UTC timestamp. A date-only
// string and the equivalent time.Time normalize to the same instant
// (UTC midnight).
func NormalizeDate(date any) (time.Time, error) {
	switch d := date.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidDate, date)
	}
}
