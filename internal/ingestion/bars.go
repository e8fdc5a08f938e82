// Package ingestion loads daily price bars from external sources and
// enforces the ordering the backtest runner depends on.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

// ErrInvalidOrdering is returned when bars are not strictly increasing
// by date.
var ErrInvalidOrdering = errors.New("bars are not in strictly increasing date order")

// BarSource provides daily bars for a symbol. Bars may be unordered;
// callers enforce deterministic ordering before use.
type BarSource interface {
	Fetch(ctx context.Context, symbol string) ([]*domain.Bar, error)
}

// SortBars orders bars by date ascending.
func SortBars(bars []*domain.Bar) {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
}

// ValidateBarOrdering checks that bars are strictly increasing by date.
// Duplicate dates are rejected.
func ValidateBarOrdering(bars []*domain.Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			return fmt.Errorf("%w: %s then %s",
				ErrInvalidOrdering,
				bars[i-1].Date.Format("2006-01-02"),
				bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// LoadBars fetches bars from the source, sorts them, and validates the
// result. It is the single entry point the pipeline uses.
func LoadBars(ctx context.Context, source BarSource, symbol string) ([]*domain.Bar, error) {
	bars, err := source.Fetch(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for symbol %s", symbol)
	}
	SortBars(bars)
	if err := ValidateBarOrdering(bars); err != nil {
		return nil, err
	}
	return bars, nil
}
