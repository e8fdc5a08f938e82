package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

func barOn(day int, close float64) *domain.Bar {
	return &domain.Bar{
		Symbol: "00700",
		Date:   time.Date(2024, 1, 1+day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Volume: 1000,
	}
}

func TestSortBarsOrdersByDate(t *testing.T) {
	bars := []*domain.Bar{barOn(2, 12), barOn(0, 10), barOn(1, 11)}
	SortBars(bars)
	for i, want := range []float64{10, 11, 12} {
		if bars[i].Close != want {
			t.Fatalf("bars[%d].Close = %v, want %v", i, bars[i].Close, want)
		}
	}
}

func TestValidateBarOrdering(t *testing.T) {
	if err := ValidateBarOrdering([]*domain.Bar{barOn(0, 10), barOn(1, 11)}); err != nil {
		t.Fatalf("ordered bars rejected: %v", err)
	}
	err := ValidateBarOrdering([]*domain.Bar{barOn(1, 11), barOn(0, 10)})
	if !errors.Is(err, ErrInvalidOrdering) {
		t.Fatalf("expected ErrInvalidOrdering, got %v", err)
	}
	// duplicate dates are rejected too
	err = ValidateBarOrdering([]*domain.Bar{barOn(0, 10), barOn(0, 10)})
	if !errors.Is(err, ErrInvalidOrdering) {
		t.Fatalf("expected ErrInvalidOrdering for duplicate dates, got %v", err)
	}
}

type sliceSource struct {
	bars []*domain.Bar
	err  error
}

func (s *sliceSource) Fetch(context.Context, string) ([]*domain.Bar, error) {
	return s.bars, s.err
}

func TestLoadBarsSortsAndValidates(t *testing.T) {
	src := &sliceSource{bars: []*domain.Bar{barOn(1, 11), barOn(0, 10)}}
	bars, err := LoadBars(context.Background(), src, "00700")
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 10 {
		t.Fatalf("bars not sorted: %+v", bars)
	}
}

func TestLoadBarsEmptyFails(t *testing.T) {
	if _, err := LoadBars(context.Background(), &sliceSource{}, "00700"); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestLoadBarsDuplicateDateFails(t *testing.T) {
	src := &sliceSource{bars: []*domain.Bar{barOn(0, 10), barOn(0, 11)}}
	if _, err := LoadBars(context.Background(), src, "00700"); !errors.Is(err, ErrInvalidOrdering) {
		t.Fatalf("expected ErrInvalidOrdering, got %v", err)
	}
}

func writeBarsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bars file: %v", err)
	}
	return path
}

func TestCSVBarSourceFetch(t *testing.T) {
	path := writeBarsFile(t, `symbol,date,open,high,low,close,volume
00700,2024-01-02,101,103,100,102,5000
00700,2024-01-01,100,102,99,101,4000
AAPL,2024-01-01,190,191,189,190.5,9000
`)
	bars, err := NewCSVBarSource(path).Fetch(context.Background(), "00700")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars for 00700, got %d", len(bars))
	}
	if bars[0].Close != 102 || bars[0].Volume != 5000 {
		t.Fatalf("first row parsed wrong: %+v", bars[0])
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !bars[0].Date.Equal(want) {
		t.Fatalf("date = %v, want %v", bars[0].Date, want)
	}
}

func TestCSVBarSourceBadHeader(t *testing.T) {
	path := writeBarsFile(t, "ticker,when,o,h,l,c,v\n")
	if _, err := NewCSVBarSource(path).Fetch(context.Background(), "00700"); !errors.Is(err, ErrBadBarRow) {
		t.Fatalf("expected ErrBadBarRow, got %v", err)
	}
}

func TestCSVBarSourceBadRows(t *testing.T) {
	cases := map[string]string{
		"bad date":      "00700,not-a-date,100,102,99,101,4000",
		"bad price":     "00700,2024-01-01,abc,102,99,101,4000",
		"zero price":    "00700,2024-01-01,0,102,99,101,4000",
		"bad volume":    "00700,2024-01-01,100,102,99,101,-5",
		"volume string": "00700,2024-01-01,100,102,99,101,many",
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeBarsFile(t, "symbol,date,open,high,low,close,volume\n"+row+"\n")
			if _, err := NewCSVBarSource(path).Fetch(context.Background(), "00700"); !errors.Is(err, ErrBadBarRow) {
				t.Fatalf("expected ErrBadBarRow, got %v", err)
			}
		})
	}
}

func TestCSVBarSourceThroughLoadBars(t *testing.T) {
	path := writeBarsFile(t, `symbol,date,open,high,low,close,volume
00700,2024-01-03,103,104,102,103,6000
00700,2024-01-01,100,102,99,101,4000
00700,2024-01-02,101,103,100,102,5000
`)
	bars, err := LoadBars(context.Background(), NewCSVBarSource(path), "00700")
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(bars) != 3 || bars[0].Close != 101 || bars[2].Close != 103 {
		t.Fatalf("bars wrong after load: %+v", bars)
	}
}
