package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/records"
)

// ErrBadBarRow is returned when a CSV row cannot be parsed into a bar.
var ErrBadBarRow = errors.New("malformed bar row")

// csvHeader is the required column order.
var csvHeader = []string{"symbol", "date", "open", "high", "low", "close", "volume"}

// CSVBarSource reads bars from a CSV file with the header
// symbol,date,open,high,low,close,volume. Dates accept the same
// layouts the record managers accept.
type CSVBarSource struct {
	path string
}

// NewCSVBarSource creates a source backed by the given file.
func NewCSVBarSource(path string) *CSVBarSource {
	return &CSVBarSource{path: path}
}

// Fetch reads every row for the given symbol. Rows for other symbols
// are skipped so one file can hold several instruments.
func (s *CSVBarSource) Fetch(_ context.Context, symbol string) ([]*domain.Bar, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read bars header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var bars []*domain.Bar
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read bars row %d: %w", line, err)
		}
		if row[0] != symbol {
			continue
		}
		bar, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("%w: expected header %s", ErrBadBarRow, strings.Join(csvHeader, ","))
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadBarRow, i, header[i], want)
		}
	}
	return nil
}

func parseBarRow(row []string) (*domain.Bar, error) {
	date, err := records.NormalizeDate(row[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBarRow, err)
	}

	prices := make([]float64, 4)
	for i, name := range []string{"open", "high", "low", "close"} {
		v, err := strconv.ParseFloat(row[2+i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s %q", ErrBadBarRow, name, row[2+i])
		}
		if v <= 0 {
			return nil, fmt.Errorf("%w: %s must be positive, got %s", ErrBadBarRow, name, row[2+i])
		}
		prices[i] = v
	}

	volume, err := strconv.ParseInt(row[6], 10, 64)
	if err != nil || volume < 0 {
		return nil, fmt.Errorf("%w: bad volume %q", ErrBadBarRow, row[6])
	}

	return &domain.Bar{
		Symbol: row[0],
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}
