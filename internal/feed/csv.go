// Package feed reads historical market quotes for replay. The engine
// itself does no I/O; the backtest driver pulls quotes from here and
// feeds them in.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// CSV column layout. The two ladder columns are optional; when present
// they hold semicolon-separated price@volume pairs from the inside of
// the book outward, e.g. "49990@3;49985@7".
var columns = []string{
	"timestamp", "symbol", "venue",
	"last_price", "last_volume",
	"bid_price", "bid_volume", "ask_price", "ask_volume",
	"bid_ladder", "ask_ladder",
}

const requiredColumns = 9

// QuoteReader streams quotes from a CSV file in file order. Files must
// already be sorted by timestamp; the engine rejects nothing here, it
// simply mis-estimates queue waits for out-of-order input.
type QuoteReader struct {
	file   *os.File
	reader *csv.Reader
	line   int
}

// OpenQuoteCSV opens a quote-history file and consumes its header.
func OpenQuoteCSV(path string) (*QuoteReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote file: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read quote header: %w", err)
	}
	for i := 0; i < requiredColumns; i++ {
		if i >= len(header) || header[i] != columns[i] {
			f.Close()
			return nil, fmt.Errorf("quote header: expected column %d to be %q", i, columns[i])
		}
	}

	return &QuoteReader{file: f, reader: r, line: 1}, nil
}

// Next returns the next quote, or io.EOF when the file is exhausted.
func (r *QuoteReader) Next() (*types.Quote, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("quote line %d: %w", r.line+1, err)
	}
	r.line++

	if len(record) < requiredColumns {
		return nil, fmt.Errorf("quote line %d: %d columns, need %d", r.line, len(record), requiredColumns)
	}

	ts, err := time.Parse(time.RFC3339Nano, record[0])
	if err != nil {
		return nil, fmt.Errorf("quote line %d: bad timestamp: %w", r.line, err)
	}

	q := &types.Quote{
		Symbol:    record[1],
		Venue:     record[2],
		Timestamp: ts,
	}

	for _, field := range []struct {
		dst *decimal.Decimal
		idx int
	}{
		{&q.LastPrice, 3}, {&q.LastVolume, 4},
		{&q.BidPrice, 5}, {&q.BidVolume, 6},
		{&q.AskPrice, 7}, {&q.AskVolume, 8},
	} {
		d, err := decimal.NewFromString(record[field.idx])
		if err != nil {
			return nil, fmt.Errorf("quote line %d: column %s: %w", r.line, columns[field.idx], err)
		}
		*field.dst = d
	}

	if len(record) > 9 && record[9] != "" {
		if q.BidLevels, err = parseLadder(record[9]); err != nil {
			return nil, fmt.Errorf("quote line %d: bid ladder: %w", r.line, err)
		}
	}
	if len(record) > 10 && record[10] != "" {
		if q.AskLevels, err = parseLadder(record[10]); err != nil {
			return nil, fmt.Errorf("quote line %d: ask ladder: %w", r.line, err)
		}
	}

	return q, nil
}

// Close releases the underlying file.
func (r *QuoteReader) Close() error {
	return r.file.Close()
}

func parseLadder(s string) ([]types.PriceLevel, error) {
	parts := strings.Split(s, ";")
	levels := make([]types.PriceLevel, 0, len(parts))
	for _, part := range parts {
		pv := strings.SplitN(part, "@", 2)
		if len(pv) != 2 {
			return nil, fmt.Errorf("bad level %q, want price@volume", part)
		}
		price, err := decimal.NewFromString(pv[0])
		if err != nil {
			return nil, fmt.Errorf("bad level price %q: %w", pv[0], err)
		}
		volume, err := decimal.NewFromString(pv[1])
		if err != nil {
			return nil, fmt.Errorf("bad level volume %q: %w", pv[1], err)
		}
		levels = append(levels, types.PriceLevel{Price: price, Volume: volume})
	}
	return levels, nil
}
