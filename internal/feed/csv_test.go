package feed

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "timestamp,symbol,venue,last_price,last_volume,bid_price,bid_volume,ask_price,ask_volume,bid_ladder,ask_ladder\n"

func writeQuotes(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+body), 0644))
	return path
}

func TestQuoteReaderParsesQuotes(t *testing.T) {
	path := writeQuotes(t,
		"2024-05-06T09:30:00Z,BTCUSD,SIM,50000,0.5,49990,3,50010,2,49990@3;49985@7,50010@2;50015@4\n"+
			"2024-05-06T09:30:01Z,BTCUSD,SIM,50005,1.25,49995,4,50015,1,,\n")

	r, err := OpenQuoteCSV(path)
	require.NoError(t, err)
	defer r.Close()

	q, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "BTCUSD", q.Symbol)
	assert.Equal(t, "SIM", q.Venue)
	assert.Equal(t, time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC), q.Timestamp)
	assert.True(t, q.LastPrice.Equal(decimal.RequireFromString("50000")))
	assert.True(t, q.LastVolume.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, q.BidPrice.Equal(decimal.RequireFromString("49990")))
	assert.True(t, q.AskPrice.Equal(decimal.RequireFromString("50010")))

	require.True(t, q.HasDepth())
	require.Len(t, q.BidLevels, 2)
	assert.True(t, q.BidLevels[0].Price.Equal(decimal.RequireFromString("49990")))
	assert.True(t, q.BidLevels[1].Volume.Equal(decimal.RequireFromString("7")))
	require.Len(t, q.AskLevels, 2)

	q, err = r.Next()
	require.NoError(t, err)
	assert.False(t, q.HasDepth(), "empty ladder columns mean no depth data")
	assert.True(t, q.LastVolume.Equal(decimal.RequireFromString("1.25")))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestQuoteReaderWithoutLadderColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	content := "timestamp,symbol,venue,last_price,last_volume,bid_price,bid_volume,ask_price,ask_volume\n" +
		"2024-05-06T09:30:00Z,BTCUSD,SIM,50000,0.5,49990,3,50010,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r, err := OpenQuoteCSV(path)
	require.NoError(t, err)
	defer r.Close()

	q, err := r.Next()
	require.NoError(t, err)
	assert.False(t, q.HasDepth())
}

func TestQuoteReaderRejectsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,sym\n"), 0644))

	_, err := OpenQuoteCSV(path)
	assert.Error(t, err)
}

func TestQuoteReaderRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad timestamp", "yesterday,BTCUSD,SIM,50000,0.5,49990,3,50010,2,,\n"},
		{"bad decimal", "2024-05-06T09:30:00Z,BTCUSD,SIM,fifty,0.5,49990,3,50010,2,,\n"},
		{"bad ladder pair", "2024-05-06T09:30:00Z,BTCUSD,SIM,50000,0.5,49990,3,50010,2,49990:3,\n"},
		{"bad ladder volume", "2024-05-06T09:30:00Z,BTCUSD,SIM,50000,0.5,49990,3,50010,2,49990@lots,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := OpenQuoteCSV(writeQuotes(t, tt.row))
			require.NoError(t, err)
			defer r.Close()

			_, err = r.Next()
			assert.Error(t, err)
		})
	}
}
