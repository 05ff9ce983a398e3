package matching

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/matchsim/internal/types"
)

var t0 = time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func level1Config() MatchingConfig {
	return MatchingConfig{
		Mode:           types.ModeLevel1,
		CommissionRate: d("0.001"),
		MinCommission:  decimal.Zero,
		SlippageModel:  types.SlippageFixed,
		SlippageBase:   decimal.Zero,
	}
}

func level2Config(level types.QueueLevel) MatchingConfig {
	cfg := level1Config()
	cfg.Mode = types.ModeLevel2
	cfg.QueueLevel = level
	cfg.AllowPartialFill = true
	return cfg
}

func newOrder(t *testing.T, id string, direction types.Direction, price, volume string, at time.Time) *types.Order {
	t.Helper()
	o, err := types.NewOrder(id, "BTCUSD", "SIM", direction, types.OffsetOpen, d(price), d(volume), at)
	require.NoError(t, err)
	return o
}

func newQuote(ts time.Time, bid, ask string) *types.Quote {
	return &types.Quote{
		Symbol:    "BTCUSD",
		Venue:     "SIM",
		Timestamp: ts,
		BidPrice:  d(bid),
		BidVolume: d("10"),
		AskPrice:  d(ask),
		AskVolume: d("10"),
	}
}

func newEngine(t *testing.T, cfg MatchingConfig) *Engine {
	t.Helper()
	e, err := NewEngine(&cfg, nil)
	require.NoError(t, err)
	return e
}
